// Package vector implements the TF-IDF vector index and cosine similarity ranking.
package vector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/metaboost/internal/analysis"
	"github.com/hyperjump/metaboost/internal/metrics"
	"github.com/hyperjump/metaboost/internal/models"
)

// State is the lifecycle state of an Index.
type State int

const (
	StateUnfit State = iota
	StateFit
)

func (s State) String() string {
	switch s {
	case StateFit:
		return "fit"
	default:
		return "unfit"
	}
}

type snapshot struct {
	state State
	model *Model
}

// Index holds the currently published model. Readers load it lock-free; Build
// fits a replacement off to the side and publishes it with a single store.
type Index struct {
	current    atomic.Pointer[snapshot]
	buildMu    sync.Mutex
	generation uint64

	analyzer *analysis.Analyzer
	opts     FitOptions
	logger   *zap.Logger
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithLogger sets the logger used for build events.
func WithLogger(l *zap.Logger) IndexOption {
	return func(ix *Index) { ix.logger = l }
}

// WithFitOptions sets the vocabulary cap and query cache size used by Build.
func WithFitOptions(opts FitOptions) IndexOption {
	return func(ix *Index) { ix.opts = opts }
}

// NewIndex creates an unfit index.
func NewIndex(a *analysis.Analyzer, opts ...IndexOption) *Index {
	ix := &Index{analyzer: a, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.logger == nil {
		ix.logger = zap.NewNop()
	}
	ix.current.Store(&snapshot{state: StateUnfit})
	return ix
}

// Build fits a model over records and publishes it. On error the previously
// published model, if any, stays in place. Builds are serialized.
func (ix *Index) Build(ctx context.Context, records []models.DatasetRecord) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()

	start := time.Now()
	m, err := Fit(ix.analyzer, records, ix.opts)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		metrics.ObserveBuild(time.Since(start), 0, 0, err)
		ix.logger.Warn("index build failed", zap.Int("records", len(records)), zap.Error(err))
		return nil, err
	}

	ix.generation++
	m.generation = ix.generation
	ix.current.Store(&snapshot{state: StateFit, model: m})

	elapsed := time.Since(start)
	metrics.ObserveBuild(elapsed, m.Len(), m.VocabularySize(), nil)
	ix.logger.Info("index built",
		zap.Int("documents", m.Len()),
		zap.Int("vocabulary", m.VocabularySize()),
		zap.Uint64("generation", m.generation),
		zap.Duration("duration", elapsed),
	)
	return m, nil
}

// Model returns the published model, or ErrNotReady before the first successful build.
func (ix *Index) Model() (*Model, error) {
	s := ix.current.Load()
	if s.state != StateFit {
		return nil, models.ErrNotReady
	}
	return s.model, nil
}

// State reports whether a model has been published.
func (ix *Index) State() State {
	return ix.current.Load().state
}

// Generation returns the generation of the published model, 0 while unfit.
func (ix *Index) Generation() uint64 {
	s := ix.current.Load()
	if s.model == nil {
		return 0
	}
	return s.model.generation
}

// Stats is a point-in-time view of the published index.
type Stats struct {
	State          string    `json:"state"`
	Generation     uint64    `json:"generation"`
	Documents      int       `json:"documents"`
	VocabularySize int       `json:"vocabulary_size"`
	BuiltAt        time.Time `json:"built_at,omitempty"`
}

// Stats returns a consistent snapshot of the index state.
func (ix *Index) Stats() Stats {
	s := ix.current.Load()
	st := Stats{State: s.state.String()}
	if s.model != nil {
		st.Generation = s.model.generation
		st.Documents = s.model.Len()
		st.VocabularySize = s.model.VocabularySize()
		st.BuiltAt = s.model.builtAt
	}
	return st
}
