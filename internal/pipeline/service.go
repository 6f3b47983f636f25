// Package pipeline analyzes a catalog snapshot: quality scores, summary, problem list and index rebuild.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/metaboost/internal/catalog"
	"github.com/hyperjump/metaboost/internal/models"
	"github.com/hyperjump/metaboost/internal/quality"
	"github.com/hyperjump/metaboost/internal/vector"
	"github.com/hyperjump/metaboost/pkg/utils"
)

// Service runs the analysis pipeline and keeps the latest report.
type Service struct {
	quality *quality.Analyzer
	index   *vector.Index
	paths   []string
	logger  *zap.Logger
	now     func() time.Time

	mu   sync.Mutex
	last atomic.Pointer[models.Report]
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock sets the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCatalogPaths sets the catalog files Reload reads.
func WithCatalogPaths(paths []string) Option {
	return func(s *Service) { s.paths = append([]string(nil), paths...) }
}

// NewService creates a pipeline over the given quality analyzer and vector index.
func NewService(analyzer *quality.Analyzer, index *vector.Index, opts ...Option) *Service {
	s := &Service{quality: analyzer, index: index, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Analyze scores records, summarizes them, lists problematic datasets and rebuilds the
// index. The report is only published when the index build succeeds.
func (s *Service) Analyze(ctx context.Context, records []models.DatasetRecord) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scores := s.quality.Score(records)
	summary := quality.Summarize(scores)
	problems := quality.FindProblems(records)

	if _, err := s.index.Build(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	report := &models.Report{
		ID:          uuid.NewString(),
		GeneratedAt: s.now().UTC(),
		Scores:      scores,
		Summary:     summary,
		Problems:    problems,
	}
	s.last.Store(report)
	s.logger.Info("catalog analyzed",
		zap.String("report_id", report.ID),
		zap.Int("datasets", summary.TotalDatasets),
		zap.Float64("average_score", utils.Round(summary.AverageScore, 3)),
		zap.Int("problematic", len(problems)),
		zap.Uint64("generation", s.index.Generation()),
	)
	return report, nil
}

// Reload reads the configured catalog paths and analyzes them.
func (s *Service) Reload(ctx context.Context) (*models.Report, error) {
	if len(s.paths) == 0 {
		return nil, fmt.Errorf("%w: no catalog paths configured", models.ErrInvalidArgument)
	}
	records, err := catalog.LoadAll(s.paths)
	if err != nil {
		return nil, err
	}
	return s.Analyze(ctx, records)
}

// OnCatalogChange is the watcher callback: it reloads every catalog and keeps the
// previous report and index when the reload fails.
func (s *Service) OnCatalogChange(path string) {
	if _, err := s.Reload(context.Background()); err != nil {
		s.logger.Error("catalog reload failed, keeping previous index", zap.String("path", path), zap.Error(err))
		return
	}
	s.logger.Info("catalog reloaded", zap.String("path", path))
}

// LastReport returns the most recent report, or ErrNotReady before the first analysis.
func (s *Service) LastReport() (*models.Report, error) {
	r := s.last.Load()
	if r == nil {
		return nil, models.ErrNotReady
	}
	return r, nil
}

// Index returns the vector index the service rebuilds.
func (s *Service) Index() *vector.Index {
	return s.index
}
