// Package recommend answers content-based dataset recommendation queries over the vector index.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/metaboost/internal/config"
	"github.com/hyperjump/metaboost/internal/metrics"
	"github.com/hyperjump/metaboost/internal/models"
	"github.com/hyperjump/metaboost/internal/vector"
)

// Engine runs by-id, by-text and by-category queries against the published index.
type Engine struct {
	index  *vector.Index
	ranker *vector.Ranker
	config *config.RecommendConfig
	logger *zap.Logger
}

// NewEngine creates an engine. A nil cfg uses the configuration defaults; a nil logger discards logs.
func NewEngine(index *vector.Index, ranker *vector.Ranker, cfg *config.RecommendConfig, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = &config.Default().Recommend
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{index: index, ranker: ranker, config: cfg, logger: logger}
}

// Index returns the index the engine queries.
func (e *Engine) Index() *vector.Index {
	return e.index
}

// Recommend resolves the query's selector (id > text > category) and runs it.
func (e *Engine) Recommend(ctx context.Context, query *models.RecommendQuery) (*models.RecommendResponse, error) {
	start := time.Now()
	mode, err := query.Validate(e.config.DefaultLimit, e.config.MaxLimit)
	if err != nil {
		e.observe(mode, start, err)
		return nil, err
	}
	minSimilarity := e.config.MinSimilarityOrDefault()
	if query.MinSimilarity != nil {
		minSimilarity = *query.MinSimilarity
	}

	m, err := e.index.Model()
	if err != nil {
		e.observe(mode, start, err)
		return nil, err
	}

	var recs []models.Recommendation
	switch mode {
	case models.ModeByID:
		recs, err = e.byID(ctx, m, strings.TrimSpace(query.ID), query.Limit, minSimilarity)
	case models.ModeByText:
		recs, err = e.byText(ctx, m, query.Text, query.Limit, minSimilarity)
	case models.ModeByCategory:
		recs, err = e.byCategory(ctx, m, strings.TrimSpace(query.Category), query.Limit)
	}
	e.observe(mode, start, err)
	if err != nil {
		return nil, err
	}
	return &models.RecommendResponse{
		Mode:            mode,
		Recommendations: recs,
		Total:           len(recs),
		QueryTime:       time.Since(start).Milliseconds(),
		Generation:      m.Generation(),
	}, nil
}

// ByID recommends datasets similar to the dataset with the given id, excluding itself.
func (e *Engine) ByID(ctx context.Context, id string, n int, minSimilarity float64) ([]models.Recommendation, error) {
	return e.run(models.ModeByID, func(m *vector.Model) ([]models.Recommendation, error) {
		return e.byID(ctx, m, id, n, minSimilarity)
	})
}

// ByText recommends datasets similar to free text, using the frozen vocabulary.
func (e *Engine) ByText(ctx context.Context, text string, n int, minSimilarity float64) ([]models.Recommendation, error) {
	return e.run(models.ModeByText, func(m *vector.Model) ([]models.Recommendation, error) {
		return e.byText(ctx, m, text, n, minSimilarity)
	})
}

// ByCategory returns the datasets most representative of category. An unmatched
// category yields an empty slice, not an error.
func (e *Engine) ByCategory(ctx context.Context, category string, n int) ([]models.Recommendation, error) {
	return e.run(models.ModeByCategory, func(m *vector.Model) ([]models.Recommendation, error) {
		return e.byCategory(ctx, m, category, n)
	})
}

func (e *Engine) run(mode models.RecommendMode, query func(m *vector.Model) ([]models.Recommendation, error)) ([]models.Recommendation, error) {
	start := time.Now()
	m, err := e.index.Model()
	if err != nil {
		e.observe(mode, start, err)
		return nil, err
	}
	recs, err := query(m)
	e.observe(mode, start, err)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (e *Engine) byID(ctx context.Context, m *vector.Model, id string, n int, minSimilarity float64) ([]models.Recommendation, error) {
	target, ok := m.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: dataset %q", models.ErrNotFound, id)
	}
	scored, err := e.ranker.Rank(ctx, m, m.Vector(target), n, minSimilarity, target)
	if err != nil {
		return nil, err
	}
	query := m.Record(target)
	out := make([]models.Recommendation, len(scored))
	for i, s := range scored {
		cand := m.Record(s.Index)
		out[i] = newRecommendation(cand, s.Score, commonTags(query.Tags, cand.Tags), commonCategories(query.Category, cand.Category))
	}
	return out, nil
}

func (e *Engine) byText(ctx context.Context, m *vector.Model, text string, n int, minSimilarity float64) ([]models.Recommendation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", models.ErrInvalidArgument)
	}
	scored, err := e.ranker.Rank(ctx, m, m.Vectorize(text), n, minSimilarity, vector.NoExclude)
	if err != nil {
		return nil, err
	}
	out := make([]models.Recommendation, len(scored))
	for i, s := range scored {
		cand := m.Record(s.Index)
		cats := []string{}
		if cand.Category != "" {
			cats = []string{cand.Category}
		}
		out[i] = newRecommendation(cand, s.Score, append([]string{}, cand.Tags...), cats)
	}
	return out, nil
}

func (e *Engine) byCategory(ctx context.Context, m *vector.Model, category string, n int) ([]models.Recommendation, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is empty", models.ErrInvalidArgument)
	}
	var subset []int
	for i := 0; i < m.Len(); i++ {
		if m.Record(i).Category == category {
			subset = append(subset, i)
		}
	}
	if len(subset) == 0 {
		return []models.Recommendation{}, nil
	}
	scored, err := e.ranker.Centrality(ctx, m, subset, n)
	if err != nil {
		return nil, err
	}
	out := make([]models.Recommendation, len(scored))
	for i, s := range scored {
		cand := m.Record(s.Index)
		out[i] = newRecommendation(cand, s.Score, append([]string{}, cand.Tags...), []string{category})
	}
	return out, nil
}

func (e *Engine) observe(mode models.RecommendMode, start time.Time, err error) {
	outcome := outcomeFor(err)
	metrics.ObserveQuery(string(mode), outcome, time.Since(start))
	if err != nil && outcome == metrics.OutcomeError {
		e.logger.Warn("recommendation query failed", zap.String("mode", string(mode)), zap.Error(err))
	}
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, models.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, models.ErrNotReady):
		return metrics.OutcomeNotReady
	case errors.Is(err, models.ErrInvalidArgument):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
