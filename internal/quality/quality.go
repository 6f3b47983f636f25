package quality

import (
	"github.com/hyperjump/metaboost/internal/config"
	"github.com/hyperjump/metaboost/internal/models"
)

// Analyzer chains feature extraction and scoring for a batch of records.
type Analyzer struct {
	extractor *Extractor
	scorer    *Scorer
}

// NewAnalyzer builds an Analyzer from scoring config. Table overrides in cfg are
// merged over the defaults. A nil cfg uses the defaults.
func NewAnalyzer(cfg *config.ScoringConfig, opts ...ExtractorOption) *Analyzer {
	tables := DefaultTables()
	stale := 0
	if cfg != nil {
		tables.Format = tables.Format.With(cfg.FormatScores)
		tables.License = tables.License.With(cfg.LicenseScores)
		tables.Frequency = tables.Frequency.With(cfg.FrequencyScores)
		stale = cfg.StaleAfterDays
	}
	opts = append([]ExtractorOption{WithTables(tables)}, opts...)
	return &Analyzer{
		extractor: NewExtractor(opts...),
		scorer:    NewScorer(stale),
	}
}

// Score extracts and scores every record, preserving order.
func (a *Analyzer) Score(records []models.DatasetRecord) []models.QualityScore {
	return a.scorer.ScoreAll(a.extractor.ExtractAll(records))
}

// Features exposes the extracted feature vectors for records.
func (a *Analyzer) Features(records []models.DatasetRecord) []models.FeatureVector {
	return a.extractor.ExtractAll(records)
}
