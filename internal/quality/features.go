// Package quality extracts metadata features from catalog datasets and scores their quality.
package quality

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hyperjump/metaboost/internal/models"
)

// Extractor maps dataset records to feature vectors using fixed lookup tables.
type Extractor struct {
	tables Tables
	now    func() time.Time
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithTables replaces the default lookup tables.
func WithTables(t Tables) ExtractorOption {
	return func(e *Extractor) { e.tables = t }
}

// WithClock sets the time source used for days-since-update.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) { e.now = now }
}

// NewExtractor returns an Extractor with the default tables and the wall clock.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{tables: DefaultTables(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract computes the feature vector for one record. It never fails: missing
// fields count as empty, and a zero or future LastUpdated yields zero days.
func (e *Extractor) Extract(rec models.DatasetRecord) models.FeatureVector {
	days := 0
	if !rec.LastUpdated.IsZero() {
		if d := int(e.now().Sub(rec.LastUpdated).Hours() / 24); d > 0 {
			days = d
		}
	}
	return models.FeatureVector{
		DatasetID:         rec.ID,
		TitleLength:       utf8.RuneCountInString(rec.Title),
		DescriptionLength: utf8.RuneCountInString(rec.Description),
		HasDescription:    strings.TrimSpace(rec.Description) != "",
		HasCategory:       rec.Category != "",
		NumTags:           len(rec.Tags),
		FormatScore:       e.tables.Format.Lookup(rec.Format),
		LicenseScore:      e.tables.License.Lookup(rec.License),
		FrequencyScore:    e.tables.Frequency.Lookup(rec.Frequency),
		DaysSinceUpdate:   days,
	}
}

// ExtractAll extracts features for every record, preserving order.
func (e *Extractor) ExtractAll(records []models.DatasetRecord) []models.FeatureVector {
	out := make([]models.FeatureVector, len(records))
	for i, rec := range records {
		out[i] = e.Extract(rec)
	}
	return out
}
