package quality

import "strings"

// ScoreTable maps a case-insensitive key to a score, with a fallback for unknown keys.
type ScoreTable struct {
	scores   map[string]float64
	fallback float64
}

// NewScoreTable builds a table from entries; keys are matched case-insensitively.
func NewScoreTable(entries map[string]float64, fallback float64) ScoreTable {
	t := ScoreTable{scores: make(map[string]float64, len(entries)), fallback: fallback}
	for k, v := range entries {
		t.scores[normalizeKey(k)] = v
	}
	return t
}

// Lookup returns the score for key, or the fallback when key is unknown or empty.
func (t ScoreTable) Lookup(key string) float64 {
	if v, ok := t.scores[normalizeKey(key)]; ok {
		return v
	}
	return t.fallback
}

// With returns a copy of t with overrides applied on top.
func (t ScoreTable) With(overrides map[string]float64) ScoreTable {
	merged := make(map[string]float64, len(t.scores)+len(overrides))
	for k, v := range t.scores {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[normalizeKey(k)] = v
	}
	return ScoreTable{scores: merged, fallback: t.fallback}
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tables groups the three lookup tables used by feature extraction.
type Tables struct {
	Format    ScoreTable
	License   ScoreTable
	Frequency ScoreTable
}

// DefaultTables returns the reference scoring tables.
func DefaultTables() Tables {
	return Tables{
		Format: NewScoreTable(map[string]float64{
			"CSV":  1.0,
			"JSON": 1.0,
			"XML":  0.8,
			"XLSX": 0.7,
			"HTML": 0.6,
			"PDF":  0.5,
		}, 0.3),
		License: NewScoreTable(map[string]float64{
			"CC0":      1.0,
			"CC-BY":    1.0,
			"ODC-BY":   1.0,
			"CC-BY-SA": 0.9,
			"ODC-ODbL": 0.9,
		}, 0.5),
		Frequency: NewScoreTable(map[string]float64{
			"daily":     1.0,
			"weekly":    0.9,
			"monthly":   0.8,
			"quarterly": 0.7,
			"annually":  0.6,
			"never":     0.1,
		}, 0.5),
	}
}
