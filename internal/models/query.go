package models

import (
	"fmt"
	"math"
	"strings"
)

// RecommendMode identifies which selector a RecommendQuery resolves to.
type RecommendMode string

const (
	ModeByID       RecommendMode = "id"
	ModeByText     RecommendMode = "text"
	ModeByCategory RecommendMode = "category"
)

// RecommendQuery is a recommendation request. When more than one selector is set,
// ID wins over Text, and Text wins over Category.
type RecommendQuery struct {
	ID            string   `json:"id,omitempty"`
	Text          string   `json:"text,omitempty"`
	Category      string   `json:"category,omitempty"`
	Limit         int      `json:"limit,omitempty"`
	MinSimilarity *float64 `json:"min_similarity,omitempty"` // nil means use the configured default
}

// Mode returns the selector that applies under the id > text > category precedence.
// Returns ErrInvalidArgument if no selector is set.
func (q *RecommendQuery) Mode() (RecommendMode, error) {
	switch {
	case strings.TrimSpace(q.ID) != "":
		return ModeByID, nil
	case strings.TrimSpace(q.Text) != "":
		return ModeByText, nil
	case strings.TrimSpace(q.Category) != "":
		return ModeByCategory, nil
	default:
		return "", fmt.Errorf("%w: one of id, text or category is required", ErrInvalidArgument)
	}
}

// Validate resolves the mode and normalizes the limit against defaultLimit and maxLimit.
func (q *RecommendQuery) Validate(defaultLimit, maxLimit int) (RecommendMode, error) {
	mode, err := q.Mode()
	if err != nil {
		return "", err
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.MinSimilarity != nil && (math.IsNaN(*q.MinSimilarity) || *q.MinSimilarity < 0 || *q.MinSimilarity > 1) {
		return "", fmt.Errorf("%w: min_similarity must be within [0, 1], got %g", ErrInvalidArgument, *q.MinSimilarity)
	}
	return mode, nil
}
