package models

import (
	"errors"
	"math"
	"testing"
)

func TestRecommendQuery_Mode(t *testing.T) {
	tests := []struct {
		name    string
		query   *RecommendQuery
		want    RecommendMode
		wantErr bool
	}{
		{"no selector", &RecommendQuery{}, "", true},
		{"blank selectors", &RecommendQuery{ID: " ", Text: "\t", Category: ""}, "", true},
		{"id only", &RecommendQuery{ID: "ds-1"}, ModeByID, false},
		{"text only", &RecommendQuery{Text: "bus lines"}, ModeByText, false},
		{"category only", &RecommendQuery{Category: "transport"}, ModeByCategory, false},
		{"id beats text and category", &RecommendQuery{ID: "ds-1", Text: "bus", Category: "transport"}, ModeByID, false},
		{"text beats category", &RecommendQuery{Text: "bus", Category: "transport"}, ModeByText, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Mode()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Mode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Mode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecommendQuery_Validate(t *testing.T) {
	t.Run("sets default limit", func(t *testing.T) {
		q := &RecommendQuery{Text: "x"}
		if _, err := q.Validate(5, 100); err != nil {
			t.Fatal(err)
		}
		if q.Limit != 5 {
			t.Errorf("expected default limit 5, got %d", q.Limit)
		}
	})

	t.Run("caps limit", func(t *testing.T) {
		q := &RecommendQuery{Text: "x", Limit: 500}
		if _, err := q.Validate(5, 100); err != nil {
			t.Fatal(err)
		}
		if q.Limit != 100 {
			t.Errorf("expected limit capped at 100, got %d", q.Limit)
		}
	})

	t.Run("rejects out of range min similarity", func(t *testing.T) {
		bad := 1.5
		q := &RecommendQuery{Text: "x", MinSimilarity: &bad}
		if _, err := q.Validate(5, 100); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("rejects NaN min similarity", func(t *testing.T) {
		nan := math.NaN()
		q := &RecommendQuery{Text: "x", MinSimilarity: &nan}
		if _, err := q.Validate(5, 100); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("keeps explicit zero min similarity", func(t *testing.T) {
		zero := 0.0
		q := &RecommendQuery{Category: "c", MinSimilarity: &zero}
		mode, err := q.Validate(5, 100)
		if err != nil {
			t.Fatal(err)
		}
		if mode != ModeByCategory || q.MinSimilarity == nil || *q.MinSimilarity != 0 {
			t.Errorf("unexpected result: mode=%q min=%v", mode, q.MinSimilarity)
		}
	})
}
