package vector

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/hyperjump/metaboost/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	a := SparseVector{Indices: []int{0, 2}, Values: []float64{3, 4}}
	b := SparseVector{Indices: []int{2, 5}, Values: []float64{1, 0}}
	tests := []struct {
		name string
		x, y SparseVector
		want float64
	}{
		{"self", a, a, 1},
		{"partial overlap", a, b, 4.0 / 5.0},
		{"disjoint", a, SparseVector{Indices: []int{1}, Values: []float64{2}}, 0},
		{"zero vector", a, SparseVector{}, 0},
		{"both zero", SparseVector{}, SparseVector{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.x, tt.y); !approx(got, tt.want) {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRanker_Rank(t *testing.T) {
	m := fit(t, smallCorpus(), FitOptions{})
	r := NewRanker(2)
	ctx := context.Background()
	q := m.Vectorize("bus")

	got, err := r.Rank(ctx, m, q, 5, 0.1, NoExclude)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Index != 0 || got[1].Index != 1 {
		t.Fatalf("Rank = %+v, want a then b", got)
	}
	if !approx(got[0].Score, got[1].Score) {
		t.Errorf("expected tied scores, got %v and %v", got[0].Score, got[1].Score)
	}

	got, _ = r.Rank(ctx, m, q, 5, 0.1, 0)
	if len(got) != 1 || got[0].Index != 1 {
		t.Errorf("excluded rank = %+v", got)
	}

	got, _ = r.Rank(ctx, m, q, 1, 0, NoExclude)
	if len(got) != 1 || got[0].Index != 0 {
		t.Errorf("truncated rank = %+v", got)
	}

	got, _ = r.Rank(ctx, m, q, 5, 0.99, NoExclude)
	if len(got) != 0 {
		t.Errorf("high threshold should filter everything, got %+v", got)
	}
}

func TestRanker_ZeroQueryScoresZero(t *testing.T) {
	m := fit(t, smallCorpus(), FitOptions{})
	got, err := NewRanker(1).Rank(context.Background(), m, SparseVector{}, 0, 0, NoExclude)
	if err != nil {
		t.Fatal(err)
	}
	want := []Scored{{0, 0}, {1, 0}, {2, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank(zero) = %+v, want %+v", got, want)
	}
}

func TestRanker_ThresholdLaw(t *testing.T) {
	m := fit(t, largerCorpus(40), FitOptions{})
	q := m.Vectorize("bus routes madrid")
	for _, minSim := range []float64{0, 0.05, 0.1, 0.3, 0.7} {
		got, err := NewRanker(4).Rank(context.Background(), m, q, 40, minSim, NoExclude)
		if err != nil {
			t.Fatal(err)
		}
		for i, s := range got {
			if s.Score < minSim {
				t.Errorf("minSim %v: result %d has score %v", minSim, i, s.Score)
			}
			if i > 0 && got[i-1].Score < s.Score {
				t.Errorf("minSim %v: results not sorted at %d", minSim, i)
			}
		}
	}
}

func TestRanker_ParallelMatchesSerial(t *testing.T) {
	m := fit(t, largerCorpus(1000), FitOptions{})
	q := m.Vectorize("air quality bus")
	serial, err := NewRanker(1).ScoreAll(context.Background(), m, q)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := NewRanker(7).ScoreAll(context.Background(), m, q)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(serial, parallel) {
		t.Error("parallel scores differ from serial scores")
	}
}

func TestRanker_Cancelled(t *testing.T) {
	m := fit(t, smallCorpus(), FitOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRanker(2).Rank(ctx, m, m.Vectorize("bus"), 5, 0, NoExclude); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRanker_Centrality(t *testing.T) {
	m := fit(t, smallCorpus(), FitOptions{})
	r := NewRanker(2)
	cosAB := CosineSimilarity(m.Vector(0), m.Vector(1))

	got, err := r.Centrality(context.Background(), m, []int{0, 1, 2}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Index != 0 || got[1].Index != 1 || got[2].Index != 2 {
		t.Fatalf("Centrality order = %+v", got)
	}
	if !approx(got[0].Score, (1+cosAB)/3) || !approx(got[2].Score, 1.0/3.0) {
		t.Errorf("Centrality scores = %+v", got)
	}

	single, _ := r.Centrality(context.Background(), m, []int{2}, 5)
	if len(single) != 1 || !approx(single[0].Score, 1) {
		t.Errorf("single-member centrality = %+v", single)
	}

	empty, _ := r.Centrality(context.Background(), m, nil, 5)
	if empty == nil || len(empty) != 0 {
		t.Errorf("empty subset = %v", empty)
	}
}

func TestSelect_DefaultN(t *testing.T) {
	in := make([]Scored, 8)
	for i := range in {
		in[i] = Scored{Index: i, Score: 0.5}
	}
	got := Select(in, 0, 0)
	if len(got) != DefaultTopN {
		t.Fatalf("len = %d", len(got))
	}
	for i, s := range got {
		if s.Index != i {
			t.Errorf("stable order broken at %d: %+v", i, s)
		}
	}
}

func largerCorpus(n int) []models.DatasetRecord {
	topics := []string{
		"bus routes madrid public transport",
		"air quality stations pollution",
		"census population households",
		"bicycle lanes city mobility",
		"budget expenses municipal",
	}
	out := make([]models.DatasetRecord, n)
	for i := range out {
		topic := topics[i%len(topics)]
		out[i] = models.DatasetRecord{
			ID:    fmt.Sprintf("ds-%d", i),
			Title: fmt.Sprintf("%s %d", topic, i/len(topics)),
			Tags:  []string{fmt.Sprintf("tag%d", i%7)},
		}
	}
	return out
}
