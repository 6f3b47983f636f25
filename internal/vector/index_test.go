package vector

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hyperjump/metaboost/internal/analysis"
	"github.com/hyperjump/metaboost/internal/models"
)

func TestIndex_NotReadyBeforeBuild(t *testing.T) {
	ix := NewIndex(analysis.MustNewAnalyzer())
	if _, err := ix.Model(); !errors.Is(err, models.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
	if ix.State() != StateUnfit || ix.Generation() != 0 {
		t.Errorf("state=%v generation=%d", ix.State(), ix.Generation())
	}
	if st := ix.Stats(); st.State != "unfit" || st.Documents != 0 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestIndex_BuildPublishes(t *testing.T) {
	ix := NewIndex(analysis.MustNewAnalyzer())
	ctx := context.Background()

	m1, err := ix.Build(ctx, smallCorpus())
	if err != nil {
		t.Fatal(err)
	}
	if ix.State() != StateFit || ix.Generation() != 1 || m1.Generation() != 1 {
		t.Errorf("after first build: state=%v generation=%d", ix.State(), ix.Generation())
	}
	got, err := ix.Model()
	if err != nil || got != m1 {
		t.Errorf("Model() = %p, %v", got, err)
	}

	m2, err := ix.Build(ctx, smallCorpus()[:1])
	if err != nil {
		t.Fatal(err)
	}
	if ix.Generation() != 2 || m2.Len() != 1 {
		t.Errorf("after rebuild: generation=%d len=%d", ix.Generation(), m2.Len())
	}
	if m1.Len() != 3 {
		t.Error("rebuild mutated the previous model")
	}
	st := ix.Stats()
	if st.State != "fit" || st.Generation != 2 || st.Documents != 1 || st.VocabularySize != 3 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestIndex_FailedBuildKeepsModel(t *testing.T) {
	ix := NewIndex(analysis.MustNewAnalyzer())
	ctx := context.Background()
	good, err := ix.Build(ctx, smallCorpus())
	if err != nil {
		t.Fatal(err)
	}
	_, err = ix.Build(ctx, []models.DatasetRecord{rec("dup", "a"), rec("dup", "b")})
	if !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	cur, _ := ix.Model()
	if cur != good || ix.Generation() != 1 {
		t.Errorf("failed build replaced the published model")
	}
}

func TestIndex_BuildOnUnfitFailureStaysUnfit(t *testing.T) {
	ix := NewIndex(analysis.MustNewAnalyzer())
	_, err := ix.Build(context.Background(), []models.DatasetRecord{rec("dup", "a"), rec("dup", "b")})
	if err == nil {
		t.Fatal("expected error")
	}
	if _, err := ix.Model(); !errors.Is(err, models.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestIndex_BuildCancelled(t *testing.T) {
	ix := NewIndex(analysis.MustNewAnalyzer())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ix.Build(ctx, smallCorpus()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if ix.State() != StateUnfit {
		t.Error("cancelled build published a model")
	}
}

func TestIndex_ConcurrentReadsDuringRebuild(t *testing.T) {
	ix := NewIndex(analysis.MustNewAnalyzer(), WithFitOptions(FitOptions{QueryCacheSize: 16}))
	ctx := context.Background()
	if _, err := ix.Build(ctx, largerCorpus(50)); err != nil {
		t.Fatal(err)
	}
	r := NewRanker(2)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m, err := ix.Model()
				if err != nil {
					t.Error(err)
					return
				}
				res, err := r.Rank(ctx, m, m.Vectorize("bus routes"), 5, 0, NoExclude)
				if err != nil {
					t.Error(err)
					return
				}
				for _, s := range res {
					if s.Index >= m.Len() {
						t.Errorf("result index %d out of range for model of %d", s.Index, m.Len())
					}
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		if _, err := ix.Build(ctx, largerCorpus(10+i*20)); err != nil {
			t.Error(err)
		}
	}
	wg.Wait()
}
