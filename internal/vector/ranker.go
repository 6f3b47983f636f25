package vector

import (
	"context"
	"runtime"
	"sort"
	"sync"
)

// DefaultTopN is the result count used when a caller asks for n <= 0.
const DefaultTopN = 5

// NoExclude disables self-exclusion in Rank.
const NoExclude = -1

// ctxCheckEvery is how many documents a worker scores between context checks.
const ctxCheckEvery = 256

// Scored is a corpus position with its similarity to a query.
type Scored struct {
	Index int
	Score float64
}

// Ranker scores a query vector against every document of a model using a bounded
// pool of goroutines, then selects the top results.
type Ranker struct {
	workers int
}

// NewRanker creates a ranker with the given parallelism; workers <= 0 means GOMAXPROCS.
func NewRanker(workers int) *Ranker {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ranker{workers: workers}
}

// ScoreAll returns the cosine similarity of q to each document, indexed by corpus position.
func (r *Ranker) ScoreAll(ctx context.Context, m *Model, q SparseVector) ([]float64, error) {
	scores := make([]float64, m.Len())
	qNorm := q.L2Norm()
	err := r.parallel(ctx, m.Len(), func(i int) {
		scores[i] = cosineWithNorms(q, m.vectors[i], qNorm, m.norms[i])
	})
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// Rank scores q against the model and returns at most n results with score >= minSimilarity,
// best first. Ties keep corpus order. The document at position exclude is never returned.
func (r *Ranker) Rank(ctx context.Context, m *Model, q SparseVector, n int, minSimilarity float64, exclude int) ([]Scored, error) {
	scores, err := r.ScoreAll(ctx, m, q)
	if err != nil {
		return nil, err
	}
	candidates := make([]Scored, 0, len(scores))
	for i, s := range scores {
		if i == exclude {
			continue
		}
		candidates = append(candidates, Scored{Index: i, Score: s})
	}
	return Select(candidates, n, minSimilarity), nil
}

// Select stably sorts candidates by score descending, drops those below minSimilarity
// and truncates to n (DefaultTopN when n <= 0). candidates is reordered in place.
func Select(candidates []Scored, n int, minSimilarity float64) []Scored {
	if n <= 0 {
		n = DefaultTopN
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	out := make([]Scored, 0, min(n, len(candidates)))
	for _, c := range candidates {
		if c.Score < minSimilarity {
			// Sorted descending: nothing after this passes either.
			break
		}
		out = append(out, c)
		if len(out) == n {
			break
		}
	}
	return out
}

// Centrality ranks the documents at positions subset by their mean cosine similarity
// to every document in subset, themselves included. No threshold is applied.
func (r *Ranker) Centrality(ctx context.Context, m *Model, subset []int, n int) ([]Scored, error) {
	out := make([]Scored, len(subset))
	if len(subset) == 0 {
		return out, nil
	}
	size := float64(len(subset))
	err := r.parallel(ctx, len(subset), func(k int) {
		i := subset[k]
		var sum float64
		for _, j := range subset {
			if j == i {
				// Exact diagonal, so members with identical off-diagonal sums tie exactly.
				if m.norms[i] > 0 {
					sum++
				}
				continue
			}
			sum += cosineWithNorms(m.vectors[i], m.vectors[j], m.norms[i], m.norms[j])
		}
		out[k] = Scored{Index: i, Score: sum / size}
	})
	if err != nil {
		return nil, err
	}
	return Select(out, n, 0), nil
}

// parallel runs fn(i) for i in [0,n) across the worker pool. Each worker owns a
// contiguous range, so fn may write to index i of a shared slice without locking.
func (r *Ranker) parallel(ctx context.Context, n int, fn func(i int)) error {
	if n == 0 {
		return ctx.Err()
	}
	workers := min(r.workers, n)
	chunk := (n + workers - 1) / workers

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if (i-lo)%ctxCheckEvery == 0 {
					if err := ctx.Err(); err != nil {
						errOnce.Do(func() { firstErr = err })
						return
					}
				}
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
	return firstErr
}
