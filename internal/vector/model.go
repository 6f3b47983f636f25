package vector

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hyperjump/metaboost/internal/analysis"
	"github.com/hyperjump/metaboost/internal/models"
	"github.com/hyperjump/metaboost/pkg/utils"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 5000

// Model is a fitted TF-IDF vector-space model over one catalog snapshot.
// It is read-only after Fit returns and safe for concurrent queries.
type Model struct {
	analyzer   *analysis.Analyzer
	vocabulary map[string]int // term -> column
	terms      []string       // column -> term
	idf        []float64      // column -> idf weight

	records []models.DatasetRecord
	byID    map[string]int
	vectors []SparseVector
	norms   []float64

	cache      *QueryCache
	generation uint64
	builtAt    time.Time
}

// FitOptions configures model fitting.
type FitOptions struct {
	MaxFeatures    int
	QueryCacheSize int
}

// Fit builds a model from records. Records are copied, so later changes by the caller
// do not leak into the model. Duplicate ids are rejected.
func Fit(a *analysis.Analyzer, records []models.DatasetRecord, opts FitOptions) (*Model, error) {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultMaxFeatures
	}

	m := &Model{
		analyzer: a,
		records:  make([]models.DatasetRecord, len(records)),
		byID:     make(map[string]int, len(records)),
		cache:    NewQueryCache(opts.QueryCacheSize),
		builtAt:  time.Now(),
	}
	for i, rec := range records {
		if _, dup := m.byID[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate dataset id %q", models.ErrInvalidArgument, rec.ID)
		}
		m.byID[rec.ID] = i
		rec.Tags = append([]string(nil), rec.Tags...)
		m.records[i] = rec
	}

	docTerms := make([][]string, len(records))
	docFreq := make(map[string]int)
	for i, rec := range m.records {
		terms := a.Terms(analysis.DocumentText(rec))
		docTerms[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			docFreq[t]++
		}
	}

	m.buildVocabulary(docFreq, len(records), opts.MaxFeatures)

	m.vectors = make([]SparseVector, len(records))
	m.norms = make([]float64, len(records))
	for i, terms := range docTerms {
		m.vectors[i] = m.weigh(terms)
		m.norms[i] = m.vectors[i].L2Norm()
	}
	return m, nil
}

// buildVocabulary keeps the maxFeatures terms with the highest document frequency.
// Ties go to the lexically smaller term; columns are assigned in lexical order.
func (m *Model) buildVocabulary(docFreq map[string]int, numDocs, maxFeatures int) {
	candidates := make([]string, 0, len(docFreq))
	for t := range docFreq {
		candidates = append(candidates, t)
	}
	sort.Slice(candidates, func(i, j int) bool {
		di, dj := docFreq[candidates[i]], docFreq[candidates[j]]
		if di != dj {
			return di > dj
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > maxFeatures {
		candidates = candidates[:maxFeatures]
	}
	sort.Strings(candidates)

	m.terms = candidates
	m.vocabulary = make(map[string]int, len(candidates))
	m.idf = make([]float64, len(candidates))
	n := float64(numDocs)
	for col, t := range candidates {
		m.vocabulary[t] = col
		// Smoothed idf: ln((1+n)/(1+df)) + 1 stays positive for terms in every document.
		m.idf[col] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}
}

// weigh turns a term list into an L2-normalized tf*idf vector over the frozen vocabulary.
// Terms outside the vocabulary are ignored.
func (m *Model) weigh(terms []string) SparseVector {
	counts := make(map[int]int)
	for _, t := range terms {
		if col, ok := m.vocabulary[t]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}
	indices := make([]int, 0, len(counts))
	for col := range counts {
		indices = append(indices, col)
	}
	sort.Ints(indices)
	values := make([]float64, len(indices))
	for i, col := range indices {
		values[i] = float64(counts[col]) * m.idf[col]
	}
	utils.NormalizeL2(values)
	return SparseVector{Indices: indices, Values: values}
}

// Vectorize maps ad-hoc text onto the frozen vocabulary. It never changes the model.
func (m *Model) Vectorize(text string) SparseVector {
	if v, ok := m.cache.Get(text); ok {
		return v
	}
	v := m.weigh(m.analyzer.Terms(text))
	m.cache.Set(text, v)
	return v
}

// Lookup returns the corpus position of the dataset with the given id.
func (m *Model) Lookup(id string) (int, bool) {
	i, ok := m.byID[id]
	return i, ok
}

// Record returns the dataset at corpus position i.
func (m *Model) Record(i int) models.DatasetRecord {
	return m.records[i]
}

// Vector returns the fitted vector at corpus position i.
func (m *Model) Vector(i int) SparseVector {
	return m.vectors[i]
}

// Len returns the number of documents in the model.
func (m *Model) Len() int {
	return len(m.records)
}

// VocabularySize returns the number of terms in the vocabulary.
func (m *Model) VocabularySize() int {
	return len(m.terms)
}

// Term returns the vocabulary term at column col.
func (m *Model) Term(col int) string {
	return m.terms[col]
}

// IDF returns the idf weight of term and whether the term is in the vocabulary.
func (m *Model) IDF(term string) (float64, bool) {
	col, ok := m.vocabulary[term]
	if !ok {
		return 0, false
	}
	return m.idf[col], true
}

// Generation is the publish sequence number assigned by the Index; 0 for unpublished models.
func (m *Model) Generation() uint64 {
	return m.generation
}

// BuiltAt reports when the model was fitted.
func (m *Model) BuiltAt() time.Time {
	return m.builtAt
}
