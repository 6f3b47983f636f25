package vector

import "math"

// SparseVector is a sparse TF-IDF vector. Indices are vocabulary columns in ascending
// order; Values holds the weight for each index.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int {
	return len(v.Indices)
}

// L2Norm returns the L2 norm of the vector.
func (v SparseVector) L2Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// InnerProduct returns the dot product of two sparse vectors by merging their sorted indices.
func InnerProduct(a, b SparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// CosineSimilarity returns dot(a,b)/(|a||b|), or 0 when either norm is 0.
func CosineSimilarity(a, b SparseVector) float64 {
	return cosineWithNorms(a, b, a.L2Norm(), b.L2Norm())
}

func cosineWithNorms(a, b SparseVector, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	return InnerProduct(a, b) / (normA * normB)
}
