// Package vector combines chunk embeddings into a single document embedding.
package vector

import (
	"math"

	"github.com/willianpinho/document-management-system-sub001/internal/domain"
)

// Combine merges vectors into one by weighted average followed by L2 normalisation.
//
// A single vector is returned unchanged. A nil weights slice means uniform weights;
// otherwise weights must match len(vectors), be non-negative and sum to a positive value.
func Combine(vectors [][]float32, weights []float64) ([]float32, error) {
	switch len(vectors) {
	case 0:
		return nil, domain.ErrEmptyInput
	case 1:
		return vectors[0], nil
	}

	dims := len(vectors[0])
	for i, v := range vectors[1:] {
		if len(v) != dims {
			return nil, &domain.DimensionMismatchError{Index: i + 1, Expected: dims, Got: len(v)}
		}
	}

	w, err := normalizeWeights(weights, len(vectors))
	if err != nil {
		return nil, err
	}

	sum := make([]float64, dims)
	for i, v := range vectors {
		for d, x := range v {
			sum[d] += w[i] * float64(x)
		}
	}

	norm := 0.0
	for _, x := range sum {
		norm += x * x
	}
	norm = math.Sqrt(norm)

	out := make([]float32, dims)
	if norm == 0 {
		return out, nil
	}
	for d, x := range sum {
		out[d] = float32(x / norm)
	}
	return out, nil
}

func normalizeWeights(weights []float64, n int) ([]float64, error) {
	w := make([]float64, n)
	if weights == nil {
		for i := range w {
			w[i] = 1 / float64(n)
		}
		return w, nil
	}
	if len(weights) != n {
		return nil, domain.NewValidationError("weights", "expected %d weights, got %d", n, len(weights))
	}

	total := 0.0
	for _, x := range weights {
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, domain.NewValidationError("weights", "must be finite and non-negative")
		}
		total += x
	}
	if total == 0 {
		return nil, domain.NewValidationError("weights", "must sum to a positive value")
	}
	for i, x := range weights {
		w[i] = x / total
	}
	return w, nil
}
