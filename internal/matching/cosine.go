// internal/matching/cosine.go
package matching

import (
	"math"

	"rfp-matching/internal/common/errors"
)

// CosineSimilarity computes dot(a, b) / (|a| * |b|), clamped to [0, 1] to
// absorb floating-point drift. Mismatched lengths are a data-integrity
// error. A zero vector on either side yields 0.0.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.NewDimensionMismatchError(len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0.0, nil
	}
	if sim > 1 {
		return 1.0, nil
	}
	return sim, nil
}
