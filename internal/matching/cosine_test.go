// internal/matching/cosine_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-matching/internal/common/errors"
)

func TestCosineSimilarity_IdenticalVectors(t *testing.T) {
	v := []float64{0.3, -0.2, 0.9}

	sim, err := CosineSimilarity(v, v)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestCosineSimilarity_OrthogonalVectors(t *testing.T) {
	sim, err := CosineSimilarity([]float64{1, 0}, []float64{0, 1})

	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-9)
}

func TestCosineSimilarity_OppositeVectorsClampedToZero(t *testing.T) {
	sim, err := CosineSimilarity([]float64{1, 0}, []float64{-1, 0})

	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	sim, err := CosineSimilarity([]float64{0, 0, 0}, []float64{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3})

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeDimensionMismatch))
}
