package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity_IdenticalVectors(t *testing.T) {
	v := []float32{0.5, 0.5, 0.5}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_OrthogonalVectors(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_OppositeVectors(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_ZeroNorm(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}
	assert.Equal(t, 0.0, CosineSimilarity(a, b))
	assert.Equal(t, 0.0, CosineSimilarity(b, a))
}

func TestCosineSimilarity_MismatchedLengths(t *testing.T) {
	a := []float32{1, 2}
	b := []float32{1, 2, 3}
	assert.Equal(t, 0.0, CosineSimilarity(a, b))
}

func TestCosineSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{}, []float32{}))
}

func TestCosineSimilarity_ScaleInvariant(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{2, 4, 6}
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-6)
}
