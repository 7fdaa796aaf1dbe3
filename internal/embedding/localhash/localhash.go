package localhash

import (
	"context"
	"math"
)

// DefaultDimension matches the dimension the sample corpus is indexed with.
const DefaultDimension = 50

// Embedder produces a deterministic fixed-length vector from a rolling
// hash of the input text. It carries no semantic signal; its contract is
// determinism and fixed dimensionality, so it can stand in when the
// remote embedding service is disabled or failing.
type Embedder struct {
	dimension int
}

func NewEmbedder(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Embedder{dimension: dimension}
}

func (e *Embedder) Name() string { return "localhash" }

func (e *Embedder) Dimension() int { return e.dimension }

func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	var hash int64
	for _, r := range text {
		hash = int64(r) + hash*31 - hash
	}
	vec := make([]float64, e.dimension)
	for i := range vec {
		vec[i] = math.Sin(float64(hash)+float64(i)) * 0.1
	}
	return vec, nil
}
