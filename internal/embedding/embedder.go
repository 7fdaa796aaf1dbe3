package embedding

import "context"

// Embedder converts free text into a numeric vector representation.
// Remote implementations may learn their dimension on first use.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}
