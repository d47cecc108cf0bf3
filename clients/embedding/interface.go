package embedding

import "context"

// API turns a string into a fixed-length vector representing its meaning.
// Vectors for equal inputs are stable across calls so precomputed command
// embeddings stay comparable with fresh transcript embeddings.
type API interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Close() error
}
