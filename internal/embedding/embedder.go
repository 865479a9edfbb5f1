package embedding

import "context"

// Embedder converts free text into a numeric vector representation.
// Row i of the Embed result belongs to texts[i].
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
