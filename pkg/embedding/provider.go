package embedding

import "context"

// EmbeddingProvider defines the interface for generating text embeddings.
// Vectors returned by one provider/model pair live in one embedding space;
// an index built with one model must only be queried with the same model.
type EmbeddingProvider interface {
	// Model identifies the embedding model, e.g. "nomic-embed-text". It is
	// recorded alongside persisted indexes to detect mismatches.
	Model() string

	// Generate embeds a single text.
	Generate(ctx context.Context, text string) ([]float32, error)

	// GenerateBatch embeds several texts in one round trip where the
	// backend supports it.
	GenerateBatch(ctx context.Context, texts []string) ([][]float32, error)
}
