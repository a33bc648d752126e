package contract

import (
	"context"
	"errors"

	"pdf-qa-be/internal/entity"
)

// ErrIndexNotReady is returned by Search before any successful Replace.
var ErrIndexNotReady = errors.New("no document indexed")

// ErrModelMismatch is returned when a persisted index was built with a
// different embedding model than the one currently configured. Mixing models
// produces meaningless distances, so the index must be rejected.
var ErrModelMismatch = errors.New("index embedding model mismatch")

// VectorIndexRepository stores (vector, chunk) pairs for one document at a
// time and answers nearest-neighbour queries by cosine distance.
type VectorIndexRepository interface {
	// Replace swaps the entire index content in one atomic operation.
	// In-flight searches see either the fully-old or fully-new index.
	// model records the embedding model that produced the vectors.
	Replace(ctx context.Context, model string, chunks []*entity.Chunk, vectors [][]float32) error

	// Search returns up to k chunks ordered by ascending cosine distance,
	// ties broken by insertion order. If fewer than k chunks are indexed,
	// all of them are returned. Returns ErrIndexNotReady before the first
	// successful Replace.
	Search(ctx context.Context, vector []float32, k int) ([]*entity.ScoredChunk, error)

	// Count reports the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Model reports the embedding model the current index was built with,
	// or "" when no index has been built.
	Model(ctx context.Context) (string, error)
}

// SnapshotRepository is implemented by index backends that persist to a local
// snapshot file (the in-memory backend). Durable backends (pgvector) do not
// need it.
type SnapshotRepository interface {
	// Save writes the current index to path. Saving an empty index is valid.
	Save(path string) error

	// Load replaces the index with the snapshot at path. The snapshot's
	// recorded embedding model must equal expectedModel; otherwise the load
	// fails with ErrModelMismatch and the current index is left untouched.
	Load(path string, expectedModel string) error
}
