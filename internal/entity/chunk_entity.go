package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chunk is a bounded-length segment of extracted document text, the unit of
// retrieval. Chunks are immutable once created.
type Chunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	Text       string
	ChunkIndex int
	Metadata   map[string]string
	CreatedAt  time.Time
}

// ScoredChunk pairs a chunk with its cosine distance to a query vector.
// Lower distance means more similar.
type ScoredChunk struct {
	Chunk    Chunk
	Distance float64
}
