package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf-qa-be/internal/entity"
	"pdf-qa-be/internal/repository/contract"
)

// indexState is an immutable generation of the index. Replace swaps the
// whole pointer under the lock, so readers always observe a fully-old or
// fully-new index, never a half-built one.
type indexState struct {
	model   string
	chunks  []*entity.Chunk
	vectors [][]float32
}

// VectorIndexRepository is an in-memory vector index using brute-force
// cosine distance over unit-normalized vectors. It is the default backend;
// persistence is a JSON snapshot stamped with the embedding model identity.
type VectorIndexRepository struct {
	mu    sync.RWMutex
	state *indexState
}

func NewVectorIndexRepository() *VectorIndexRepository {
	return &VectorIndexRepository{}
}

var _ contract.VectorIndexRepository = &VectorIndexRepository{}
var _ contract.SnapshotRepository = &VectorIndexRepository{}

func (r *VectorIndexRepository) Replace(ctx context.Context, model string, chunks []*entity.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	for i := 1; i < len(vectors); i++ {
		if len(vectors[i]) != len(vectors[0]) {
			return errors.New("vector dimension mismatch")
		}
	}

	next := &indexState{
		model:   model,
		chunks:  append([]*entity.Chunk(nil), chunks...),
		vectors: append([][]float32(nil), vectors...),
	}

	r.mu.Lock()
	r.state = next
	r.mu.Unlock()
	return nil
}

func (r *VectorIndexRepository) Search(ctx context.Context, vector []float32, k int) ([]*entity.ScoredChunk, error) {
	r.mu.RLock()
	state := r.state
	r.mu.RUnlock()

	if state == nil {
		return nil, contract.ErrIndexNotReady
	}
	if k <= 0 {
		k = 3
	}
	if k > len(state.chunks) {
		k = len(state.chunks)
	}

	// Cosine distance over unit vectors: 1 - dot product.
	distances := make([]float64, len(state.vectors))
	for i := range state.vectors {
		distances[i] = 1 - dot(state.vectors[i], vector)
	}

	idxs := make([]int, len(distances))
	for i := range idxs {
		idxs[i] = i
	}
	// Stable sort keeps insertion order on equal distances.
	sort.SliceStable(idxs, func(a, b int) bool {
		return distances[idxs[a]] < distances[idxs[b]]
	})

	results := make([]*entity.ScoredChunk, 0, k)
	for i := 0; i < k; i++ {
		j := idxs[i]
		results = append(results, &entity.ScoredChunk{
			Chunk:    *state.chunks[j],
			Distance: distances[j],
		})
	}
	return results, nil
}

func (r *VectorIndexRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == nil {
		return 0, nil
	}
	return len(r.state.chunks), nil
}

func (r *VectorIndexRepository) Model(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == nil {
		return "", nil
	}
	return r.state.model, nil
}

// --- Snapshot persistence ---

type snapshotChunk struct {
	Id         string            `json:"id"`
	DocumentId string            `json:"document_id"`
	Text       string            `json:"text"`
	ChunkIndex int               `json:"chunk_index"`
	Metadata   map[string]string `json:"metadata"`
	CreatedAt  time.Time         `json:"created_at"`
}

type snapshotFile struct {
	EmbeddingModel string          `json:"embedding_model"`
	Chunks         []snapshotChunk `json:"chunks"`
	Vectors        [][]float32     `json:"vectors"`
	SavedAt        time.Time       `json:"saved_at"`
}

// Save writes the current index to path as JSON.
func (r *VectorIndexRepository) Save(path string) error {
	r.mu.RLock()
	state := r.state
	r.mu.RUnlock()

	if state == nil {
		return contract.ErrIndexNotReady
	}

	file := snapshotFile{
		EmbeddingModel: state.model,
		Chunks:         make([]snapshotChunk, len(state.chunks)),
		Vectors:        state.vectors,
		SavedAt:        time.Now(),
	}
	for i, c := range state.chunks {
		file.Chunks[i] = snapshotChunk{
			Id:         c.Id.String(),
			DocumentId: c.DocumentId.String(),
			Text:       c.Text,
			ChunkIndex: c.ChunkIndex,
			Metadata:   c.Metadata,
			CreatedAt:  c.CreatedAt,
		}
	}

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load replaces the index with the snapshot at path. A snapshot built by a
// different embedding model is rejected and the current index is untouched.
func (r *VectorIndexRepository) Load(path string, expectedModel string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}

	if file.EmbeddingModel != expectedModel {
		return fmt.Errorf("%w: snapshot built with %q, configured model is %q",
			contract.ErrModelMismatch, file.EmbeddingModel, expectedModel)
	}
	if len(file.Chunks) != len(file.Vectors) {
		return errors.New("corrupt snapshot: chunks and vectors length mismatch")
	}

	chunks := make([]*entity.Chunk, len(file.Chunks))
	for i, c := range file.Chunks {
		chunk, err := snapshotChunkToEntity(c)
		if err != nil {
			return fmt.Errorf("corrupt snapshot: %w", err)
		}
		chunks[i] = chunk
	}

	r.mu.Lock()
	r.state = &indexState{
		model:   file.EmbeddingModel,
		chunks:  chunks,
		vectors: file.Vectors,
	}
	r.mu.Unlock()
	return nil
}

func snapshotChunkToEntity(c snapshotChunk) (*entity.Chunk, error) {
	id, err := uuid.Parse(c.Id)
	if err != nil {
		return nil, fmt.Errorf("chunk id: %w", err)
	}
	documentId, err := uuid.Parse(c.DocumentId)
	if err != nil {
		return nil, fmt.Errorf("document id: %w", err)
	}
	return &entity.Chunk{
		Id:         id,
		DocumentId: documentId,
		Text:       c.Text,
		ChunkIndex: c.ChunkIndex,
		Metadata:   c.Metadata,
		CreatedAt:  c.CreatedAt,
	}, nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
