package mapper

import (
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"pdf-qa-be/internal/entity"
	"pdf-qa-be/internal/model"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToModel(chunk *entity.Chunk, vector []float32, embeddingModel string) *model.DocumentChunk {
	metadata := datatypes.JSONMap{}
	for k, v := range chunk.Metadata {
		metadata[k] = v
	}
	return &model.DocumentChunk{
		Id:             chunk.Id,
		DocumentId:     chunk.DocumentId,
		Text:           chunk.Text,
		ChunkIndex:     chunk.ChunkIndex,
		Metadata:       metadata,
		EmbeddingValue: pgvector.NewVector(vector),
		EmbeddingModel: embeddingModel,
		CreatedAt:      chunk.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToEntity(chunk *model.DocumentChunk) *entity.Chunk {
	metadata := make(map[string]string, len(chunk.Metadata))
	for k, v := range chunk.Metadata {
		metadata[k] = fmt.Sprintf("%v", v)
	}
	return &entity.Chunk{
		Id:         chunk.Id,
		DocumentId: chunk.DocumentId,
		Text:       chunk.Text,
		ChunkIndex: chunk.ChunkIndex,
		Metadata:   metadata,
		CreatedAt:  chunk.CreatedAt,
	}
}
