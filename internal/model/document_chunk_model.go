package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type DocumentChunk struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	DocumentId     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Text           string            `gorm:"type:text"`
	ChunkIndex     int               `gorm:"default:0"` // 0-based insertion order within the document
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	EmbeddingValue pgvector.Vector   `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	EmbeddingModel string            `gorm:"type:varchar(128)"`
	CreatedAt      time.Time         `gorm:"autoCreateTime"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
