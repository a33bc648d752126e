package model

import "time"

// IndexMeta is a single-row table recording the last successful index build.
// Its presence distinguishes an index that was built empty (image-only PDF)
// from one that was never built, and its EmbeddingModel is checked against
// the configured provider at startup.
type IndexMeta struct {
	Id             int       `gorm:"primaryKey"`
	EmbeddingModel string    `gorm:"type:varchar(128)"`
	BuiltAt        time.Time
}

func (IndexMeta) TableName() string {
	return "index_meta"
}
