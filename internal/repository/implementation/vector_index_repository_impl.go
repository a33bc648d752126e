package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"pdf-qa-be/internal/entity"
	"pdf-qa-be/internal/mapper"
	"pdf-qa-be/internal/model"
	"pdf-qa-be/internal/repository/contract"
)

// VectorIndexRepositoryImpl is the pgvector-backed index. Replacement runs in
// one transaction, so concurrent readers see either the old or the new
// document, and durability comes from Postgres instead of snapshot files.
type VectorIndexRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewVectorIndexRepository(db *gorm.DB) contract.VectorIndexRepository {
	return &VectorIndexRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *VectorIndexRepositoryImpl) Replace(ctx context.Context, embeddingModel string, chunks []*entity.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}

	models := make([]*model.DocumentChunk, len(chunks))
	for i, chunk := range chunks {
		models[i] = r.mapper.ToModel(chunk, vectors[i], embeddingModel)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&model.DocumentChunk{}).Error; err != nil {
			return fmt.Errorf("clear index: %w", err)
		}
		// The marker row records that a build happened even when the
		// document produced zero chunks.
		meta := &model.IndexMeta{Id: 1, EmbeddingModel: embeddingModel, BuiltAt: time.Now()}
		if err := tx.Save(meta).Error; err != nil {
			return fmt.Errorf("record index build: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(models, 100).Error; err != nil {
			return fmt.Errorf("insert chunks: %w", err)
		}
		return nil
	})
}

func (r *VectorIndexRepositoryImpl) Search(ctx context.Context, vector []float32, k int) ([]*entity.ScoredChunk, error) {
	if k <= 0 {
		k = 3
	}

	// Ready means a build happened; a build with zero chunks (image-only
	// PDF) is ready and simply returns no results.
	indexModel, err := r.Model(ctx)
	if err != nil {
		return nil, err
	}
	if indexModel == "" {
		return nil, contract.ErrIndexNotReady
	}

	// pgvector cosine distance: embedding_value <=> query. Ties resolve by
	// chunk_index, the insertion order within the document.
	type result struct {
		model.DocumentChunk
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)
	err = r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, embedding_value <=> ? AS distance", queryVector).
		Order("distance ASC, chunk_index ASC").
		Limit(k).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredChunk, len(results))
	for i, res := range results {
		scored[i] = &entity.ScoredChunk{
			Chunk:    *r.mapper.ToEntity(&res.DocumentChunk),
			Distance: res.Distance,
		}
	}
	return scored, nil
}

func (r *VectorIndexRepositoryImpl) Count(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentChunk{}).Count(&count).Error
	return int(count), err
}

func (r *VectorIndexRepositoryImpl) Model(ctx context.Context) (string, error) {
	var meta model.IndexMeta
	err := r.db.WithContext(ctx).First(&meta, 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return meta.EmbeddingModel, nil
}
