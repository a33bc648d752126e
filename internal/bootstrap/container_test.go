package bootstrap

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"pdf-qa-be/internal/entity"
	"pdf-qa-be/internal/repository/contract"
	"pdf-qa-be/internal/repository/memory"
)

func TestVerifyIndexModel(t *testing.T) {
	ctx := context.Background()

	builtWith := func(model string) contract.VectorIndexRepository {
		repo := memory.NewVectorIndexRepository()
		chunk := &entity.Chunk{Id: uuid.New(), DocumentId: uuid.New(), Text: "content"}
		if err := repo.Replace(ctx, model, []*entity.Chunk{chunk}, [][]float32{{1, 0}}); err != nil {
			t.Fatalf("seed index: %v", err)
		}
		return repo
	}

	t.Run("never built passes", func(t *testing.T) {
		assert.NoError(t, verifyIndexModel(ctx, memory.NewVectorIndexRepository(), "nomic-embed-text"))
	})

	t.Run("matching model passes", func(t *testing.T) {
		assert.NoError(t, verifyIndexModel(ctx, builtWith("nomic-embed-text"), "nomic-embed-text"))
	})

	t.Run("different model is rejected", func(t *testing.T) {
		err := verifyIndexModel(ctx, builtWith("some-other-model"), "nomic-embed-text")
		assert.ErrorIs(t, err, contract.ErrModelMismatch)
	})
}
