package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// EmbeddingCache memoizes query-text embeddings so repeating a question does
// not pay for another embedding round trip. Only the embedding call is
// cached; answers are always regenerated.
type EmbeddingCache struct {
	cache *cache.Cache
}

func NewEmbeddingCache() *EmbeddingCache {
	// Default expiration of 1 hour, expired entries purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &EmbeddingCache{
		cache: c,
	}
}

func (r *EmbeddingCache) Get(text string) ([]float32, bool) {
	if x, found := r.cache.Get(text); found {
		return x.([]float32), true
	}
	return nil, false
}

func (r *EmbeddingCache) Set(text string, vector []float32) {
	r.cache.Set(text, vector, cache.DefaultExpiration)
}
