// internal/embedding/cache.go
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rfp-matching/internal/common/logger"
	"rfp-matching/internal/common/metrics"
)

// CachedProvider is a read-through Redis cache in front of a Provider.
// Cache failures degrade to the underlying provider, never to an error.
type CachedProvider struct {
	next  Provider
	redis *redis.Client
	model string
	ttl   time.Duration
	log   logger.Logger
}

// NewCachedProvider wraps a provider with a Redis cache.
func NewCachedProvider(next Provider, rdb *redis.Client, model string, ttl time.Duration, log logger.Logger) *CachedProvider {
	return &CachedProvider{
		next:  next,
		redis: rdb,
		model: model,
		ttl:   ttl,
		log:   log,
	}
}

func (p *CachedProvider) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embedding:%s:%s", p.model, hex.EncodeToString(sum[:]))
}

// Embed returns a cached vector when available, otherwise delegates and
// stores the result.
func (p *CachedProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	key := p.cacheKey(text)

	if cached, err := p.redis.Get(ctx, key).Result(); err == nil {
		var vector []float64
		if err := json.Unmarshal([]byte(cached), &vector); err == nil {
			metrics.EmbeddingCacheHits.Inc()
			return vector, nil
		}
		p.log.Warn("corrupt embedding cache entry, regenerating", map[string]interface{}{
			"key": key,
		})
	}

	vector, err := p.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vector); err == nil {
		if err := p.redis.Set(ctx, key, data, p.ttl).Err(); err != nil {
			p.log.Warn("failed to cache embedding", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return vector, nil
}
