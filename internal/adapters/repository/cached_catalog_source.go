package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
)

var _ domain.CatalogSource = (*CachedCatalogSource)(nil)

const catalogCacheKey = "catalog:products"

// CachedCatalogSource is a Redis read-through cache in front of the catalog
// feed. Cache failures are logged and fall through to the feed.
type CachedCatalogSource struct {
	next   domain.CatalogSource
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedCatalogSource(next domain.CatalogSource, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedCatalogSource {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedCatalogSource{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedCatalogSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	val, err := r.cache.Get(ctx, catalogCacheKey).Result()
	if err == nil {
		var products []domain.Product
		if err := json.Unmarshal([]byte(val), &products); err == nil {
			return products, nil
		}

		r.logger.WarnContext(ctx, "corrupted catalog cache entry, cleaning up key")
		r.cache.Del(ctx, catalogCacheKey)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
	}

	products, err := r.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		if setErr := r.cache.Set(ctx, catalogCacheKey, data, r.ttl).Err(); setErr != nil {
			r.logger.WarnContext(ctx, "catalog cache write failed", "error", setErr)
		}
	}

	return products, nil
}

// Invalidate drops the cached catalog so the next Fetch reads the feed.
func (r *CachedCatalogSource) Invalidate(ctx context.Context) error {
	return r.cache.Del(ctx, catalogCacheKey).Err()
}
