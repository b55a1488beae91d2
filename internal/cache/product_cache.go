// Package cache is a Redis read-through cache for catalog reads, the
// hottest path of the storefront. The cache is strictly best-effort: a
// nil client or a Redis failure degrades to database reads, never to an
// error surfaced to the buyer.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/storefront-api/internal/model"
)

const productKeyPrefix = "product:"

// DefaultTTL bounds staleness of cached products between invalidations.
const DefaultTTL = 5 * time.Minute

type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewProductCache wraps a Redis client. A nil client disables caching
// entirely, which is how tests and cache-less deployments run.
func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProductCache{rdb: rdb, ttl: ttl}
}

// Get returns a cached product or (nil, false) on any miss or failure.
func (c *ProductCache) Get(ctx context.Context, productID string) (*model.Product, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, productKeyPrefix+productID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[Cache] get product %s: %v", productID, err)
		}
		return nil, false
	}

	var p model.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Printf("[Cache] corrupt entry for product %s: %v", productID, err)
		return nil, false
	}
	return &p, true
}

// Set stores a product snapshot.
func (c *ProductCache) Set(ctx context.Context, p *model.Product) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productKeyPrefix+p.ID, raw, c.ttl).Err(); err != nil {
		log.Printf("[Cache] set product %s: %v", p.ID, err)
	}
}

// Invalidate drops a product after a catalog or stock mutation.
func (c *ProductCache) Invalidate(ctx context.Context, productID string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, productKeyPrefix+productID).Err(); err != nil {
		log.Printf("[Cache] invalidate product %s: %v", productID, err)
	}
}
