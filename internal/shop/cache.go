package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 15 * time.Minute

// Cache is a Redis-backed TTL cache for catalog search results. Optional:
// a nil Cache disables caching and every request goes upstream.
type Cache struct {
	rdb *redis.Client
}

// NewCache creates a Cache from a Redis URL.
func NewCache(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &Cache{rdb: redis.NewClient(opts)}, nil
}

func cacheKey(query string) string {
	return "shop:search:" + query
}

// Get returns the cached products for a query, or ok=false on miss or error.
func (c *Cache) Get(ctx context.Context, query string) ([]Product, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(query)).Bytes()
	if err != nil {
		return nil, false
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false
	}
	return products, true
}

// Set stores the products for a query. Errors are ignored: the cache is an
// optimization, not a dependency.
func (c *Cache) Set(ctx context.Context, query string, products []Product) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, cacheKey(query), raw, cacheTTL)
}

// Close closes the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
