package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces cache keys in Redis.
const DefaultKeyPrefix = "pragati:embedding:"

// MemoryCache keeps vectors for the life of the process.
type MemoryCache struct {
	mu   sync.RWMutex
	vecs map[string][]float64
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{vecs: make(map[string][]float64)}
}

// Get returns the vector stored under key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]float64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vecs[key]
	return v, ok, nil
}

// Put stores vec under key.
func (c *MemoryCache) Put(_ context.Context, key string, vec []float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vecs[key] = vec
	return nil
}

// Len returns the number of cached vectors.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vecs)
}

// RedisCache shares vectors between service instances.
type RedisCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithKeyPrefix sets the key prefix.
func WithKeyPrefix(p string) RedisOption {
	return func(c *RedisCache) {
		if p != "" {
			c.prefix = p
		}
	}
}

// WithTTL expires entries after d. Zero keeps them forever.
func WithTTL(d time.Duration) RedisOption {
	return func(c *RedisCache) { c.ttl = d }
}

// NewRedisCache creates a cache over client.
func NewRedisCache(client redis.Cmdable, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the vector stored under key.
func (c *RedisCache) Get(ctx context.Context, key string) ([]float64, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var vec []float64
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, false, fmt.Errorf("decode vector %s: %w", key, err)
	}
	return vec, true, nil
}

// Put stores vec under key.
func (c *RedisCache) Put(ctx context.Context, key string, vec []float64) error {
	raw, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("encode vector %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
