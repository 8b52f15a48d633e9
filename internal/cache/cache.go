// Package cache keeps the published listing set close to deal search so a
// search does not reload every listing from the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dealscout/internal/dealcalc"
)

// PublishedListingsKey holds the JSON-encoded published listings.
const PublishedListingsKey = "dealscout:listings:published"

// ListingCache stores the full published listing set as one value.
// A miss reports ok=false with a nil error.
type ListingCache interface {
	GetPublished(ctx context.Context) (props []dealcalc.Property, ok bool, err error)
	SetPublished(ctx context.Context, props []dealcalc.Property) error
	Invalidate(ctx context.Context) error
}

// RedisConfig configures the redis connection.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache is a ListingCache backed by redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a redis-backed cache. It does not dial; call Ping to
// verify connectivity.
func NewRedis(cfg RedisConfig) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	return &RedisCache{client: rdb, ttl: cfg.TTL}
}

// Ping tests the redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetPublished implements ListingCache.
func (c *RedisCache) GetPublished(ctx context.Context) ([]dealcalc.Property, bool, error) {
	raw, err := c.client.Get(ctx, PublishedListingsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var props []dealcalc.Property
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, false, fmt.Errorf("decode cached listings: %w", err)
	}
	return props, true, nil
}

// SetPublished implements ListingCache.
func (c *RedisCache) SetPublished(ctx context.Context, props []dealcalc.Property) error {
	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("encode listings: %w", err)
	}
	if err := c.client.Set(ctx, PublishedListingsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate implements ListingCache.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, PublishedListingsKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Noop never holds anything. It is used when no redis address is configured.
type Noop struct{}

// GetPublished always misses.
func (Noop) GetPublished(context.Context) ([]dealcalc.Property, bool, error) { return nil, false, nil }

// SetPublished discards props.
func (Noop) SetPublished(context.Context, []dealcalc.Property) error { return nil }

// Invalidate does nothing.
func (Noop) Invalidate(context.Context) error { return nil }

var (
	_ ListingCache = (*RedisCache)(nil)
	_ ListingCache = Noop{}
)
