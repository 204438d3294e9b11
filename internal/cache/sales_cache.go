package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"salesapi/internal/domain"
)

const (
	DefaultTTL = 30 * time.Second
	DefaultKey = "salesapi:sales:all"
)

// RedisSalesCache stores the whole sales listing as one JSON value under a
// key suffixed with the current generation. Every commit advances the
// generation, so a fill computed before a commit is written under a key no
// reader asks for again.
type RedisSalesCache struct {
	client *redis.Client
	ttl    time.Duration
	key    string
	logger *zap.Logger
}

type Option func(*RedisSalesCache)

func WithTTL(ttl time.Duration) Option {
	return func(c *RedisSalesCache) { c.ttl = ttl }
}

func WithKey(key string) Option {
	return func(c *RedisSalesCache) { c.key = key }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *RedisSalesCache) { c.logger = l }
}

func NewRedisSalesCache(client *redis.Client, opts ...Option) *RedisSalesCache {
	c := &RedisSalesCache{client: client, ttl: DefaultTTL, key: DefaultKey, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisSalesCache) genKey() string { return c.key + ":gen" }

func (c *RedisSalesCache) dataKey(gen int64) string { return fmt.Sprintf("%s:%d", c.key, gen) }

// Generation returns the current listing generation. A missing counter is generation 0.
func (c *RedisSalesCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get reports a miss on any Redis or decode error; the caller falls back to the database.
func (c *RedisSalesCache) Get(ctx context.Context, gen int64) (map[int64]domain.SaleWithItems, bool) {
	raw, err := c.client.Get(ctx, c.dataKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("sales cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var out map[int64]domain.SaleWithItems
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Warn("sales cache decode failed", zap.Error(err))
		return nil, false
	}
	return out, true
}

// Set stores sales as the listing of generation gen.
func (c *RedisSalesCache) Set(ctx context.Context, gen int64, sales map[int64]domain.SaleWithItems) error {
	raw, err := json.Marshal(sales)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.dataKey(gen), raw, c.ttl).Err()
}

// Invalidate advances the generation and drops the listing it replaces.
func (c *RedisSalesCache) Invalidate(ctx context.Context) error {
	gen, err := c.client.Incr(ctx, c.genKey()).Result()
	if err != nil {
		return err
	}
	return c.client.Del(ctx, c.dataKey(gen-1)).Err()
}
