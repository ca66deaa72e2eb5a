package marketdata

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "finchat:"

// Cache is a read-through Redis cache over a Client. AlphaVantage's free
// tier allows only a handful of calls per minute, so successful lookups
// are kept briefly. No-data results and errors are never cached; cache
// failures fall through to the inner client.
type Cache struct {
	inner Client
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCache(inner Client, redisURL string, ttl time.Duration) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &Cache{inner: inner, rdb: rdb, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

func (c *Cache) Name() string {
	return c.inner.Name()
}

func (c *Cache) Quote(ctx context.Context, symbol string) (*Quote, error) {
	key := keyPrefix + "quote:" + symbol
	var cached Quote
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	q, err := c.inner.Quote(ctx, symbol)
	if err == nil && q != nil {
		c.store(ctx, key, q)
	}
	return q, err
}

func (c *Cache) Overview(ctx context.Context, symbol string) (*Overview, error) {
	key := keyPrefix + "overview:" + symbol
	var cached Overview
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	o, err := c.inner.Overview(ctx, symbol)
	if err == nil && o != nil {
		c.store(ctx, key, o)
	}
	return o, err
}

func (c *Cache) TickerNews(ctx context.Context, symbol string, limit int) ([]NewsItem, error) {
	key := keyPrefix + "news:" + symbol
	var cached []NewsItem
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	items, err := c.inner.TickerNews(ctx, symbol, limit)
	if err == nil && len(items) > 0 {
		c.store(ctx, key, items)
	}
	return items, err
}

func (c *Cache) MarketNews(ctx context.Context, limit int) ([]NewsItem, error) {
	key := keyPrefix + "news:market"
	var cached []NewsItem
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	items, err := c.inner.MarketNews(ctx, limit)
	if err == nil && len(items) > 0 {
		c.store(ctx, key, items)
	}
	return items, err
}

func (c *Cache) lookup(ctx context.Context, key string, out interface{}) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("cache entry corrupt, ignoring", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}
