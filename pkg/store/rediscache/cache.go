package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable means the cache store could not be reached. Callers are
// expected to fail open: log, degrade, and keep serving.
var ErrUnavailable = errors.New("result cache unavailable")

const pingTimeout = 2 * time.Second

// Cache is a Redis-backed result cache with TTL semantics. The connection is
// established lazily and health-checked on first use so a down store only
// costs one fast ping per call, never a hang.
type Cache struct {
	opts *redis.Options

	mu  sync.Mutex
	rdb *redis.Client
}

// New parses a redis:// URL. The store is not contacted yet.
func New(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return &Cache{opts: opts}, nil
}

func (c *Cache) client(ctx context.Context) (*redis.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rdb != nil {
		return c.rdb, nil
	}

	rdb := redis.NewClient(c.opts)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.rdb = rdb
	return rdb, nil
}

// Get loads the value stored at key and decodes it into dst. found is false
// for a missing key. If the stored text does not decode into dst, the entry
// is still reported as found and raw carries the stored text unchanged.
func (c *Cache) Get(ctx context.Context, key string, dst any) (found bool, raw string, err error) {
	rdb, err := c.client(ctx)
	if err != nil {
		return false, "", err
	}

	stored, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := json.Unmarshal([]byte(stored), dst); err != nil {
		return true, stored, nil
	}
	return true, "", nil
}

// Set serializes value to JSON and stores it with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	rdb, err := c.client(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}
	if err := rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes a key and reports how many keys were removed (0 or 1).
func (c *Cache) Delete(ctx context.Context, key string) (int64, error) {
	rdb, err := c.client(ctx)
	if err != nil {
		return 0, err
	}

	n, err := rdb.Del(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

// TTL reports the remaining TTL in seconds, -1 for a key without TTL, or -2
// for a missing key.
func (c *Cache) TTL(ctx context.Context, key string) (int64, error) {
	rdb, err := c.client(ctx)
	if err != nil {
		return 0, err
	}

	// Raw command keeps the -1/-2 sentinel replies intact.
	secs, err := rdb.Do(ctx, "ttl", key).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return secs, nil
}

// Close releases the underlying connection if one was established.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rdb == nil {
		return nil
	}
	err := c.rdb.Close()
	c.rdb = nil
	return err
}
