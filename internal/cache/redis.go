package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const pingTimeout = 5 * time.Second

// NewRedisClient connects to addr and pings it once before returning.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Store is the subset of redis.Cmdable used by Value.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Value keeps one JSON-encoded T under a single key. Failures are logged and
// reported as misses so callers fall back to the primary store.
type Value[T any] struct {
	store  Store
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

func NewValue[T any](store Store, key string, ttl time.Duration, logger *zap.Logger) *Value[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Value[T]{store: store, key: key, ttl: ttl, logger: logger}
}

func (v *Value[T]) Get(ctx context.Context) (T, bool) {
	var out T
	if v == nil || v.store == nil {
		return out, false
	}
	raw, err := v.store.Get(ctx, v.key).Bytes()
	if err == redis.Nil {
		return out, false
	}
	if err != nil {
		v.logger.Warn("cache read failed", zap.String("key", v.key), zap.Error(err))
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		v.logger.Warn("cache entry unreadable", zap.String("key", v.key), zap.Error(err))
		var zero T
		return zero, false
	}
	return out, true
}

func (v *Value[T]) Set(ctx context.Context, value T) {
	if v == nil || v.store == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		v.logger.Warn("cache encode failed", zap.String("key", v.key), zap.Error(err))
		return
	}
	if err := v.store.Set(ctx, v.key, raw, v.ttl).Err(); err != nil {
		v.logger.Warn("cache write failed", zap.String("key", v.key), zap.Error(err))
	}
}

func (v *Value[T]) Invalidate(ctx context.Context) {
	if v == nil || v.store == nil {
		return
	}
	if err := v.store.Del(ctx, v.key).Err(); err != nil {
		v.logger.Warn("cache invalidation failed", zap.String("key", v.key), zap.Error(err))
	}
}
