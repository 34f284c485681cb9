package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
)

type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	ProductKeyPrefix  = "product"
	CommentsKeyPrefix = "comments"
	CategoriesKey     = "categories:all"
)

// GetOrLoad reads key through the cache. Cache failures are logged and fall
// back to load; a load error is returned untouched.
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	logger := middleware.LoggerFromContext(ctx)

	var cached T

	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Cache read failed", slog.String("key", key), slog.Any("error", err))
	} else if found {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("Cache write failed", slog.String("key", key), slog.Any("error", err))
	}

	return value, nil
}

// Invalidate deletes keys, logging instead of failing.
func Invalidate(ctx context.Context, c Cache, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache invalidation failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}
