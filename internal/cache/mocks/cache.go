// Package mocks holds a testify mock of cache.Cache.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type Cache struct {
	mock.Mock
}

// Get runs an optional fill function passed as the third return value so a
// test can simulate a hit by writing into value.
func (m *Cache) Get(ctx context.Context, key string, value any) (bool, error) {
	args := m.Called(ctx, key, value)

	if len(args) > 2 {
		if fill, ok := args.Get(2).(func(any)); ok && fill != nil {
			fill(value)
		}
	}

	return args.Bool(0), args.Error(1)
}

func (m *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *Cache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *Cache) Close() error {
	return m.Called().Error(0)
}
