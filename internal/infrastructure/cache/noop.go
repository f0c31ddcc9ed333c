package cache

import (
	"context"
	"time"

	"bookstore-catalog/pkg/cache"
)

// NoopCache luôn MISS, dùng khi STORE_DRIVER=memory hoặc Redis bị tắt
type NoopCache struct{}

func NewNoopCache() cache.Cache { return NoopCache{} }

func (NoopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (NoopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (NoopCache) Delete(context.Context, ...string) error { return nil }

func (NoopCache) DeletePattern(context.Context, string) error { return nil }

func (NoopCache) Ping(context.Context) error { return nil }
