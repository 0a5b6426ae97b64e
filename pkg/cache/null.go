package cache

import (
	"context"
	"time"
)

// NullCache disables caching: every lookup misses and writes are dropped. It
// backs --no-cache, the "none" backend, and the fallback when the cache
// directory cannot be created.
type NullCache struct{}

func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
