// Package cache holds the last good snapshot of each mirror so a restart or an
// outage can serve content without the store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCorrupt is returned by GetJSON for an entry that no longer decodes. The
// entry has already been removed.
var ErrCorrupt = errors.New("cache entry is corrupt")

// Cache stores opaque blobs. A zero ttl keeps the entry until it is deleted.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NoopCache never finds anything. It is used when Redis is not configured.
type NoopCache struct{}

func NewNoop() *NoopCache { return &NoopCache{} }

func (*NoopCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NoopCache) Delete(context.Context, string) error                     { return nil }

// GetJSON decodes key into dest and reports whether it was there.
func GetJSON(ctx context.Context, c Cache, key string, dest any) (bool, error) {
	raw, found, err := c.Get(ctx, key)
	switch {
	case err != nil:
		return false, fmt.Errorf("cache get %s: %w", key, err)
	case !found:
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		if delErr := c.Delete(ctx, key); delErr != nil {
			return false, errors.Join(ErrCorrupt, delErr)
		}
		return false, ErrCorrupt
	}
	return true, nil
}

func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.Set(ctx, key, raw, ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
