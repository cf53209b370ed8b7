package content

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"portfolio-backend/internal/cache"
	"portfolio-backend/internal/feed"
)

const (
	fetchTimeout = 8 * time.Second
	cacheTimeout = 2 * time.Second
)

type cacheEntry[T any] struct {
	Data      []T   `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

func (e cacheEntry[T]) at() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Mirror keeps an in-memory copy of one query result, backed by a cache entry
// for first paint and for outages.
type Mirror[T any] struct {
	topic    string
	query    Query
	store    Store[T]
	cache    cache.Cache
	cacheKey string
	fresh    time.Duration
	retain   time.Duration
	feed     feed.Feed
	log      *slog.Logger
	now      func() time.Time
	dispatch func(transition)

	mu          sync.RWMutex
	items       []T
	unsubscribe func()

	// Queries run concurrently but results are applied in the order the
	// queries started; a result older than the last applied one is dropped.
	applyMu sync.Mutex
	started atomic.Uint64
	applied uint64
}

// Start serves a fresh cache entry without touching the store, otherwise runs
// the query, then follows the change feed until ctx ends or Close is called.
func (m *Mirror[T]) Start(ctx context.Context) error {
	if entry, ok := m.readCache(ctx); ok && m.now().Sub(entry.at()) < m.fresh {
		m.set(entry.Data)
		m.dispatch(snapshotApplied(entry.at(), true))
		m.log.Info("mirror start: served from cache", slog.String("key", m.cacheKey), slog.Int("count", len(entry.Data)))
	} else {
		_ = m.Sync(ctx)
	}

	unsubscribe, err := m.feed.Subscribe(ctx, m.topic, func() {
		_ = m.Sync(ctx)
	})
	if err != nil {
		m.log.Warn("mirror start: subscribe failed", slog.String("topic", m.topic), slog.String("error", err.Error()))
		return err
	}

	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()
	return nil
}

// Sync runs the query once. On failure the mirror falls back to any cache
// entry, stale or not, and otherwise becomes empty.
func (m *Mirror[T]) Sync(ctx context.Context) error {
	m.dispatch(fetchStarted())
	gen := m.started.Add(1)

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	items, err := m.store.Find(fetchCtx, m.query)
	cancel()

	m.applyMu.Lock()
	defer m.applyMu.Unlock()
	if gen < m.applied {
		m.log.Debug("mirror sync: dropped superseded result", slog.String("key", m.cacheKey))
		if err != nil {
			return Classify(err)
		}
		return nil
	}
	m.applied = gen

	if err != nil {
		appErr := Classify(err)
		entry, cached := m.readCache(ctx)
		if cached {
			m.set(entry.Data)
		} else {
			m.set(nil)
		}
		m.dispatch(fetchFailed(appErr.Message, cached))
		m.log.Warn("mirror sync: query failed",
			slog.String("key", m.cacheKey),
			slog.Bool("using_cache", cached),
			slog.String("error", err.Error()),
		)
		return appErr
	}

	now := m.now()
	m.set(items)
	m.writeCache(ctx, items, now)
	m.dispatch(snapshotApplied(now, false))
	return nil
}

// Refresh drops the cache entry and re-reads the store.
func (m *Mirror[T]) Refresh(ctx context.Context) error {
	cacheCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
	if err := m.cache.Delete(cacheCtx, m.cacheKey); err != nil {
		m.log.Warn("mirror refresh: cache delete failed", slog.String("key", m.cacheKey), slog.String("error", err.Error()))
	}
	cancel()
	return m.Sync(ctx)
}

func (m *Mirror[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// First is the singleton view: the newest document, if any.
func (m *Mirror[T]) First() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[0], true
}

func (m *Mirror[T]) Close() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (m *Mirror[T]) set(items []T) {
	if items == nil {
		items = []T{}
	}
	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
}

func (m *Mirror[T]) readCache(ctx context.Context) (cacheEntry[T], bool) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
	defer cancel()

	var entry cacheEntry[T]
	found, err := cache.GetJSON(ctx, m.cache, m.cacheKey, &entry)
	if errors.Is(err, cache.ErrCorrupt) {
		m.log.Warn("mirror cache: discarded corrupt entry", slog.String("key", m.cacheKey))
		return entry, false
	}
	if err != nil {
		m.log.Warn("mirror cache: read failed", slog.String("key", m.cacheKey), slog.String("error", err.Error()))
		return entry, false
	}
	return entry, found
}

func (m *Mirror[T]) writeCache(ctx context.Context, items []T, at time.Time) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
	defer cancel()

	entry := cacheEntry[T]{Data: items, Timestamp: at.UnixMilli()}
	if err := cache.SetJSON(ctx, m.cache, m.cacheKey, entry, m.retain); err != nil {
		m.log.Warn("mirror cache: write failed", slog.String("key", m.cacheKey), slog.String("error", err.Error()))
	}
}
