package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Data      []string `json:"data"`
	Timestamp int64    `json:"timestamp"`
}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := NewRedis(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCacheJSONRoundTrip(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	var got entry
	found, err := GetJSON(ctx, c, "portfolio:projects:v1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := entry{Data: []string{"a", "b"}, Timestamp: 1700000000000}
	require.NoError(t, SetJSON(ctx, c, "portfolio:projects:v1", want, 0))

	found, err = GetJSON(ctx, c, "portfolio:projects:v1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, c.Delete(ctx, "portfolio:projects:v1"))
	found, err = GetJSON(ctx, c, "portfolio:projects:v1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheTTL(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	mr.FastForward(2 * time.Hour)

	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisFromURL(t *testing.T) {
	_, mr := newRedisCache(t)
	c, err := NewRedisFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer c.Close()
	assert.NoError(t, c.Ping(context.Background()))

	_, err = NewRedisFromURL("not a url")
	assert.Error(t, err)
}

func TestNoopCache(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetJSONDropsCorruptEntry(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("portfolio:projects:all:v1", "{not json"))

	var got entry
	found, err := GetJSON(ctx, c, "portfolio:projects:all:v1", &got)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.False(t, found)
	assert.False(t, mr.Exists("portfolio:projects:all:v1"))
}

func TestGetJSONReportsBackendErrors(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.SetError("LOADING")

	var got entry
	found, err := GetJSON(context.Background(), c, "k", &got)
	assert.Error(t, err)
	assert.False(t, found)
}
