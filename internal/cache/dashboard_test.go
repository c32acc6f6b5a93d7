package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) *DashboardCache {
	t.Helper()

	mr := miniredis.RunT(t)

	c, err := New(mr.Addr(), "", ttl)
	require.NoError(t, err)
	require.NotNil(t, c)

	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)

	c.Set(ctx, 1, []byte(`{"total_applications":3}`))

	data, ok := c.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, `{"total_applications":3}`, string(data))

	// Per-user keys do not leak across users.
	_, ok = c.Get(ctx, 2)
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, 1, []byte(`{}`))
	c.Invalidate(ctx, 1)

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := New(mr.Addr(), "", 30*time.Second)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, 1, []byte(`{}`))

	mr.FastForward(time.Minute)

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
}

func TestDisabledCacheIsNilSafe(t *testing.T) {
	c, err := New("", "", time.Minute)
	require.NoError(t, err)
	require.Nil(t, c)

	ctx := context.Background()

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)

	c.Set(ctx, 1, []byte(`{}`))
	c.Invalidate(ctx, 1)
	assert.NoError(t, c.Close())
}
