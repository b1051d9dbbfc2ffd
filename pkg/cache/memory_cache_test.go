package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*MemoryCache, *time.Time) {
	t.Helper()
	c := NewMemoryCache(nil, time.Hour)
	t.Cleanup(func() { _ = c.Close() })

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestMemoryCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte(`[{"name":"Alice"}]`)
	require.NoError(t, c.Set(ctx, "k", payload, 0))

	// Saklanan değer çağıranın slice'ından bağımsızdır.
	payload[0] = 'X'
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"name":"Alice"}]`, string(got))

	require.NoError(t, c.Set(ctx, "empty", nil, 0))
	got, ok, _ = c.Get(ctx, "empty")
	assert.True(t, ok)
	assert.Empty(t, got)

	require.NoError(t, c.Delete(ctx, "k", "empty", "never-set"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	c, now := newTestCache(t)

	require.NoError(t, c.Set(ctx, "short", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("2"), 0))

	*now = now.Add(30 * time.Second)
	_, ok, _ := c.Get(ctx, "short")
	assert.True(t, ok)

	*now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "short")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "forever")
	assert.True(t, ok)

	assert.Equal(t, 2, c.Size())
	assert.Equal(t, 1, c.removeExpired())
	assert.Equal(t, 1, c.Size())
}

func TestMemoryCache_Increment(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	n, err := c.Increment(ctx, "gen", 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, _ = c.Increment(ctx, "gen", 1)
	assert.Equal(t, int64(1), n)
	n, _ = c.Increment(ctx, "gen", 5)
	assert.Equal(t, int64(6), n)
	n, _ = c.Increment(ctx, "gen", -2)
	assert.Equal(t, int64(4), n)

	// Sayaç değeri Get ile okunmaz.
	_, ok, _ := c.Get(ctx, "gen")
	assert.False(t, ok)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Increment(ctx, "concurrent", 1)
		}()
	}
	wg.Wait()
	n, _ = c.Increment(ctx, "concurrent", 0)
	assert.Equal(t, int64(50), n)
}

func TestMemoryCache_FlushAndStats(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	_, _, _ = c.Get(ctx, "a")
	_, _, _ = c.Get(ctx, "b")

	stats := c.Stats()
	assert.Equal(t, "memory", stats["driver"])
	assert.Equal(t, 1, stats["valid_keys"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])

	require.NoError(t, c.Flush(ctx))
	assert.Zero(t, c.Size())
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	var calls atomic.Int32
	fn := func() ([]byte, error) {
		calls.Add(1)
		return []byte("rows"), nil
	}

	data, hit, err := Remember(ctx, c, "q", time.Minute, fn)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "rows", string(data))

	data, hit, err = Remember(ctx, c, "q", time.Minute, fn)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "rows", string(data))
	assert.Equal(t, int32(1), calls.Load())

	boom := errors.New("boom")
	_, _, err = Remember(ctx, c, "failing", time.Minute, func() ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	_, ok, _ := c.Get(ctx, "failing")
	assert.False(t, ok)
}

func TestQueryKey(t *testing.T) {
	a := QueryKey("primary", "people", `{"Table":"people"}`, 1)
	b := QueryKey("primary", "people", `{"Table":"people"}`, 2)
	c := QueryKey("primary", "people", `{"Table":"people"}`, 1)

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
	assert.Regexp(t, `^query:primary:people:[0-9a-f]{64}$`, a)
	assert.Equal(t, "gen:primary:people", GenerationKey("primary", "people"))
}
