package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_BasicOperations(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	t.Run("SetAndGet", func(t *testing.T) {
		c.Set(ctx, "key1", "value1")

		val, ok := c.Get(ctx, "key1")
		assert.True(t, ok)
		assert.Equal(t, "value1", val)
	})

	t.Run("GetMissing", func(t *testing.T) {
		val, ok := c.Get(ctx, "nonexistent")
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("OverwriteExisting", func(t *testing.T) {
		c.Set(ctx, "key2", "original")
		c.Set(ctx, "key2", "updated")

		val, ok := c.Get(ctx, "key2")
		assert.True(t, ok)
		assert.Equal(t, "updated", val)
	})

	t.Run("Delete", func(t *testing.T) {
		c.Set(ctx, "key3", "value3")
		c.Delete(ctx, "key3")

		_, ok := c.Get(ctx, "key3")
		assert.False(t, ok)
	})
}

func TestCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: 40 * time.Millisecond})
	defer c.Close()

	c.Set(ctx, "expiring", "value")

	// Visible before the TTL elapses.
	val, ok := c.Get(ctx, "expiring")
	require.True(t, ok)
	assert.Equal(t, "value", val)

	time.Sleep(60 * time.Millisecond)

	// Expired entry behaves as a miss and is removed on first lookup.
	_, ok = c.Get(ctx, "expiring")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())

	// Idempotent thereafter.
	_, ok = c.Get(ctx, "expiring")
	assert.False(t, ok)
}

func TestCache_LazyExpiryOnly(t *testing.T) {
	ctx := context.Background()
	// No cleanup interval: expired entries linger until read.
	c := New(Config{DefaultTTL: 10 * time.Millisecond})
	defer c.Close()

	c.Set(ctx, "stale", "value")
	time.Sleep(20 * time.Millisecond)

	// Keys does not enforce expiry.
	assert.Contains(t, c.Keys(ctx), "stale")
	assert.Equal(t, 1, c.Size())

	// Only Get does.
	_, ok := c.Get(ctx, "stale")
	assert.False(t, ok)
	assert.Empty(t, c.Keys(ctx))
}

func TestCache_ClearByPrefix(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set(ctx, ListKey(NoteListPrefix, 1, 5, ""), "n1")
	c.Set(ctx, ListKey(NoteListPrefix, 2, 5, "flu"), "n2")
	c.Set(ctx, ListKey(PatientListPrefix, 1, 5, ""), "p1")

	c.ClearByPrefix(ctx, NoteListPrefix)

	// Every notes page is gone, the patient cache is untouched.
	_, ok := c.Get(ctx, ListKey(NoteListPrefix, 1, 5, ""))
	assert.False(t, ok)
	_, ok = c.Get(ctx, ListKey(NoteListPrefix, 2, 5, "flu"))
	assert.False(t, ok)

	val, ok := c.Get(ctx, ListKey(PatientListPrefix, 1, 5, ""))
	assert.True(t, ok)
	assert.Equal(t, "p1", val)
}

func TestCache_ClearByPrefixEmpty(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)

	c.ClearByPrefix(ctx, "")
	assert.Equal(t, 0, c.Size())
}

func TestCache_ClearByFilter(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute})
	defer c.Close()

	c.Set(ctx, "notes_page_1", 1)
	c.Set(ctx, "notes_page_2", 2)
	c.Set(ctx, "patients_page_1", 3)

	c.ClearByFilter(ctx, func(key string) bool {
		return strings.HasSuffix(key, "_1")
	})

	_, ok := c.Get(ctx, "notes_page_1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "patients_page_1")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "notes_page_2")
	assert.True(t, ok)
}

func TestCache_MaxItems(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, MaxItems: 2})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Set(ctx, "c", 3)

	assert.Equal(t, 2, c.Size())
	_, ok := c.Get(ctx, "c")
	assert.False(t, ok)

	// Overwriting an existing key is always allowed at capacity.
	c.Set(ctx, "a", 10)
	val, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, 10, val)
}

func TestCache_BackgroundSweep(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: 10 * time.Millisecond, CleanupInterval: 20 * time.Millisecond})
	defer c.Close()

	c.Set(ctx, "swept", "value")
	assert.Eventually(t, func() bool {
		return c.Size() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestCache_OnEviction(t *testing.T) {
	ctx := context.Background()
	var evicted []string
	c := New(Config{
		DefaultTTL: time.Minute,
		OnEviction: func(key string) { evicted = append(evicted, key) },
	})
	defer c.Close()

	c.Set(ctx, "x", 1)
	c.Set(ctx, "y", 2)
	c.ClearByPrefix(ctx, "x")

	assert.Equal(t, []string{"x"}, evicted)
}

func TestCache_OnEvictionReentrant(t *testing.T) {
	ctx := context.Background()
	var c *Cache
	var evicted []string
	c = New(Config{
		DefaultTTL: time.Minute,
		OnEviction: func(key string) {
			evicted = append(evicted, key)
			// The callback may use the cache itself.
			c.Set(ctx, "replacement_"+key, true)
			c.Size()
		},
	})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Delete(ctx, "a")
	c.ClearByPrefix(ctx, "b")

	assert.ElementsMatch(t, []string{"a", "b"}, evicted)
	_, ok := c.Get(ctx, "replacement_a")
	assert.True(t, ok)

	// Lazy expiry fires the callback too.
	c.SetWithTTL(ctx, "stale", 3, time.Millisecond)
	evicted = nil
	require.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "stale")
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, evicted, "stale")
}

func TestListKey(t *testing.T) {
	assert.Equal(t, "notes_page_2_limit_5_filter_flu", ListKey(NoteListPrefix, 2, 5, "flu"))
	assert.Equal(t, "patients_page_1_limit_5_filter_", ListKey(PatientListPrefix, 1, 5, ""))

	// Distinct filters never collide.
	assert.NotEqual(t,
		ListKey(NoteListPrefix, 1, 5, "a"),
		ListKey(NoteListPrefix, 1, 5, "b"))
}
