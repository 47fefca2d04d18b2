package tokencache_test

import (
	"testing"
	"time"

	"github.com/ploghq/plog/pkg/tokencache"
	"github.com/stretchr/testify/require"
)

func TestSaveGetRoundTrip(t *testing.T) {
	t.Parallel()

	c := tokencache.New(10, time.Minute)
	c.Save("a@plog.com", "t1")

	got, ok := c.Get("a@plog.com")
	require.True(t, ok)
	require.Equal(t, "t1", got)
}

func TestLastWriteWins(t *testing.T) {
	t.Parallel()

	c := tokencache.New(10, time.Minute)
	c.Save("a@plog.com", "t1")
	c.Save("a@plog.com", "t2")

	got, ok := c.Get("a@plog.com")
	require.True(t, ok)
	require.Equal(t, "t2", got)
	require.Equal(t, 1, c.Len())
}

func TestDeleteIdempotent(t *testing.T) {
	t.Parallel()

	c := tokencache.New(10, time.Minute)

	// Deleting an absent key must neither panic nor create an entry.
	c.Delete("x@y.com")
	_, ok := c.Get("x@y.com")
	require.False(t, ok)

	c.Save("x@y.com", "t1")
	c.Delete("x@y.com")
	c.Delete("x@y.com")
	_, ok = c.Get("x@y.com")
	require.False(t, ok)
}

func TestTTLEviction(t *testing.T) {
	t.Parallel()

	c := tokencache.New(10, 50*time.Millisecond)
	c.Save("a@plog.com", "t1")

	time.Sleep(120 * time.Millisecond)

	_, ok := c.Get("a@plog.com")
	require.False(t, ok)
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := tokencache.New(2, time.Minute)
	c.Save("a@plog.com", "ta")
	c.Save("b@plog.com", "tb")

	// Touch "a" so "b" becomes the least recently used entry.
	_, ok := c.Get("a@plog.com")
	require.True(t, ok)

	c.Save("c@plog.com", "tc")

	_, ok = c.Get("b@plog.com")
	require.False(t, ok)
	_, ok = c.Get("a@plog.com")
	require.True(t, ok)
	_, ok = c.Get("c@plog.com")
	require.True(t, ok)
}
