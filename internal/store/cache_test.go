package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lampions/internal/domain"
	"lampions/internal/store"
)

// countingStore wraps Memory and counts reads of the route document.
type countingStore struct {
	*store.Memory
	routeReads int
}

func (c *countingStore) Routes(ctx context.Context) ([]domain.Route, error) {
	c.routeReads++
	return c.Memory.Routes(ctx)
}

func newCacheFixture(t *testing.T) (*store.Cache, *countingStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	inner := &countingStore{Memory: store.NewMemory()}
	cache := store.NewCache(inner, inner.Memory, client, time.Minute)
	return cache, inner, mr
}

func TestCache_Routes_ReadThrough(t *testing.T) {
	cache, inner, _ := newCacheFixture(t)
	ctx := context.Background()

	routes := []domain.Route{{ID: "id1", Alias: "shop", Forward: "me@mail.com", Active: true}}
	require.NoError(t, inner.PutRoutes(ctx, routes))

	for i := 0; i < 3; i++ {
		got, err := cache.Routes(ctx)
		require.NoError(t, err)
		assert.Equal(t, routes, got)
	}
	assert.Equal(t, 1, inner.routeReads, "subsequent reads should hit the cache")
}

func TestCache_PutRoutes_Invalidates(t *testing.T) {
	cache, inner, _ := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, cache.PutRoutes(ctx, []domain.Route{{ID: "id1", Alias: "shop"}}))
	_, err := cache.Routes(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, inner.routeReads)

	require.NoError(t, cache.PutRoutes(ctx, []domain.Route{{ID: "id2", Alias: "news"}}))
	got, err := cache.Routes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "news", got[0].Alias)
	assert.Equal(t, 2, inner.routeReads, "write should invalidate the cached copy")
}

func TestCache_Routes_ExpiredEntryRefetches(t *testing.T) {
	cache, inner, mr := newCacheFixture(t)
	ctx := context.Background()

	require.NoError(t, inner.PutRoutes(ctx, []domain.Route{{ID: "id1", Alias: "shop"}}))
	_, err := cache.Routes(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.Routes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.routeReads)
}

func TestCache_Recipients_ReadThrough(t *testing.T) {
	cache, _, _ := newCacheFixture(t)
	ctx := context.Background()

	rel := make(domain.RecipientRelations)
	rel.Set("shop", "abc", "corr@example.com")
	require.NoError(t, cache.PutRecipients(ctx, rel))

	got, err := cache.Recipients(ctx)
	require.NoError(t, err)
	replyTo, ok := got.Lookup("shop", "abc")
	require.True(t, ok)
	assert.Equal(t, "corr@example.com", replyTo)
}
