package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgcache "recipebook-backend/pkg/cache"
)

type cachedThing struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(100)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "thing:1", cachedThing{ID: "1", Name: "Pasta"}, time.Minute))

	var got cachedThing
	found, err := c.Get(ctx, "thing:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Pasta", got.Name)

	found, err = c.Get(ctx, "thing:2", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCacheKeyMovesBetweenTTLs(t *testing.T) {
	c := NewMemoryCache(100)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "short", time.Minute))
	require.NoError(t, c.Set(ctx, "k", "long", time.Hour))

	var got string
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "long", got)
	assert.Equal(t, []string{"k"}, c.Keys())
}

func TestInvalidateDropsEveryFormat(t *testing.T) {
	c := NewMemoryCache(100)
	ctx := context.Background()
	id := uuid.New()
	other := uuid.New()

	for _, key := range pkgcache.EntityKeys(pkgcache.KindRecipe, id) {
		require.NoError(t, c.Set(ctx, key, "v", time.Minute))
	}
	require.NoError(t, c.Set(ctx, pkgcache.EntityKey(pkgcache.KindRecipe, other), "v", time.Minute))
	require.NoError(t, c.Set(ctx, pkgcache.CollectionKey(pkgcache.KindRecipe, 0), "v", time.Minute))

	require.NoError(t, pkgcache.Invalidate(ctx, c, pkgcache.KindRecipe, id))

	assert.ElementsMatch(t, []string{
		pkgcache.EntityKey(pkgcache.KindRecipe, other),
		pkgcache.CollectionKey(pkgcache.KindRecipe, 0),
	}, c.Keys())
}

func TestGetOrLoadReadsThrough(t *testing.T) {
	c := NewMemoryCache(100)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (cachedThing, error) {
		calls++
		return cachedThing{ID: "1", Name: "Pasta"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := pkgcache.GetOrLoad(ctx, c, "thing:1", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, "Pasta", got.Name)
	}
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadTreatsCorruptEntryAsMiss(t *testing.T) {
	c := NewMemoryCache(100)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "thing:1", "not an object", time.Minute))

	got, err := pkgcache.GetOrLoad(ctx, c, "thing:1", time.Minute, func(context.Context) (cachedThing, error) {
		return cachedThing{ID: "1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
}
