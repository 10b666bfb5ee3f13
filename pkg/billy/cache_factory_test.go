package billy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billyhq/billy-go/pkg/billy"
)

func TestNewCacheFromConfigDefaults(t *testing.T) {
	t.Parallel()

	cache, err := billy.NewCacheFromConfig(nil)
	require.NoError(t, err)

	_, ok := cache.(*billy.MemoryCache)
	assert.True(t, ok)
}

func TestNewCacheFromConfigMemory(t *testing.T) {
	t.Parallel()

	cache, err := billy.NewCacheFromConfig(&billy.CacheConfig{
		Type:   billy.CacheTypeMemory,
		Memory: &billy.MemoryCacheConfig{MaxSize: 5},
	})
	require.NoError(t, err)
	require.NotNil(t, cache)

	ctx := context.Background()
	entry := &billy.CacheEntry{Data: []byte("x"), ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, cache.Set(ctx, "key", entry))
	assert.True(t, cache.Has(ctx, "key"))
}

func TestNewCacheFromConfigNone(t *testing.T) {
	t.Parallel()

	cache, err := billy.NewCacheFromConfig(&billy.CacheConfig{Type: billy.CacheTypeNone})
	require.NoError(t, err)

	ctx := context.Background()
	entry := &billy.CacheEntry{Data: []byte("x"), ExpiresAt: time.Now().Add(time.Minute)}

	require.NoError(t, cache.Set(ctx, "key", entry))
	assert.False(t, cache.Has(ctx, "key"))

	_, err = cache.Get(ctx, "key")
	assert.ErrorIs(t, err, billy.ErrCacheDisabled)
}

func TestNewCacheFromConfigNATSRequiresConfig(t *testing.T) {
	t.Parallel()

	cache, err := billy.NewCacheFromConfig(&billy.CacheConfig{Type: billy.CacheTypeNATS})
	require.ErrorIs(t, err, billy.ErrNATSConfigRequired)
	assert.Nil(t, cache)
}

func TestNewCacheFromConfigUnsupportedType(t *testing.T) {
	t.Parallel()

	cache, err := billy.NewCacheFromConfig(&billy.CacheConfig{Type: billy.CacheType("redis")})
	require.ErrorIs(t, err, billy.ErrUnsupportedCacheType)
	assert.Nil(t, cache)
}

func TestCacheBuilder(t *testing.T) {
	t.Parallel()

	cache, err := billy.NewCacheBuilder().
		WithType(billy.CacheTypeMemory).
		WithMemoryConfig(100).
		WithOptions(&billy.CacheOptions{DefaultTTL: time.Minute}).
		Build()
	require.NoError(t, err)
	require.NotNil(t, cache)
}

func TestCacheChain(t *testing.T) {
	t.Parallel()

	l1 := billy.NewMemoryCache(10)
	l2 := billy.NewMemoryCache(10)
	chain := billy.NewCacheChain(l1, l2)
	ctx := context.Background()

	entry := &billy.CacheEntry{Data: []byte("shared"), ExpiresAt: time.Now().Add(time.Minute)}

	// Seed only the second level; a chain hit backfills the first.
	require.NoError(t, l2.Set(ctx, "key", entry))
	assert.False(t, l1.Has(ctx, "key"))

	got, err := chain.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("shared"), got.Data)
	assert.True(t, l1.Has(ctx, "key"))

	// Set and Delete fan out to every level.
	require.NoError(t, chain.Set(ctx, "other", entry))
	assert.True(t, l1.Has(ctx, "other"))
	assert.True(t, l2.Has(ctx, "other"))

	require.NoError(t, chain.Delete(ctx, "other"))
	assert.False(t, chain.Has(ctx, "other"))

	// DeleteByPrefix fans out too.
	require.NoError(t, l1.Set(ctx, "GET:/v1/plans", entry))
	require.NoError(t, l2.Set(ctx, "GET:/v1/plans/PL1", entry))
	require.NoError(t, chain.DeleteByPrefix(ctx, "GET:/v1/plans"))
	assert.False(t, l1.Has(ctx, "GET:/v1/plans"))
	assert.False(t, l2.Has(ctx, "GET:/v1/plans/PL1"))

	require.NoError(t, chain.Clear(ctx))
	assert.False(t, chain.Has(ctx, "key"))

	_, err = chain.Get(ctx, "key")
	assert.ErrorIs(t, err, billy.ErrCacheKeyNotFound)
}
