package einvoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestTokenCache(t *testing.T) (*TokenCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTokenCache(rdb, 5*time.Hour), mr
}

func TestTokenCacheFetchesOnMiss(t *testing.T) {
	cache, _ := newTestTokenCache(t)

	calls := 0
	auth := func(ctx context.Context) (string, error) {
		calls++
		return "tok-1", nil
	}

	token, err := cache.Get(context.Background(), auth)
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)
	require.Equal(t, 1, calls)

	// second call hits the cache
	token, err = cache.Get(context.Background(), auth)
	require.NoError(t, err)
	require.Equal(t, "tok-1", token)
	require.Equal(t, 1, calls)
}

func TestTokenCacheInvalidate(t *testing.T) {
	cache, _ := newTestTokenCache(t)

	calls := 0
	auth := func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "tok-1", nil
		}
		return "tok-2", nil
	}

	_, err := cache.Get(context.Background(), auth)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background()))

	token, err := cache.Get(context.Background(), auth)
	require.NoError(t, err)
	require.Equal(t, "tok-2", token)
	require.Equal(t, 2, calls)
}

func TestTokenCacheExpiry(t *testing.T) {
	cache, mr := newTestTokenCache(t)

	calls := 0
	auth := func(ctx context.Context) (string, error) {
		calls++
		return "tok-1", nil
	}

	_, err := cache.Get(context.Background(), auth)
	require.NoError(t, err)

	mr.FastForward(6 * time.Hour)

	_, err = cache.Get(context.Background(), auth)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestTokenCachePropagatesAuthError(t *testing.T) {
	cache, _ := newTestTokenCache(t)

	authErr := errors.New("portal down")
	_, err := cache.Get(context.Background(), func(ctx context.Context) (string, error) {
		return "", authErr
	})
	require.ErrorIs(t, err, authErr)
}
