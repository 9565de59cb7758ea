package einvoice

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const tokenKey = "einvoice:auth_token"

// TokenCache keeps the portal auth token in Redis so every worker shares one
// session. Refreshes are deduplicated with singleflight: during a stampede
// only one authentication request goes out.
type TokenCache struct {
	rdb *redis.Client
	ttl time.Duration
	sf  singleflight.Group
}

// NewTokenCache constructs a token cache. ttl should sit just under the
// portal's token lifetime so the cache expires before the portal does.
func NewTokenCache(rdb *redis.Client, ttl time.Duration) *TokenCache {
	return &TokenCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached token, calling authenticate on a miss.
func (t *TokenCache) Get(ctx context.Context, authenticate func(context.Context) (string, error)) (string, error) {
	token, err := t.rdb.Get(ctx, tokenKey).Result()
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}

	v, err, _ := t.sf.Do(tokenKey, func() (interface{}, error) {
		// another caller may have refreshed while we waited
		if cached, err := t.rdb.Get(ctx, tokenKey).Result(); err == nil && cached != "" {
			return cached, nil
		}
		fresh, err := authenticate(ctx)
		if err != nil {
			return "", err
		}
		if err := t.rdb.Set(ctx, tokenKey, fresh, t.ttl).Err(); err != nil {
			return "", err
		}
		return fresh, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token, forcing the next Get to re-authenticate.
func (t *TokenCache) Invalidate(ctx context.Context) error {
	return t.rdb.Del(ctx, tokenKey).Err()
}
