package chat

import (
	"context"
	"log/slog"
	"time"
)

const registeredUsersKey = "bridebuddy:registered_users"

// UserCounter reports how many users have registered.
type UserCounter interface {
	RegisteredUsers(ctx context.Context) (int64, error)
}

// Cacher is the subset of cache.Cache used for the registered-user count.
type Cacher interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// CachedUserCount serves the profile count from the cache when one is configured.
// The count only selects pricing copy, so a stale value is acceptable.
type CachedUserCount struct {
	store Store
	cache Cacher
	ttl   time.Duration
}

// NewCachedUserCount accepts a nil cache, in which case every call hits the store.
func NewCachedUserCount(store Store, cache Cacher, ttl time.Duration) *CachedUserCount {
	return &CachedUserCount{store: store, cache: cache, ttl: ttl}
}

func (u *CachedUserCount) RegisteredUsers(ctx context.Context) (int64, error) {
	if u.cache != nil {
		var n int64
		hit, err := u.cache.Get(ctx, registeredUsersKey, &n)
		if err != nil {
			slog.Warn("registered user count cache read failed", "error", err)
		} else if hit {
			return n, nil
		}
	}

	n, err := u.store.CountProfiles(ctx)
	if err != nil {
		return 0, err
	}
	if u.cache != nil {
		if err := u.cache.Set(ctx, registeredUsersKey, n, u.ttl); err != nil {
			slog.Warn("registered user count cache write failed", "error", err)
		}
	}
	return n, nil
}
