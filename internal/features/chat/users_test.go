package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	values map[string][]byte
	getErr error
	ttl    time.Duration
}

func (c *mapCache) Get(_ context.Context, key string, result any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, result)
}

func (c *mapCache) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	c.ttl = expiration
	return nil
}

func TestCachedUserCountFillsAndServesCache(t *testing.T) {
	store := newMemStore()
	store.profileCount = 12
	c := &mapCache{values: map[string][]byte{}}
	counter := NewCachedUserCount(store, c, 5*time.Minute)

	n, err := counter.RegisteredUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.Equal(t, 5*time.Minute, c.ttl)

	store.profileCount = 99
	n, err = counter.RegisteredUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestCachedUserCountFallsBackToStore(t *testing.T) {
	store := newMemStore()
	store.profileCount = 7

	n, err := NewCachedUserCount(store, nil, time.Minute).RegisteredUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	broken := &mapCache{values: map[string][]byte{}, getErr: errors.New("redis down")}
	n, err = NewCachedUserCount(store, broken, time.Minute).RegisteredUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
