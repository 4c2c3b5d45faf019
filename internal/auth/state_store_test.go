package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utilityapi/internal/cache"
)

func newTestStateStore(t *testing.T) (*StateStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return NewStateStore(client), mr
}

func TestStateStore_IssueConsume(t *testing.T) {
	store, _ := newTestStateStore(t)
	ctx := context.Background()

	state, err := store.Issue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, state)

	ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	assert.True(t, ok)

	// Single use: a replay of the same state must fail.
	ok, err = store.Consume(ctx, state)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStateStore_ConsumeUnknown(t *testing.T) {
	store, _ := newTestStateStore(t)

	ok, err := store.Consume(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Consume(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStateStore_Expiry(t *testing.T) {
	store, mr := newTestStateStore(t)
	ctx := context.Background()

	state, err := store.Issue(ctx)
	require.NoError(t, err)

	mr.FastForward(StateTTL + time.Second)

	ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	assert.False(t, ok, "expired state must not be consumable")
}
