package quote

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakala/paysync/internal/domain"
)

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, time.Hour), mr
}

func TestAttachTransaction(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	tx := &domain.Transaction{ID: 42, SpaceID: 7, State: domain.StatePending}
	require.NoError(t, store.AttachTransaction(ctx, "q-1", tx))

	assert.Equal(t, "42", mr.HGet("quote:q-1", "transaction_id"))
	assert.Equal(t, "7", mr.HGet("quote:q-1", "space_id"))
	assert.Equal(t, "PENDING", mr.HGet("quote:q-1", "state"))
	assert.Equal(t, time.Hour, mr.TTL("quote:q-1"))
}

func TestAttachTransaction_Overwrites(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	require.NoError(t, store.AttachTransaction(ctx, "q-1", &domain.Transaction{ID: 1, SpaceID: 7, State: domain.StateFailed}))
	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.AttachTransaction(ctx, "q-1", &domain.Transaction{ID: 2, SpaceID: 7, State: domain.StatePending}))

	assert.Equal(t, "2", mr.HGet("quote:q-1", "transaction_id"))
	assert.Equal(t, "PENDING", mr.HGet("quote:q-1", "state"))
	assert.Equal(t, time.Hour, mr.TTL("quote:q-1"))
	assert.Equal(t, []string{"quote:q-1"}, mr.Keys())
}

func TestAttachTransaction_Expires(t *testing.T) {
	store, mr := newStore(t)

	require.NoError(t, store.AttachTransaction(context.Background(), "q-1", &domain.Transaction{ID: 1, SpaceID: 7}))
	mr.FastForward(time.Hour + time.Second)
	assert.False(t, mr.Exists("quote:q-1"))
}

func TestAttachTransaction_EmptyQuote(t *testing.T) {
	store, mr := newStore(t)

	require.NoError(t, store.AttachTransaction(context.Background(), "", &domain.Transaction{ID: 1}))
	assert.Empty(t, mr.Keys())
}

func TestRedisDown(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	err := store.AttachTransaction(context.Background(), "q-1", &domain.Transaction{ID: 1})
	assert.Error(t, err)
}
