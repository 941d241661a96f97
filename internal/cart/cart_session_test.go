package cart_test

import (
	"context"
	"testing"
	"time"

	"go-retail-api/internal/cart"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionStore(t *testing.T) (cart.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cart.NewRedisSessionStore(client, time.Hour), mr
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown_session_loads_empty", func(t *testing.T) {
		store, _ := setupSessionStore(t)

		c, err := store.Load(ctx, "sess-a")
		require.NoError(t, err)
		assert.Equal(t, "sess-a", c.OwnerKey)
		assert.True(t, c.IsEmpty())
	})

	t.Run("save_then_load_round_trip", func(t *testing.T) {
		store, mr := setupSessionStore(t)
		pid := uuid.New()

		c := cart.New("sess-b")
		_, err := c.AddItem(pid, 2, fields("Mouse", "49.99"))
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, c))

		assert.True(t, mr.Exists("cart:session:sess-b"))
		assert.Equal(t, time.Hour, mr.TTL("cart:session:sess-b"))

		loaded, err := store.Load(ctx, "sess-b")
		require.NoError(t, err)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, pid, loaded.Items[0].ProductID)
		assert.Equal(t, int32(2), loaded.Items[0].Quantity)
		assert.Equal(t, "99.98", loaded.Snapshot().Subtotal.StringFixed(2))
	})

	t.Run("saving_empty_cart_deletes_key", func(t *testing.T) {
		store, mr := setupSessionStore(t)

		c := cart.New("sess-c")
		_, _ = c.AddItem(uuid.New(), 1, fields("A", "1.00"))
		require.NoError(t, store.Save(ctx, c))

		c.Clear()
		require.NoError(t, store.Save(ctx, c))
		assert.False(t, mr.Exists("cart:session:sess-c"))
	})

	t.Run("expired_session_is_empty", func(t *testing.T) {
		store, mr := setupSessionStore(t)

		c := cart.New("sess-d")
		_, _ = c.AddItem(uuid.New(), 1, fields("A", "1.00"))
		require.NoError(t, store.Save(ctx, c))

		mr.FastForward(2 * time.Hour)

		loaded, err := store.Load(ctx, "sess-d")
		require.NoError(t, err)
		assert.True(t, loaded.IsEmpty())
	})

	t.Run("claim_takes_cart_once", func(t *testing.T) {
		store, mr := setupSessionStore(t)
		pid := uuid.New()

		c := cart.New("sess-f")
		_, _ = c.AddItem(pid, 2, fields("A", "1.00"))
		require.NoError(t, store.Save(ctx, c))

		claimed, err := store.Claim(ctx, "sess-f")
		require.NoError(t, err)
		assert.Equal(t, "sess-f", claimed.OwnerKey)
		assert.Equal(t, map[uuid.UUID]int32{pid: 2}, quantities(claimed.Snapshot()))
		assert.False(t, mr.Exists("cart:session:sess-f"))

		again, err := store.Claim(ctx, "sess-f")
		require.NoError(t, err)
		assert.True(t, again.IsEmpty())
	})

	t.Run("redis_down_is_persistence_failure", func(t *testing.T) {
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		t.Cleanup(func() { _ = client.Close() })
		store := cart.NewRedisSessionStore(client, time.Hour)

		_, err := store.Load(ctx, "sess-e")
		assert.ErrorIs(t, err, cart.ErrCartPersistence)
	})
}
