package cart_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go-retail-api/internal/cart"
	"go-retail-api/internal/identity"
	"go-retail-api/internal/middleware"
	cartMock "go-retail-api/internal/mock/cart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMerger_Merge(t *testing.T) {
	ctx := context.Background()

	t.Run("sums_overlapping_lines", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := cartMock.NewMockSessionStore(ctrl)
		persistent := cartMock.NewMockPersistentCart(ctrl)
		merger := cart.NewMerger(sessions, persistent, nil)

		userID := uuid.New()
		a, b, c := uuid.New(), uuid.New(), uuid.New()

		guest := cart.New("sess-1")
		_, _ = guest.AddItem(a, 2, fields("A", "1.00"))
		_, _ = guest.AddItem(b, 1, fields("B", "1.00"))

		stored := cart.New(userID.String())
		_, _ = stored.AddItem(a, 1, fields("A", "1.00"))
		_, _ = stored.AddItem(c, 3, fields("C", "1.00"))

		gomock.InOrder(
			sessions.EXPECT().Claim(gomock.Any(), "sess-1").Return(guest, nil),
			persistent.EXPECT().Load(gomock.Any(), userID).Return(stored, nil),
			persistent.EXPECT().Save(gomock.Any(), userID, gomock.Any()).Return(nil),
		)

		snap, merged, err := merger.Merge(ctx, "sess-1", userID)
		require.NoError(t, err)
		assert.True(t, merged)
		assert.Equal(t, map[uuid.UUID]int32{a: 3, b: 1, c: 3}, quantities(snap))
	})

	t.Run("empty_guest_is_noop", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := cartMock.NewMockSessionStore(ctrl)
		persistent := cartMock.NewMockPersistentCart(ctrl)
		merger := cart.NewMerger(sessions, persistent, nil)

		sessions.EXPECT().Claim(gomock.Any(), "sess-2").Return(cart.New("sess-2"), nil)

		_, merged, err := merger.Merge(ctx, "sess-2", uuid.New())
		require.NoError(t, err)
		assert.False(t, merged)
	})

	t.Run("retries_on_version_conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := cartMock.NewMockSessionStore(ctrl)
		persistent := cartMock.NewMockPersistentCart(ctrl)
		merger := cart.NewMerger(sessions, persistent, nil)

		userID := uuid.New()
		guest := cart.New("sess-3")
		_, _ = guest.AddItem(uuid.New(), 1, fields("A", "1.00"))

		sessions.EXPECT().Claim(gomock.Any(), "sess-3").Return(guest, nil)
		persistent.EXPECT().Load(gomock.Any(), userID).
			DoAndReturn(func(context.Context, uuid.UUID) (*cart.Cart, error) {
				return cart.New(userID.String()), nil
			}).Times(2)
		gomock.InOrder(
			persistent.EXPECT().Save(gomock.Any(), userID, gomock.Any()).Return(cart.ErrCartVersionConflict),
			persistent.EXPECT().Save(gomock.Any(), userID, gomock.Any()).Return(nil),
		)

		snap, merged, err := merger.Merge(ctx, "sess-3", userID)
		require.NoError(t, err)
		assert.True(t, merged)
		assert.Equal(t, int64(1), snap.ItemCount)
	})

	t.Run("save_failure_restores_guest_cart", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := cartMock.NewMockSessionStore(ctrl)
		persistent := cartMock.NewMockPersistentCart(ctrl)
		merger := cart.NewMerger(sessions, persistent, nil)

		userID := uuid.New()
		a := uuid.New()
		guest := cart.New("sess-4")
		_, _ = guest.AddItem(a, 1, fields("A", "1.00"))

		sessions.EXPECT().Claim(gomock.Any(), "sess-4").Return(guest, nil)
		persistent.EXPECT().Load(gomock.Any(), userID).Return(cart.New(userID.String()), nil)
		persistent.EXPECT().Save(gomock.Any(), userID, gomock.Any()).
			Return(cart.ErrCartPersistence.Wrap(errors.New("db down")))
		sessions.EXPECT().Load(gomock.Any(), "sess-4").Return(cart.New("sess-4"), nil)
		sessions.EXPECT().Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *cart.Cart) error {
				assert.Equal(t, "sess-4", c.OwnerKey)
				assert.Equal(t, map[uuid.UUID]int32{a: 1}, quantities(c.Snapshot()))
				return nil
			})

		_, merged, err := merger.Merge(ctx, "sess-4", userID)
		assert.ErrorIs(t, err, cart.ErrCartPersistence)
		assert.False(t, merged)
	})
}

// versionedCarts is an in-memory PersistentCart with the same optimistic
// version check as the SQL one.
type versionedCarts struct {
	mu       sync.Mutex
	carts    map[uuid.UUID]*cart.Cart
	saveErr  error
	onSave   func(userID uuid.UUID)
	conflict int
}

func newVersionedCarts() *versionedCarts {
	return &versionedCarts{carts: make(map[uuid.UUID]*cart.Cart)}
}

func copyCart(c *cart.Cart) *cart.Cart {
	cp := *c
	cp.Items = append([]cart.Item(nil), c.Items...)
	return &cp
}

func (v *versionedCarts) Load(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if c, ok := v.carts[userID]; ok {
		return copyCart(c), nil
	}
	return cart.New(userID.String()), nil
}

func (v *versionedCarts) Save(_ context.Context, userID uuid.UUID, c *cart.Cart) error {
	if v.onSave != nil {
		hook := v.onSave
		v.onSave = nil
		hook(userID)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.saveErr != nil {
		return v.saveErr
	}
	var current int64
	if stored, ok := v.carts[userID]; ok {
		current = stored.Version
	}
	if c.Version != current {
		v.conflict++
		return cart.ErrCartVersionConflict
	}
	c.Version = current + 1
	v.carts[userID] = copyCart(c)
	return nil
}

func (v *versionedCarts) Total(context.Context, uuid.UUID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (v *versionedCarts) Count(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (v *versionedCarts) quantities(t *testing.T, userID uuid.UUID) map[uuid.UUID]int32 {
	t.Helper()
	c, err := v.Load(context.Background(), userID)
	require.NoError(t, err)
	return quantities(c.Snapshot())
}

func TestMerger_SharedSession(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, sessions cart.SessionStore, persistent *versionedCarts, userID uuid.UUID) (a, b, c uuid.UUID) {
		t.Helper()
		a, b, c = uuid.New(), uuid.New(), uuid.New()

		guest := cart.New("sess-shared")
		_, _ = guest.AddItem(a, 2, fields("A", "1.00"))
		_, _ = guest.AddItem(b, 1, fields("B", "1.00"))
		require.NoError(t, sessions.Save(ctx, guest))

		stored := cart.New(userID.String())
		_, _ = stored.AddItem(a, 1, fields("A", "1.00"))
		_, _ = stored.AddItem(c, 3, fields("C", "1.00"))
		require.NoError(t, persistent.Save(ctx, userID, stored))
		return a, b, c
	}

	t.Run("concurrent_requests_merge_once", func(t *testing.T) {
		sessions, mr := setupSessionStore(t)
		persistent := newVersionedCarts()
		merger := cart.NewMerger(sessions, persistent, nil)
		userID := uuid.New()
		a, b, c := seed(t, sessions, persistent, userID)

		const requests = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			mergedN int
		)
		for i := 0; i < requests; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, merged, err := merger.Merge(ctx, "sess-shared", userID)
				assert.NoError(t, err)
				if merged {
					mu.Lock()
					mergedN++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, mergedN)
		assert.Equal(t, map[uuid.UUID]int32{a: 3, b: 1, c: 3}, persistent.quantities(t, userID))
		assert.False(t, mr.Exists("cart:session:sess-shared"))
	})

	t.Run("version_conflict_retry_counts_guest_once", func(t *testing.T) {
		sessions, _ := setupSessionStore(t)
		persistent := newVersionedCarts()
		merger := cart.NewMerger(sessions, persistent, nil)
		userID := uuid.New()
		a, b, c := seed(t, sessions, persistent, userID)

		d := uuid.New()
		persistent.onSave = func(userID uuid.UUID) {
			other, err := persistent.Load(ctx, userID)
			require.NoError(t, err)
			_, _ = other.AddItem(d, 1, fields("D", "1.00"))
			require.NoError(t, persistent.Save(ctx, userID, other))
		}

		snap, merged, err := merger.Merge(ctx, "sess-shared", userID)
		require.NoError(t, err)
		assert.True(t, merged)
		assert.Equal(t, 1, persistent.conflict)

		want := map[uuid.UUID]int32{a: 3, b: 1, c: 3, d: 1}
		assert.Equal(t, want, quantities(snap))
		assert.Equal(t, want, persistent.quantities(t, userID))

		_, merged, err = merger.Merge(ctx, "sess-shared", userID)
		require.NoError(t, err)
		assert.False(t, merged)
		assert.Equal(t, want, persistent.quantities(t, userID))
	})

	t.Run("failed_save_leaves_guest_for_next_request", func(t *testing.T) {
		sessions, mr := setupSessionStore(t)
		persistent := newVersionedCarts()
		merger := cart.NewMerger(sessions, persistent, nil)
		userID := uuid.New()
		a, b, c := seed(t, sessions, persistent, userID)

		persistent.saveErr = cart.ErrCartPersistence.Wrap(errors.New("db down"))
		_, merged, err := merger.Merge(ctx, "sess-shared", userID)
		assert.ErrorIs(t, err, cart.ErrCartPersistence)
		assert.False(t, merged)
		assert.True(t, mr.Exists("cart:session:sess-shared"))

		persistent.saveErr = nil
		_, merged, err = merger.Merge(ctx, "sess-shared", userID)
		require.NoError(t, err)
		assert.True(t, merged)
		assert.Equal(t, map[uuid.UUID]int32{a: 3, b: 1, c: 3}, persistent.quantities(t, userID))
	})
}

func TestMergeGuestCart(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("user_request_triggers_merge", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := cartMock.NewMockSessionStore(ctrl)
		persistent := cartMock.NewMockPersistentCart(ctrl)
		merger := cart.NewMerger(sessions, persistent, nil)

		userID := uuid.New()
		sessions.EXPECT().Claim(gomock.Any(), "sess-5").Return(cart.New("sess-5"), nil)

		r := gin.New()
		r.Use(func(c *gin.Context) {
			middleware.SetActor(c, identity.User(userID, "sess-5", ""))
		})
		r.Use(cart.MergeGuestCart(merger))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("guest_request_skips_merge", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := cartMock.NewMockSessionStore(ctrl)
		persistent := cartMock.NewMockPersistentCart(ctrl)
		merger := cart.NewMerger(sessions, persistent, nil)

		r := gin.New()
		r.Use(func(c *gin.Context) {
			middleware.SetActor(c, identity.Guest("sess-6"))
		})
		r.Use(cart.MergeGuestCart(merger))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("merge_failure_does_not_block_request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sessions := cartMock.NewMockSessionStore(ctrl)
		persistent := cartMock.NewMockPersistentCart(ctrl)
		merger := cart.NewMerger(sessions, persistent, nil)

		sessions.EXPECT().Claim(gomock.Any(), "sess-7").Return(nil, cart.ErrCartPersistence)

		r := gin.New()
		r.Use(func(c *gin.Context) {
			middleware.SetActor(c, identity.User(uuid.New(), "sess-7", ""))
		})
		r.Use(cart.MergeGuestCart(merger))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
