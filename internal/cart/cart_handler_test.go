package cart_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-retail-api/internal/cart"
	"go-retail-api/internal/identity"
	"go-retail-api/internal/middleware"
	"go-retail-api/internal/stock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== FAKE SERVICE ====================

type fakeCartService struct {
	DetailFn     func(ctx context.Context, actor identity.Actor) (cart.CartResponse, error)
	SummaryFn    func(ctx context.Context, actor identity.Actor) (cart.SummaryResponse, error)
	AddItemFn    func(ctx context.Context, actor identity.Actor, req cart.AddItemRequest) (cart.MutationResponse, error)
	UpdateItemFn func(ctx context.Context, actor identity.Actor, req cart.UpdateItemRequest) (cart.MutationResponse, error)
	RemoveItemFn func(ctx context.Context, actor identity.Actor, req cart.RemoveItemRequest) (cart.MutationResponse, error)
	ClearFn      func(ctx context.Context, actor identity.Actor) (cart.SummaryResponse, error)
}

func (f *fakeCartService) Detail(ctx context.Context, actor identity.Actor) (cart.CartResponse, error) {
	return f.DetailFn(ctx, actor)
}
func (f *fakeCartService) Summary(ctx context.Context, actor identity.Actor) (cart.SummaryResponse, error) {
	return f.SummaryFn(ctx, actor)
}
func (f *fakeCartService) AddItem(ctx context.Context, actor identity.Actor, req cart.AddItemRequest) (cart.MutationResponse, error) {
	return f.AddItemFn(ctx, actor, req)
}
func (f *fakeCartService) UpdateItem(ctx context.Context, actor identity.Actor, req cart.UpdateItemRequest) (cart.MutationResponse, error) {
	return f.UpdateItemFn(ctx, actor, req)
}
func (f *fakeCartService) RemoveItem(ctx context.Context, actor identity.Actor, req cart.RemoveItemRequest) (cart.MutationResponse, error) {
	return f.RemoveItemFn(ctx, actor, req)
}
func (f *fakeCartService) Clear(ctx context.Context, actor identity.Actor) (cart.SummaryResponse, error) {
	return f.ClearFn(ctx, actor)
}
func (f *fakeCartService) Snapshot(ctx context.Context, userID uuid.UUID) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}
func (f *fakeCartService) ApplyCorrections(ctx context.Context, userID uuid.UUID, verdicts []stock.Verdict) (cart.Snapshot, error) {
	return cart.Snapshot{}, nil
}

// ==================== HELPER FUNCTIONS ====================

func setupCartRouter(svc cart.Service, actor identity.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	})
	cart.RegisterRoutes(r.Group("/api/v1"), cart.NewHandler(svc, nil))
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// ==================== TESTS ====================

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		pid := uuid.New()
		svc := &fakeCartService{
			AddItemFn: func(_ context.Context, actor identity.Actor, req cart.AddItemRequest) (cart.MutationResponse, error) {
				assert.Equal(t, "sess-1", actor.SessionID)
				assert.Equal(t, pid.String(), req.ProductID)
				assert.Equal(t, int32(2), req.Quantity)
				return cart.MutationResponse{ItemCount: 2, Subtotal: decimal.RequireFromString("99.98")}, nil
			},
		}
		r := setupCartRouter(svc, identity.Guest("sess-1"))

		body := `{"productId":"` + pid.String() + `","quantity":2}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/add", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		assert.True(t, env.Success)
		assert.JSONEq(t, `{"itemCount":2,"subtotal":"99.98"}`, string(env.Data))
	})

	t.Run("non_numeric_quantity", func(t *testing.T) {
		r := setupCartRouter(&fakeCartService{}, identity.Guest("sess-1"))

		body := `{"productId":"` + uuid.NewString() + `","quantity":"two"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/add", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_QUANTITY", decode(t, w).Error.Code)
	})

	t.Run("service_error_mapped", func(t *testing.T) {
		svc := &fakeCartService{
			AddItemFn: func(context.Context, identity.Actor, cart.AddItemRequest) (cart.MutationResponse, error) {
				return cart.MutationResponse{}, cart.ErrCartPersistence
			},
		}
		r := setupCartRouter(svc, identity.Guest("sess-1"))

		body := `{"productId":"` + uuid.NewString() + `","quantity":1}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/add", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "PERSISTENCE_FAILURE", decode(t, w).Error.Code)
	})
}

func TestCartHandler_RemoveItem(t *testing.T) {
	svc := &fakeCartService{
		RemoveItemFn: func(context.Context, identity.Actor, cart.RemoveItemRequest) (cart.MutationResponse, error) {
			return cart.MutationResponse{ItemCount: 0, Subtotal: decimal.Zero}, nil
		},
	}
	r := setupCartRouter(svc, identity.Guest("sess-1"))

	body := `{"productId":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/remove", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode(t, w).Success)
}

func TestCartHandler_Detail(t *testing.T) {
	userID := uuid.New()
	svc := &fakeCartService{
		DetailFn: func(_ context.Context, actor identity.Actor) (cart.CartResponse, error) {
			assert.Equal(t, userID, actor.UserID)
			return cart.CartResponse{Items: []cart.ItemResponse{}}, nil
		},
	}
	r := setupCartRouter(svc, identity.User(userID, "sess-1", ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartHandler_Clear(t *testing.T) {
	called := false
	svc := &fakeCartService{
		ClearFn: func(context.Context, identity.Actor) (cart.SummaryResponse, error) {
			called = true
			return cart.SummaryResponse{}, nil
		},
	}
	r := setupCartRouter(svc, identity.Guest("sess-1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}
