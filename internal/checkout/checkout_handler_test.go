package checkout_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-retail-api/internal/checkout"
	"go-retail-api/internal/identity"
	"go-retail-api/internal/middleware"
	checkoutMock "go-retail-api/internal/mock/checkout"
	"go-retail-api/internal/stock"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func setupCheckoutRouter(t *testing.T, svc checkout.Service, actor identity.Actor) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	})
	checkout.RegisterRoutes(r.Group("/api/v1"), checkout.NewHandler(svc, rdb, nil), rdb)
	return r, mr
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCheckoutHandler_Start(t *testing.T) {
	uid := uuid.New()

	t.Run("guest_must_sign_in", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		r, _ := setupCheckoutRouter(t, checkoutMock.NewMockService(ctrl), identity.Guest("sess-1"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, postJSON("/api/v1/checkout/start", `{}`))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		checkoutID := uuid.New()
		svc.EXPECT().
			Start(gomock.Any(), uid, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, req checkout.StartRequest) (checkout.SagaResponse, error) {
				assert.Equal(t, "Cape Town", req.Shipping.City)
				return checkout.SagaResponse{CheckoutID: checkoutID, State: checkout.StateShippingCollected}, nil
			})
		r, _ := setupCheckoutRouter(t, svc, identity.User(uid, "", "CUSTOMER"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, postJSON("/api/v1/checkout/start", `{"shipping":{"name":"T","email":"t@example.com","address":"1 St","city":"Cape Town","postalCode":"8001"}}`))

		require.Equal(t, http.StatusOK, w.Code)
		var data struct {
			CheckoutID uuid.UUID `json:"checkoutId"`
			State      string    `json:"state"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
		assert.Equal(t, checkoutID, data.CheckoutID)
		assert.Equal(t, "shipping_collected", data.State)
	})

	t.Run("empty_cart_redirects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		svc.EXPECT().Start(gomock.Any(), uid, gomock.Any()).Return(checkout.SagaResponse{}, checkout.ErrCartEmpty)
		r, _ := setupCheckoutRouter(t, svc, identity.User(uid, "", "CUSTOMER"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, postJSON("/api/v1/checkout/start", `{"shipping":{}}`))

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decode(t, w)
		assert.Equal(t, "CART_EMPTY", env.Error.Code)
		assert.JSONEq(t, `{"redirect":"/cart"}`, string(env.Error.Details))
	})

	t.Run("malformed_body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		r, _ := setupCheckoutRouter(t, checkoutMock.NewMockService(ctrl), identity.User(uid, "", "CUSTOMER"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, postJSON("/api/v1/checkout/start", `{"shipping":`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).Error.Code)
	})
}

func TestCheckoutHandler_Validate(t *testing.T) {
	uid := uuid.New()

	t.Run("stock_conflict_lists_items", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		pid := uuid.New()
		svc.EXPECT().Validate(gomock.Any(), uid).Return(checkout.SagaResponse{}, stock.Conflict(stock.Report{
			Verdicts: []stock.Verdict{{ProductID: pid, Status: stock.StatusInsufficient, Requested: 3, Available: 1, CorrectedQuantity: 1}},
		}))
		r, _ := setupCheckoutRouter(t, svc, identity.User(uid, "", "CUSTOMER"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, postJSON("/api/v1/checkout/validate", ``))

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decode(t, w)
		assert.Equal(t, "STOCK_CONFLICT", env.Error.Code)

		var details stock.ConflictDetails
		require.NoError(t, json.Unmarshal(env.Error.Details, &details))
		require.Len(t, details.CorrectedItems, 1)
		assert.Equal(t, int32(1), details.CorrectedItems[0].Available)
	})
}

func TestCheckoutHandler_Commit(t *testing.T) {
	uid := uuid.New()

	t.Run("replays_same_key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		orderID := uuid.New()
		svc.EXPECT().Commit(gomock.Any(), uid).Return(checkout.Confirmation{
			OrderID: orderID,
			Total:   decimal.RequireFromString("229.97"),
			Status:  checkout.StateCompleted,
		}, nil).Times(1)
		r, mr := setupCheckoutRouter(t, svc, identity.User(uid, "", "CUSTOMER"))

		first := httptest.NewRecorder()
		req := postJSON("/api/v1/checkout/commit", ``)
		req.Header.Set(middleware.IdempotencyHeader, "key-1")
		r.ServeHTTP(first, req)

		require.Equal(t, http.StatusCreated, first.Code)
		assert.False(t, mr.Exists("idem:lock:"+uid.String()+":key-1"))

		second := httptest.NewRecorder()
		req = postJSON("/api/v1/checkout/commit", ``)
		req.Header.Set(middleware.IdempotencyHeader, "key-1")
		r.ServeHTTP(second, req)

		require.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, "true", second.Header().Get("Idempotent-Replay"))
		assert.JSONEq(t, first.Body.String(), second.Body.String())
	})

	t.Run("failure_releases_lock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := checkoutMock.NewMockService(ctrl)
		svc.EXPECT().Commit(gomock.Any(), uid).Return(checkout.Confirmation{}, checkout.ErrInvalidCheckoutState)
		r, mr := setupCheckoutRouter(t, svc, identity.User(uid, "", "CUSTOMER"))

		w := httptest.NewRecorder()
		req := postJSON("/api/v1/checkout/commit", ``)
		req.Header.Set(middleware.IdempotencyHeader, "key-2")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INVALID_CHECKOUT_STATE", decode(t, w).Error.Code)
		assert.False(t, mr.Exists("idem:lock:"+uid.String()+":key-2"))
		assert.False(t, mr.Exists("idem:resp:"+uid.String()+":key-2"))
	})
}

func TestCheckoutHandler_Cancel(t *testing.T) {
	uid := uuid.New()
	ctrl := gomock.NewController(t)
	svc := checkoutMock.NewMockService(ctrl)
	svc.EXPECT().Cancel(gomock.Any(), uid).Return(nil)
	r, _ := setupCheckoutRouter(t, svc, identity.User(uid, "", "CUSTOMER"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/api/v1/checkout/cancel", ``))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cancelled":true}`, string(decode(t, w).Data))
}
