package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-retail-api/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	registerModules(r, Deps{
		DB:    db,
		Redis: rdb,
		Config: config.Config{
			AppEnv:       "development",
			JWTSecret:    "test-secret",
			GuestCartTTL: time.Hour,
			CheckoutTTL:  30 * time.Minute,
		},
	})
	return r, mock, mr
}

func TestHealthz(t *testing.T) {
	t.Run("all_up", func(t *testing.T) {
		r, mock, _ := setupRouter(t)
		mock.ExpectPing()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"database":"ok","redis":"ok"}`, w.Body.String())
	})

	t.Run("database_down", func(t *testing.T) {
		r, mock, _ := setupRouter(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"database":"unavailable","redis":"ok"}`, w.Body.String())
	})
}

func TestRoutes(t *testing.T) {
	r, _, _ := setupRouter(t)

	t.Run("guest_cart_is_empty", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Result().Cookies())
	})

	t.Run("guest_cannot_checkout", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("metrics_exposed", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "retail_")
	})
}
