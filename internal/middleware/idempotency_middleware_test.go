package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-retail-api/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestIdempotency(t *testing.T) {
	t.Run("no_header_passes_through", func(t *testing.T) {
		_, rdb := newRedis(t)
		calls := 0
		r := setupTestRouter()
		r.POST("/commit", middleware.Idempotency(rdb), func(c *gin.Context) {
			calls++
			_, hasLock := c.Get(middleware.IdempotencyLockKey)
			assert.False(t, hasLock)
			c.Status(http.StatusCreated)
		})

		for i := 0; i < 2; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/commit", nil))
			assert.Equal(t, http.StatusCreated, w.Code)
		}
		assert.Equal(t, 2, calls)
	})

	t.Run("cached_response_is_replayed", func(t *testing.T) {
		_, rdb := newRedis(t)
		calls := 0
		r := setupTestRouter()
		r.POST("/commit", middleware.Idempotency(rdb), func(c *gin.Context) {
			calls++
			lockKey := c.GetString(middleware.IdempotencyLockKey)
			cacheKey := c.GetString(middleware.IdempotencyCacheKey)
			require.NotEmpty(t, cacheKey)
			rdb.Set(c.Request.Context(), cacheKey, `{"success":true}`, 0)
			rdb.Del(c.Request.Context(), lockKey)
			c.JSON(http.StatusCreated, gin.H{"success": true})
		})

		sid := "5a0e4d6c-1a3b-4f0e-9a6a-2f1c7f3f2b10"
		send := func() *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/commit", nil)
			req.Header.Set(middleware.IdempotencyHeader, "key-1")
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sid})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			return w
		}

		first := send()
		second := send()

		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, "true", second.Header().Get("Idempotent-Replay"))
		assert.JSONEq(t, `{"success":true}`, second.Body.String())
		assert.Equal(t, 1, calls)
	})

	t.Run("in_flight_key_rejected", func(t *testing.T) {
		mr, rdb := newRedis(t)
		sid := "5a0e4d6c-1a3b-4f0e-9a6a-2f1c7f3f2b10"
		require.NoError(t, mr.Set("idem:lock:"+sid+":key-2", "1"))

		r := setupTestRouter()
		r.POST("/commit", middleware.Idempotency(rdb), func(c *gin.Context) {
			t.Fatal("handler must not run")
		})

		req := httptest.NewRequest(http.MethodPost, "/commit", nil)
		req.Header.Set(middleware.IdempotencyHeader, "key-2")
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sid})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
