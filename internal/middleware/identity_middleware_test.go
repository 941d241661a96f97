package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-retail-api/internal/identity"
	"go-retail-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity(middleware.IdentityConfig{
		JWTSecret:  testSecret,
		SessionTTL: time.Hour,
	}))
	return r
}

func signToken(t *testing.T, secret string, userID uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func actorEcho(captured *identity.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, _ := middleware.CurrentActor(c)
		*captured = a
		c.Status(http.StatusOK)
	}
}

func TestIdentity(t *testing.T) {
	t.Run("guest_gets_new_session_cookie", func(t *testing.T) {
		var got identity.Actor
		r := setupTestRouter()
		r.GET("/", actorEcho(&got))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, identity.KindGuest, got.Kind)
		assert.NotEmpty(t, got.SessionID)

		var session *http.Cookie
		for _, ck := range w.Result().Cookies() {
			if ck.Name == middleware.SessionCookie {
				session = ck
			}
		}
		require.NotNil(t, session)
		assert.Equal(t, got.SessionID, session.Value)
		assert.True(t, session.HttpOnly)
	})

	t.Run("guest_keeps_existing_session", func(t *testing.T) {
		var got identity.Actor
		r := setupTestRouter()
		r.GET("/", actorEcho(&got))

		sid := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sid})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, sid, got.SessionID)
		assert.Equal(t, sid, got.OwnerKey())
	})

	t.Run("malformed_session_is_replaced", func(t *testing.T) {
		var got identity.Actor
		r := setupTestRouter()
		r.GET("/", actorEcho(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "../../etc"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.NotEqual(t, "../../etc", got.SessionID)
		_, err := uuid.Parse(got.SessionID)
		assert.NoError(t, err)
	})

	t.Run("valid_token_resolves_user", func(t *testing.T) {
		var got identity.Actor
		r := setupTestRouter()
		r.GET("/", actorEcho(&got))

		uid := uuid.New()
		sid := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: signToken(t, testSecret, uid, "CUSTOMER")})
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sid})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.True(t, got.IsUser())
		assert.Equal(t, uid, got.UserID)
		assert.Equal(t, sid, got.SessionID)
		assert.Equal(t, "CUSTOMER", got.Role)
	})

	t.Run("token_with_wrong_secret_falls_back_to_guest", func(t *testing.T) {
		var got identity.Actor
		r := setupTestRouter()
		r.GET("/", actorEcho(&got))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: signToken(t, "other", uuid.New(), "CUSTOMER")})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.False(t, got.IsUser())
		assert.Equal(t, identity.KindGuest, got.Kind)
	})
}

func TestRequireUser(t *testing.T) {
	t.Run("guest_rejected", func(t *testing.T) {
		r := setupTestRouter()
		r.GET("/orders", middleware.RequireUser(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("user_allowed", func(t *testing.T) {
		r := setupTestRouter()
		r.GET("/orders", middleware.RequireUser(), func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: signToken(t, testSecret, uuid.New(), "CUSTOMER")})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	r := setupTestRouter()
	r.GET("/admin", middleware.RoleMiddleware("ADMIN"), func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("customer_forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: signToken(t, testSecret, uuid.New(), "CUSTOMER")})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin_allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: signToken(t, testSecret, uuid.New(), "ADMIN")})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
