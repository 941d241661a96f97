package middleware

import (
	"net/http"
	"time"

	"go-retail-api/internal/identity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ActorKey          = "actor"
	AccessTokenCookie = "access_token"
	SessionCookie     = "cart_session"
)

type IdentityConfig struct {
	JWTSecret    string
	SessionTTL   time.Duration
	SecureCookie bool
}

// Identity resolves the current actor for every request. A valid access token
// makes the actor a user; anything else (missing, expired, tampered) falls back
// to a guest. A session cookie is always present afterwards so an anonymous
// cart can be found again, and merged once the shopper signs in.
func Identity(cfg IdentityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || !validSessionID(sessionID) {
			sessionID = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sessionID, int(cfg.SessionTTL.Seconds()), "/", "", cfg.SecureCookie, true)

		actor := identity.Guest(sessionID)

		if tokenString, err := c.Cookie(AccessTokenCookie); err == nil && cfg.JWTSecret != "" {
			if claims, err := parseAccessToken(tokenString, cfg.JWTSecret); err == nil {
				actor = identity.User(claims.UserID, sessionID, claims.Role)
			}
		}

		SetActor(c, actor)
		c.Next()
	}
}

func SetActor(c *gin.Context, actor identity.Actor) {
	c.Set(ActorKey, actor)
}

func CurrentActor(c *gin.Context) (identity.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return identity.Actor{}, false
	}
	actor, ok := v.(identity.Actor)
	return actor, ok
}

func validSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
