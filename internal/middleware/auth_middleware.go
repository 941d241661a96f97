package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type accessClaims struct {
	UserID uuid.UUID
	Role   string
}

// parseAccessToken validates an HMAC-signed access token issued by the
// identity service and extracts the user id and role claims.
func parseAccessToken(tokenString, secret string) (accessClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return accessClaims{}, err
	}
	if !token.Valid {
		return accessClaims{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return accessClaims{}, fmt.Errorf("invalid token claims")
	}

	raw, ok := claims["user_id"].(string)
	if !ok || raw == "" {
		return accessClaims{}, fmt.Errorf("user id not found in token")
	}
	uid, err := uuid.Parse(raw)
	if err != nil {
		return accessClaims{}, fmt.Errorf("malformed user id: %w", err)
	}

	role, _ := claims["role"].(string)

	return accessClaims{UserID: uid, Role: role}, nil
}

// RequireUser rejects requests whose actor is not an authenticated user.
// It must run after Identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok || !actor.IsUser() {
			abortWith(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok || !actor.IsUser() {
			abortWith(c, ErrUnauthorized)
			return
		}

		for _, role := range allowedRoles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		abortWith(c, ErrForbidden)
	}
}
