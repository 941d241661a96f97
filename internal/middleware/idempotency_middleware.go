package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader   = "Idempotency-Key"
	IdempotencyLockKey  = "idempotency_lock_key"
	IdempotencyCacheKey = "idempotency_cache_key"

	idempotencyLockTTL = 30 * time.Second
)

// Idempotency guards a handler against duplicate submissions carrying the same
// Idempotency-Key. A cached response is replayed as-is; a key whose first
// request is still running is rejected. The handler owns releasing the lock
// and storing its response under IdempotencyCacheKey.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
		if key == "" || rdb == nil {
			c.Next()
			return
		}

		owner := c.ClientIP()
		if actor, ok := CurrentActor(c); ok {
			owner = actor.OwnerKey()
		}

		cacheKey := "idem:resp:" + owner + ":" + key
		lockKey := "idem:lock:" + owner + ":" + key
		ctx := c.Request.Context()

		cached, err := rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			c.Header("Idempotent-Replay", "true")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
		if err != nil {
			// Redis trouble should not block checkout; downstream dedupe by checkout id still holds.
			c.Next()
			return
		}
		if !acquired {
			abortWith(c, ErrRequestInProgress)
			return
		}

		c.Set(IdempotencyLockKey, lockKey)
		c.Set(IdempotencyCacheKey, cacheKey)
		c.Next()
	}
}
