package checkout

import (
	"encoding/json"
	"net/http"
	"time"

	"go-retail-api/internal/middleware"
	"go-retail-api/internal/pkg/apperror"
	"go-retail-api/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyCacheTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

// NewHandler accepts a nil redis client; commit then skips replay caching.
func NewHandler(svc Service, rdb *redis.Client, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: svc, rdb: rdb, logger: logger.Named("checkout.handler")}
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func userID(c *gin.Context) (uuid.UUID, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok || !actor.IsUser() {
		writeError(c, ErrNotAuthenticated)
		return uuid.Nil, false
	}
	return actor.UserID, true
}

func invalidBody() error {
	return apperror.New(apperror.CodeValidation, "invalid request body", http.StatusBadRequest)
}

// GET /checkout
func (h *Handler) Current(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	res, err := h.service.Current(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// POST /checkout/start
func (h *Handler) Start(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("start checkout bind failed", zap.Error(err))
		writeError(c, invalidBody())
		return
	}

	res, err := h.service.Start(c.Request.Context(), uid, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// POST /checkout/payment
func (h *Handler) SetPayment(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidBody())
		return
	}

	res, err := h.service.SetPayment(c.Request.Context(), uid, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// POST /checkout/validate
func (h *Handler) Validate(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	res, err := h.service.Validate(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// POST /checkout/commit
func (h *Handler) Commit(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if lockKey, exists := c.Get(middleware.IdempotencyLockKey); exists && h.rdb != nil {
		defer h.rdb.Del(c.Request.Context(), lockKey.(string))
	}

	res, err := h.service.Commit(c.Request.Context(), uid)
	if err != nil {
		h.logger.Warn("checkout commit failed",
			zap.String("user_id", uid.String()),
			zap.Error(err),
		)
		writeError(c, err)
		return
	}

	body := response.NewSuccess(c, res, nil)
	if cacheKey, exists := c.Get(middleware.IdempotencyCacheKey); exists && h.rdb != nil {
		data, err := json.Marshal(body)
		if err == nil {
			if err := h.rdb.Set(c.Request.Context(), cacheKey.(string), data, idempotencyCacheTTL).Err(); err != nil {
				h.logger.Warn("idempotency cache write failed", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusCreated, body)
}

// POST /checkout/cancel
func (h *Handler) Cancel(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), uid); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cancelled": true}, nil)
}
