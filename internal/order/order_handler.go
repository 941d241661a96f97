package order

import (
	"net/http"
	"strings"

	"go-retail-api/internal/middleware"
	"go-retail-api/internal/pkg/apperror"
	"go-retail-api/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(svc Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: svc, logger: logger.Named("order.handler")}
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// ==================== CUSTOMER ENDPOINTS ====================

// GET /orders?status=&page=&limit=
func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok || !actor.IsUser() {
		writeError(c, middleware.ErrUnauthorized)
		return
	}

	var req ListOrderRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, apperror.New(apperror.CodeValidation, "invalid query parameters", http.StatusBadRequest))
		return
	}
	if strings.EqualFold(req.Status, "all") {
		req.Status = ""
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > maxPageSize {
		req.Limit = defaultPageSize
	}

	orders, total, err := h.service.List(c.Request.Context(), actor.UserID, req.Status, req.Page, req.Limit)
	if err != nil {
		h.logger.Warn("list orders failed", zap.String("user_id", actor.UserID.String()), zap.Error(err))
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, orders, response.NewPaginationMeta(total, req.Page, req.Limit))
}

// GET /orders/:id
func (h *Handler) Detail(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok || !actor.IsUser() {
		writeError(c, middleware.ErrUnauthorized)
		return
	}

	res, err := h.service.Detail(c.Request.Context(), actor.UserID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

// ==================== ADMIN ENDPOINTS ====================

// PATCH /admin/orders/:id/status
func (h *Handler) UpdateStatusByAdmin(c *gin.Context) {
	var req UpdateStatusAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.New(apperror.CodeValidation, "status is required", http.StatusBadRequest))
		return
	}

	res, err := h.service.UpdateStatusByAdmin(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.logger.Warn("admin status update failed", zap.String("order_id", c.Param("id")), zap.Error(err))
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}
