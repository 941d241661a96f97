package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-retail-api/internal/identity"
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

func NewHandler(s Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: s, logger: logger.Named("cart.handler")}
}

func (h *Handler) actor(c *gin.Context) (identity.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		writeError(c, ErrNotAuthenticated)
		return identity.Actor{}, false
	}
	return actor, true
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// bindError keeps a non-numeric quantity in the quantity taxonomy.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "quantity" {
		return ErrInvalidQuantity
	}
	return apperror.New(apperror.CodeValidation, "invalid request body", http.StatusBadRequest)
}

// GET /cart
func (h *Handler) Detail(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	res, err := h.service.Detail(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// GET /cart/summary
func (h *Handler) Summary(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	res, err := h.service.Summary(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// POST /cart/add
func (h *Handler) AddItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("add item bind failed", zap.Error(err))
		writeError(c, bindError(err))
		return
	}

	res, err := h.service.AddItem(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// POST /cart/update
func (h *Handler) UpdateItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	res, err := h.service.UpdateItem(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// POST /cart/remove
func (h *Handler) RemoveItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	res, err := h.service.RemoveItem(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// DELETE /cart
func (h *Handler) Clear(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	res, err := h.service.Clear(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
