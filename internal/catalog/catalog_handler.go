package catalog

import (
	"net/http"

	"go-retail-api/internal/pkg/apperror"
	"go-retail-api/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// CheckStock gives optimistic UI feedback before a cart mutation.
// GET /stock/check?productId=
func (h *Handler) CheckStock(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "productId is required", nil)
		return
	}

	res, err := h.service.CheckStock(c.Request.Context(), productID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}
