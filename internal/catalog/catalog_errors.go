package catalog

import (
	"net/http"

	"go-retail-api/internal/pkg/apperror"
)

var (
	ErrInvalidProductID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid product id format",
		http.StatusBadRequest,
	)

	ErrProductNotFound = apperror.New(
		apperror.CodeProductNotFound,
		"product not found",
		http.StatusNotFound,
	)

	ErrInsufficientStock = apperror.New(
		apperror.CodeStockConflict,
		"insufficient stock",
		http.StatusConflict,
	)

	ErrCatalogUnavailable = apperror.New(
		apperror.CodePersistence,
		"catalog temporarily unavailable",
		http.StatusServiceUnavailable,
	)
)
