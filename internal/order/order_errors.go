package order

import (
	"net/http"

	"go-retail-api/internal/pkg/apperror"
)

var (
	ErrInvalidOrderID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid order id format",
		http.StatusBadRequest,
	)

	ErrOrderNotFound = apperror.New(
		"ORDER_NOT_FOUND",
		"order not found",
		http.StatusNotFound,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeValidation,
		"unknown order status",
		http.StatusBadRequest,
	)

	ErrInvalidStatusTransition = apperror.New(
		"INVALID_STATUS_TRANSITION",
		"order status cannot change that way",
		http.StatusBadRequest,
	)

	ErrCartEmpty = apperror.New(
		"CART_EMPTY",
		"cart is empty",
		http.StatusConflict,
	).WithDetails(map[string]string{"redirect": "/cart"})

	ErrOrderFailed = apperror.New(
		apperror.CodePersistence,
		"order could not be placed, please retry",
		http.StatusServiceUnavailable,
	)
)
