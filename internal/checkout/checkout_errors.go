package checkout

import (
	"net/http"

	"go-retail-api/internal/order"
	"go-retail-api/internal/pkg/apperror"
)

var (
	ErrCheckoutNotFound = apperror.New(
		"CHECKOUT_NOT_FOUND",
		"no checkout in progress",
		http.StatusNotFound,
	)

	ErrInvalidCheckoutState = apperror.New(
		"INVALID_CHECKOUT_STATE",
		"checkout cannot do that from its current step",
		http.StatusConflict,
	)

	// ErrCartEmpty sends the shopper back to the cart.
	ErrCartEmpty = order.ErrCartEmpty

	ErrShippingIncomplete = apperror.New(
		apperror.CodeValidation,
		"shipping details are incomplete",
		http.StatusBadRequest,
	)

	ErrPaymentMethod = apperror.New(
		apperror.CodeValidation,
		"payment method must be credit_card or cash",
		http.StatusBadRequest,
	)

	ErrCardDetailsRequired = apperror.New(
		apperror.CodeValidation,
		"card holder and card number are required for card payments",
		http.StatusBadRequest,
	)

	ErrCheckoutPersistence = apperror.New(
		apperror.CodePersistence,
		"checkout storage is unavailable, please retry",
		http.StatusServiceUnavailable,
	)

	ErrNotAuthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"sign in to check out",
		http.StatusUnauthorized,
	)
)
