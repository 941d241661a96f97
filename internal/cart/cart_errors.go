package cart

import (
	"net/http"

	"go-retail-api/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidQuantity = apperror.New(
		apperror.CodeInvalidQuantity,
		"quantity must be a positive whole number",
		http.StatusBadRequest,
	)

	ErrQuantityTooLarge = apperror.New(
		apperror.CodeInvalidQuantity,
		"quantity is too large",
		http.StatusBadRequest,
	)

	ErrInvalidProductID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid product id",
		http.StatusBadRequest,
	)

	ErrInvalidAction = apperror.New(
		apperror.CodeValidation,
		"action must be increase or decrease, or quantity must be given",
		http.StatusBadRequest,
	)

	ErrCartVersionConflict = apperror.New(
		"CART_VERSION_CONFLICT",
		"cart was changed by another request, reload and retry",
		http.StatusConflict,
	)

	ErrCartPersistence = apperror.New(
		apperror.CodePersistence,
		"cart storage is unavailable, please retry",
		http.StatusServiceUnavailable,
	)

	ErrNotAuthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"sign in to continue",
		http.StatusUnauthorized,
	)
)

// MapValidationError maps a failed request struct validation to the error a
// shopper can act on: a quantity problem or a generic validation failure.
func MapValidationError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			if fe.Field() == "Quantity" {
				return ErrInvalidQuantity
			}
		}
	}
	return apperror.New(apperror.CodeValidation, "invalid request", http.StatusBadRequest).Wrap(err)
}
