package middleware

import (
	"net/http"

	"go-retail-api/internal/pkg/apperror"
	"go-retail-api/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrUnauthorized = apperror.New(
		apperror.CodeUnauthorized,
		"sign in to continue",
		http.StatusUnauthorized,
	)

	ErrForbidden = apperror.New(
		apperror.CodeForbidden,
		"access forbidden",
		http.StatusForbidden,
	)

	ErrTooManyRequests = apperror.New(
		apperror.CodeTooManyRequests,
		"too many requests, slow down",
		http.StatusTooManyRequests,
	)

	ErrRequestInProgress = apperror.New(
		apperror.CodeConflict,
		"a request with this idempotency key is still in progress",
		http.StatusConflict,
	)
)

func abortWith(c *gin.Context, err *apperror.AppError) {
	response.Error(c, err.HTTPStatus, err.Code, err.Message, nil)
	c.Abort()
}

var errInternal = apperror.New(
	apperror.CodeInternalError,
	"internal server error",
	http.StatusInternalServerError,
)
