package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-retail-api/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

var errSample = apperror.New(apperror.CodeStockConflict, "insufficient stock", http.StatusConflict)

func TestAppError_Is(t *testing.T) {
	t.Run("copy_with_details_matches_sentinel", func(t *testing.T) {
		err := errSample.WithDetails([]string{"a"})
		assert.ErrorIs(t, err, errSample)
		assert.Nil(t, errSample.Details)
	})

	t.Run("wrapped_in_fmt_errorf_matches", func(t *testing.T) {
		err := fmt.Errorf("commit: %w", errSample.Wrap(errors.New("boom")))
		assert.ErrorIs(t, err, errSample)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("different_code_does_not_match", func(t *testing.T) {
		other := apperror.New(apperror.CodeNotFound, "insufficient stock", http.StatusNotFound)
		assert.NotErrorIs(t, other, errSample)
	})
}

func TestToHTTP(t *testing.T) {
	t.Run("app_error_keeps_status_and_details", func(t *testing.T) {
		res := apperror.ToHTTP(fmt.Errorf("ctx: %w", errSample.WithDetails(map[string]int{"available": 1})))
		assert.Equal(t, http.StatusConflict, res.Status)
		assert.Equal(t, apperror.CodeStockConflict, res.Code)
		assert.Equal(t, map[string]int{"available": 1}, res.Details)
	})

	t.Run("unknown_error_is_internal", func(t *testing.T) {
		res := apperror.ToHTTP(errors.New("db down"))
		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.Equal(t, apperror.CodeInternalError, res.Code)
	})

	t.Run("nil_is_ok", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, apperror.ToHTTP(nil).Status)
	})
}
