package stock

import (
	"net/http"

	"go-retail-api/internal/pkg/apperror"
)

var ErrStockConflict = apperror.New(
	apperror.CodeStockConflict,
	"some items are no longer available in the requested quantity",
	http.StatusConflict,
)

type ConflictDetails struct {
	CorrectedItems []Verdict `json:"correctedItems"`
}

// Conflict builds the client-facing error for a failed report, listing each
// offending item with its real availability.
func Conflict(report Report) error {
	return ErrStockConflict.WithDetails(ConflictDetails{CorrectedItems: report.Failing()})
}

// ConflictItems extracts the offending verdicts from an error produced by Conflict.
func ConflictItems(err error) ([]Verdict, bool) {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Code != apperror.CodeStockConflict {
		return nil, false
	}
	details, ok := appErr.Details.(ConflictDetails)
	if !ok {
		return nil, false
	}
	return details.CorrectedItems, true
}
