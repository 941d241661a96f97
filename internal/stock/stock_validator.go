// Package stock checks requested quantities against live catalog stock.
//
// The same Validator runs at three checkpoints: when a cart mutation adds or
// increases a line (advisory), when checkout moves to validation (blocking),
// and inside the order transaction right before stock is decremented
// (blocking, with row locks held by the reader).
package stock

import (
	"context"
	"errors"

	"go-retail-api/internal/catalog"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOK           Status = "ok"
	StatusInsufficient Status = "insufficient"
	StatusOutOfStock   Status = "out_of_stock"
	StatusNotFound     Status = "not_found"
)

// Reader returns the current stock of one product. Implementations return
// catalog.ErrProductNotFound when the product no longer exists.
type Reader interface {
	AvailableStock(ctx context.Context, productID uuid.UUID) (int32, error)
}

type Line struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int32
}

type Verdict struct {
	ProductID         uuid.UUID `json:"productId"`
	Name              string    `json:"name,omitempty"`
	Status            Status    `json:"status"`
	Requested         int32     `json:"requested"`
	Available         int32     `json:"available"`
	CorrectedQuantity int32     `json:"correctedQuantity"`
}

func (v Verdict) OK() bool {
	return v.Status == StatusOK
}

// Removed reports whether applying the correction drops the line from the cart.
func (v Verdict) Removed() bool {
	return v.CorrectedQuantity <= 0
}

type Report struct {
	Verdicts []Verdict `json:"verdicts"`
}

func (r Report) OK() bool {
	for _, v := range r.Verdicts {
		if !v.OK() {
			return false
		}
	}
	return true
}

// Failing returns only the verdicts that need correcting.
func (r Report) Failing() []Verdict {
	out := make([]Verdict, 0)
	for _, v := range r.Verdicts {
		if !v.OK() {
			out = append(out, v)
		}
	}
	return out
}

type Validator struct {
	reader Reader
}

func NewValidator(reader Reader) *Validator {
	return &Validator{reader: reader}
}

// WithReader returns a validator bound to another reader, typically a
// transaction-scoped locking reader.
func (v *Validator) WithReader(reader Reader) *Validator {
	return &Validator{reader: reader}
}

// Validate reads fresh stock for every line. Lines are checked in the order
// given; callers that lock rows must pass them in a stable order.
// A missing product is a verdict, not an error; any other read failure aborts.
func (v *Validator) Validate(ctx context.Context, lines []Line) (Report, error) {
	report := Report{Verdicts: make([]Verdict, 0, len(lines))}

	for _, line := range lines {
		available, err := v.reader.AvailableStock(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				report.Verdicts = append(report.Verdicts, Verdict{
					ProductID: line.ProductID,
					Name:      line.Name,
					Status:    StatusNotFound,
					Requested: line.Quantity,
				})
				continue
			}
			return Report{}, err
		}

		report.Verdicts = append(report.Verdicts, Judge(line, available))
	}

	return report, nil
}

// Judge produces the verdict for one line given the stock just read.
func Judge(line Line, available int32) Verdict {
	if available < 0 {
		available = 0
	}

	v := Verdict{
		ProductID:         line.ProductID,
		Name:              line.Name,
		Status:            StatusOK,
		Requested:         line.Quantity,
		Available:         available,
		CorrectedQuantity: line.Quantity,
	}

	switch {
	case available == 0:
		v.Status = StatusOutOfStock
		v.CorrectedQuantity = 0
	case line.Quantity > available:
		v.Status = StatusInsufficient
		v.CorrectedQuantity = available
	}

	return v
}
