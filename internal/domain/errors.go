package domain

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Error categories. Every failure surfaced by the ledger core matches exactly
// one of these with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotFound          = errors.New("not found")
)

// ValidationError reports a malformed, missing or non-positive input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ValidateMoney checks that v is positive and carries at most two decimal places,
// the precision of the decimal(12,2) money columns.
func ValidateMoney(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return NewValidationError(field, "must be greater than zero")
	}
	if !v.Equal(v.Round(2)) {
		return NewValidationError(field, "must have at most two decimal places")
	}
	return nil
}

// InsufficientStockError names the cart line (zero based) whose requested
// quantity exceeds the stock on hand. Line is -1 when the shortfall was not
// raised for a cart line.
type InsufficientStockError struct {
	Line      int
	ProductID int64
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Line < 0 {
		return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
			e.Name, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for cart line %d (%q): requested %d, available %d",
		e.Line, e.Name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
