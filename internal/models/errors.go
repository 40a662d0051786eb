package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for caller-correctable input problems. Nothing in the
// engine retries automatically; retry is a caller policy decision.
var (
	// ErrInvalidAmount rejects non-positive monetary amounts. Monetary paths
	// fail closed: an ambiguous amount never produces a guessed value.
	ErrInvalidAmount = fmt.Errorf("amount must be positive")

	// ErrNotFound is returned when a cart, item, or order does not exist.
	ErrNotFound = fmt.Errorf("not found")

	// ErrCartEmpty rejects checkout of an empty cart.
	ErrCartEmpty = fmt.Errorf("cart is empty")
)

// ValidationError is a caller-correctable request error tied to one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ValidationFailedError is returned when checkout is attempted while the
// cart has outstanding validation issues. No orders are created.
type ValidationFailedError struct {
	Issues []Issue
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("cart validation failed with %d issue(s)", len(e.Issues))
}

// PaymentMismatchError is returned when the recomputed grand total no longer
// matches the amount backing the payment authorization. Fatal to the current
// checkout attempt; guarantees zero orders were created.
type PaymentMismatchError struct {
	Authorized decimal.Decimal
	Required   decimal.Decimal
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("payment mismatch: authorized %s, cart total %s",
		e.Authorized.StringFixed(2), e.Required.StringFixed(2))
}
