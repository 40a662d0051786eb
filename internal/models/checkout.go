package models

import "github.com/shopspring/decimal"

// CheckoutStatus tracks one checkout call through its state machine.
type CheckoutStatus string

const (
	CheckoutPending          CheckoutStatus = "pending"
	CheckoutValidating       CheckoutStatus = "validating"
	CheckoutValidationFailed CheckoutStatus = "validation_failed"
	CheckoutValidated        CheckoutStatus = "validated"
	CheckoutAggregating      CheckoutStatus = "aggregating"
	CheckoutPaymentMismatch  CheckoutStatus = "payment_mismatch"
	CheckoutSplitting        CheckoutStatus = "splitting"
	CheckoutAllSucceeded     CheckoutStatus = "all_succeeded"
	CheckoutPartialFailure   CheckoutStatus = "partial_failure"
)

// GroupStatus is the outcome of order creation for one vendor group.
type GroupStatus string

const (
	GroupCreated GroupStatus = "created"
	GroupFailed  GroupStatus = "failed"
)

// GroupResult reports one vendor group's outcome individually. A failed
// group never hides behind a batch-level error.
type GroupResult struct {
	VendorID string          `json:"vendor_id"`
	OrderID  string          `json:"order_id,omitempty"`
	Status   GroupStatus     `json:"status"`
	Reason   string          `json:"reason,omitempty"`
	Total    decimal.Decimal `json:"total"`
}

// CheckoutResult is the terminal outcome of a checkout call. Succeeded
// orders stand permanently; when CartCleared is false the cart still holds
// the failed groups' items and checkout may be retried with the same
// payment reference.
type CheckoutResult struct {
	Status      CheckoutStatus  `json:"status"`
	Groups      []GroupResult   `json:"orders"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CartCleared bool            `json:"cart_cleared"`
}

// AllSucceeded reports whether every vendor group produced an order.
func (r *CheckoutResult) AllSucceeded() bool {
	for _, g := range r.Groups {
		if g.Status != GroupCreated {
			return false
		}
	}
	return len(r.Groups) > 0
}
