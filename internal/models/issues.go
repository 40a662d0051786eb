package models

import "github.com/shopspring/decimal"

// IssueKind enumerates every reason the validator can flag a line item.
// Consumers switching on IssueKind must handle all three.
type IssueKind string

const (
	// IssuePriceChanged means the catalog price no longer matches the price
	// captured in the cart.
	IssuePriceChanged IssueKind = "price_changed"
	// IssueServiceUnavailable means the service was removed, deactivated, or
	// could not be re-verified against the catalog.
	IssueServiceUnavailable IssueKind = "service_unavailable"
	// IssueVendorSuspended means the item's vendor is no longer active.
	IssueVendorSuspended IssueKind = "vendor_suspended"
)

// Issue is one validation finding for one line item. The validator never
// corrects the cart; remediation is an explicit cart edit by the customer.
type Issue struct {
	Kind          IssueKind       `json:"kind"`
	ServiceID     string          `json:"service_id"`
	VendorID      string          `json:"vendor_id"`
	Detail        string          `json:"detail"`
	CapturedPrice decimal.Decimal `json:"captured_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
}

// ValidationResult is the outcome of re-verifying a cart against the catalog.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}
