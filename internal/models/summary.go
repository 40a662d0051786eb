package models

import "github.com/shopspring/decimal"

// VendorGroup is the subset of a cart belonging to one vendor, the unit of
// order-splitting at checkout. Derived, never persisted.
type VendorGroup struct {
	VendorID string          `json:"vendor_id"`
	Items    []LineItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      TaxCalculation  `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// CartSummary is the receipt-ready view of a cart: per-vendor groups in
// first-appearance order plus grand totals.
type CartSummary struct {
	ItemCount     int             `json:"item_count"`
	GrandSubtotal decimal.Decimal `json:"grand_subtotal"`
	GrandTax      decimal.Decimal `json:"grand_tax"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	VendorGroups  []VendorGroup   `json:"vendor_groups"`
}

// EmptyCartSummary returns a summary with zeroed totals and no groups.
func EmptyCartSummary() *CartSummary {
	return &CartSummary{
		GrandSubtotal: decimal.Zero,
		GrandTax:      decimal.Zero,
		GrandTotal:    decimal.Zero,
	}
}
