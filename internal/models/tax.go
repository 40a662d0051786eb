package models

import "github.com/shopspring/decimal"

// TaxMode selects whether a quoted amount already contains tax.
type TaxMode string

const (
	// TaxExclusive adds tax on top of the quoted amount.
	TaxExclusive TaxMode = "exclusive"
	// TaxInclusive treats the quoted amount as tax-inclusive and backs the
	// tax portion out of it.
	TaxInclusive TaxMode = "inclusive"
)

// TaxBreakdownComponent is one named rate component of a calculation, for
// receipt display (e.g. GST 5% / PST 7%).
type TaxBreakdownComponent struct {
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// TaxCalculation is the full breakdown produced by the tax calculator. All
// monetary fields are rounded to 2 decimals and satisfy
// total_amount == subtotal + tax_amount.
type TaxCalculation struct {
	Subtotal     decimal.Decimal         `json:"subtotal"`
	Rate         decimal.Decimal         `json:"rate"`
	TaxAmount    decimal.Decimal         `json:"tax_amount"`
	TotalAmount  decimal.Decimal         `json:"total_amount"`
	Breakdown    []TaxBreakdownComponent `json:"breakdown"`
	IsCustom     bool                    `json:"is_custom"`
	TaxInclusive bool                    `json:"tax_inclusive"`
	Jurisdiction string                  `json:"jurisdiction"`
}

// ZeroTaxCalculation returns a zeroed calculation, used when an input is
// rejected so aggregation can continue without inventing a monetary value.
func ZeroTaxCalculation() TaxCalculation {
	return TaxCalculation{
		Subtotal:    decimal.Zero,
		Rate:        decimal.Zero,
		TaxAmount:   decimal.Zero,
		TotalAmount: decimal.Zero,
	}
}
