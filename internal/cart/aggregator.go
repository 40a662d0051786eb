package cart

import (
	"github.com/shopspring/decimal"

	"github.com/vendormarket/checkout-service/internal/models"
	"github.com/vendormarket/checkout-service/internal/tax"
)

// Aggregator folds a cart into per-vendor groups with tax and grand totals.
// It is a pure transform over in-memory values: no I/O, no mutation of the
// input cart, identical output for an unchanged cart.
type Aggregator struct {
	calc *tax.Calculator
}

// NewAggregator creates an aggregator over the given tax calculator.
func NewAggregator(calc *tax.Calculator) *Aggregator {
	return &Aggregator{calc: calc}
}

// Aggregate groups the cart's items by vendor, in the order each vendor
// first appears, and computes per-group subtotals and exclusive-mode tax.
//
// Each group is taxed in its items' captured vendor jurisdiction, falling
// back to customerJurisdiction for items with none. A line item the
// calculator rejects leaves a zeroed tax calculation in its group and the
// first such error is returned alongside the summary, so callers can block
// checkout without losing the rest of the aggregation.
func (a *Aggregator) Aggregate(cart *models.Cart, customerJurisdiction string) (*models.CartSummary, error) {
	summary := models.EmptyCartSummary()
	if cart.IsEmpty() {
		return summary, nil
	}

	groupIndex := make(map[string]int)
	var groups []models.VendorGroup
	for _, item := range cart.Items {
		idx, seen := groupIndex[item.VendorID]
		if !seen {
			idx = len(groups)
			groupIndex[item.VendorID] = idx
			groups = append(groups, models.VendorGroup{VendorID: item.VendorID})
		}
		groups[idx].Items = append(groups[idx].Items, item)
		summary.ItemCount += item.Quantity
	}

	var firstErr error
	for i := range groups {
		subtotal := decimal.Zero
		jurisdiction := customerJurisdiction
		for _, item := range groups[i].Items {
			subtotal = subtotal.Add(item.LineTotal())
			if item.VendorJurisdiction != "" {
				jurisdiction = item.VendorJurisdiction
			}
		}
		groups[i].Subtotal = subtotal.Round(2)

		calc, err := a.calc.Calculate(subtotal, jurisdiction, models.TaxExclusive, nil)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		groups[i].Tax = calc
		groups[i].Total = calc.TotalAmount

		summary.GrandSubtotal = summary.GrandSubtotal.Add(calc.Subtotal)
		summary.GrandTax = summary.GrandTax.Add(calc.TaxAmount)
		summary.GrandTotal = summary.GrandTotal.Add(calc.TotalAmount)
	}

	summary.VendorGroups = groups
	return summary, firstErr
}
