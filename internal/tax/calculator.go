package tax

import (
	"github.com/shopspring/decimal"

	"github.com/vendormarket/checkout-service/internal/models"
)

var one = decimal.NewFromInt(1)

// Calculator computes tax breakdowns against a rate table. It is a pure
// value transform; it performs no I/O and is safe for concurrent use.
type Calculator struct {
	table *Table
}

// NewCalculator creates a calculator over the given rate table.
func NewCalculator(table *Table) *Calculator {
	return &Calculator{table: table}
}

// Table returns the calculator's rate table.
func (c *Calculator) Table() *Table { return c.table }

// Calculate produces the subtotal/tax/total breakdown for amount.
//
// A non-nil customRate overrides the jurisdiction lookup and the breakdown
// is marked custom. An unrecognized jurisdiction code resolves to the
// table's default jurisdiction. Rounding to 2 decimals (half up) is applied
// exactly once, to the final tax amount; subtotal and total are then derived
// so that total == subtotal + tax holds to the cent.
//
// A non-positive amount returns models.ErrInvalidAmount together with a
// zeroed calculation, so an aggregation pass over a whole cart can continue
// and the caller can decide to block checkout.
func (c *Calculator) Calculate(amount decimal.Decimal, jurisdictionCode string, mode models.TaxMode, customRate *decimal.Decimal) (models.TaxCalculation, error) {
	if !amount.IsPositive() {
		return models.ZeroTaxCalculation(), models.ErrInvalidAmount
	}

	jurisdiction, _ := c.table.Resolve(jurisdictionCode)

	rate := jurisdiction.CombinedRate
	isCustom := customRate != nil
	if isCustom {
		if customRate.IsNegative() {
			return models.ZeroTaxCalculation(), models.ErrInvalidAmount
		}
		rate = *customRate
	}

	calc := models.TaxCalculation{
		Rate:         rate,
		IsCustom:     isCustom,
		TaxInclusive: mode == models.TaxInclusive,
		Jurisdiction: jurisdiction.Code,
	}

	switch mode {
	case models.TaxInclusive:
		calc.TotalAmount = amount.Round(2)
		calc.TaxAmount = amount.Mul(rate).Div(one.Add(rate)).Round(2)
		calc.Subtotal = calc.TotalAmount.Sub(calc.TaxAmount)
	default:
		calc.Subtotal = amount.Round(2)
		calc.TaxAmount = amount.Mul(rate).Round(2)
		calc.TotalAmount = calc.Subtotal.Add(calc.TaxAmount)
	}

	if isCustom {
		calc.Breakdown = []models.TaxBreakdownComponent{
			{Name: "custom", Rate: rate, Amount: calc.TaxAmount},
		}
	} else {
		calc.Breakdown = breakdown(jurisdiction, calc.TaxAmount)
	}

	return calc, nil
}

// breakdown splits the rounded tax across the jurisdiction's named
// components proportionally. The last component absorbs the rounding
// remainder so the component amounts always sum to the tax exactly.
func breakdown(j Jurisdiction, tax decimal.Decimal) []models.TaxBreakdownComponent {
	parts := make([]models.TaxBreakdownComponent, len(j.Components))
	allocated := decimal.Zero
	for i, comp := range j.Components {
		part := models.TaxBreakdownComponent{Name: comp.Name, Rate: comp.Rate}
		if i == len(j.Components)-1 {
			part.Amount = tax.Sub(allocated)
		} else if j.CombinedRate.IsZero() {
			part.Amount = decimal.Zero
		} else {
			part.Amount = tax.Mul(comp.Rate).Div(j.CombinedRate).Round(2)
			allocated = allocated.Add(part.Amount)
		}
		parts[i] = part
	}
	return parts
}
