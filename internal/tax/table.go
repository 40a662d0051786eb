// Package tax implements the jurisdiction rate table and the sales tax
// calculator used by cart aggregation and checkout.
package tax

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Component is one named sub-rate of a jurisdiction (e.g. GST, PST).
type Component struct {
	Name string
	Rate decimal.Decimal
}

// Jurisdiction is a taxing region with one or more named component rates.
// CombinedRate is always the sum of the component rates.
type Jurisdiction struct {
	Code         string
	Name         string
	Components   []Component
	CombinedRate decimal.Decimal
}

// Table is an explicitly constructed, versioned rate configuration. It is
// passed into the calculator rather than read from a package global so rate
// updates are swappable and testable.
type Table struct {
	version       string
	defaultCode   string
	jurisdictions map[string]Jurisdiction
}

// NewTable builds a rate table. The default code must name one of the given
// jurisdictions; it is the documented fallback for unrecognized codes.
func NewTable(version, defaultCode string, jurisdictions []Jurisdiction) (*Table, error) {
	if version == "" {
		return nil, errors.New("tax: table version is required")
	}
	byCode := make(map[string]Jurisdiction, len(jurisdictions))
	for _, j := range jurisdictions {
		if j.Code == "" {
			return nil, errors.New("tax: jurisdiction code is required")
		}
		if len(j.Components) == 0 {
			return nil, errors.Errorf("tax: jurisdiction %s has no rate components", j.Code)
		}
		combined := decimal.Zero
		for _, c := range j.Components {
			if c.Rate.IsNegative() {
				return nil, errors.Errorf("tax: jurisdiction %s component %s has negative rate", j.Code, c.Name)
			}
			combined = combined.Add(c.Rate)
		}
		j.CombinedRate = combined
		byCode[j.Code] = j
	}
	if _, ok := byCode[defaultCode]; !ok {
		return nil, errors.Errorf("tax: default jurisdiction %s not in table", defaultCode)
	}
	return &Table{version: version, defaultCode: defaultCode, jurisdictions: byCode}, nil
}

// Version returns the table's configuration version.
func (t *Table) Version() string { return t.version }

// DefaultCode returns the fallback jurisdiction code.
func (t *Table) DefaultCode() string { return t.defaultCode }

// Lookup returns the jurisdiction for code.
func (t *Table) Lookup(code string) (Jurisdiction, bool) {
	j, ok := t.jurisdictions[code]
	return j, ok
}

// Resolve returns the jurisdiction for code, falling back to the table's
// default for unrecognized codes. The fallback is deliberate policy: an
// unknown code gets the default jurisdiction's rates rather than a caller
// guessing, and fellBack tells the caller it happened.
func (t *Table) Resolve(code string) (j Jurisdiction, fellBack bool) {
	if j, ok := t.jurisdictions[code]; ok {
		return j, false
	}
	return t.jurisdictions[t.defaultCode], true
}

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultTable returns the built-in Canadian provincial rate table. Ontario
// is the default jurisdiction.
func DefaultTable() *Table {
	t, err := NewTable("2024-01", "ON", []Jurisdiction{
		{Code: "ON", Name: "Ontario", Components: []Component{{Name: "HST", Rate: pct("0.13")}}},
		{Code: "AB", Name: "Alberta", Components: []Component{{Name: "GST", Rate: pct("0.05")}}},
		{Code: "BC", Name: "British Columbia", Components: []Component{
			{Name: "GST", Rate: pct("0.05")},
			{Name: "PST", Rate: pct("0.07")},
		}},
		{Code: "MB", Name: "Manitoba", Components: []Component{
			{Name: "GST", Rate: pct("0.05")},
			{Name: "PST", Rate: pct("0.07")},
		}},
		{Code: "SK", Name: "Saskatchewan", Components: []Component{
			{Name: "GST", Rate: pct("0.05")},
			{Name: "PST", Rate: pct("0.06")},
		}},
		{Code: "QC", Name: "Quebec", Components: []Component{
			{Name: "GST", Rate: pct("0.05")},
			{Name: "QST", Rate: pct("0.09975")},
		}},
		{Code: "NS", Name: "Nova Scotia", Components: []Component{{Name: "HST", Rate: pct("0.14")}}},
	})
	if err != nil {
		// The built-in table is static data; a construction error here is a
		// programming bug, not a runtime condition.
		panic(err)
	}
	return t
}
