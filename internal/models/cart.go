package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one (service, quantity) pairing held in a cart. UnitPrice and
// VendorJurisdiction are captured from the catalog at add time; the validator
// re-checks them against the catalog before checkout.
type LineItem struct {
	ServiceID          string          `json:"service_id"`
	VendorID           string          `json:"vendor_id"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	VendorJurisdiction string          `json:"vendor_jurisdiction,omitempty"`
}

// LineTotal returns unit_price * quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the session-scoped shopping cart for one customer. Mutation helpers
// return a new cart value; the stored cart is only replaced on save.
type Cart struct {
	CustomerID string     `json:"customer_id"`
	Items      []LineItem `json:"items"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewCart returns an empty cart for the given customer.
func NewCart(customerID string) *Cart {
	return &Cart{CustomerID: customerID}
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// FindItem returns the line item for serviceID, or nil if absent.
func (c *Cart) FindItem(serviceID string) *LineItem {
	for i := range c.Items {
		if c.Items[i].ServiceID == serviceID {
			return &c.Items[i]
		}
	}
	return nil
}

// WithItemAdded returns a copy of the cart with item appended. If the service
// is already in the cart its quantity is increased and the captured price
// refreshed; the item keeps its original position.
func (c *Cart) WithItemAdded(item LineItem) *Cart {
	next := c.clone()
	for i := range next.Items {
		if next.Items[i].ServiceID == item.ServiceID {
			next.Items[i].Quantity += item.Quantity
			next.Items[i].UnitPrice = item.UnitPrice
			next.Items[i].VendorJurisdiction = item.VendorJurisdiction
			next.UpdatedAt = time.Now().UTC()
			return next
		}
	}
	next.Items = append(next.Items, item)
	next.UpdatedAt = time.Now().UTC()
	return next
}

// WithItemRemoved returns a copy of the cart without the given service.
func (c *Cart) WithItemRemoved(serviceID string) *Cart {
	next := &Cart{CustomerID: c.CustomerID, UpdatedAt: time.Now().UTC()}
	for _, it := range c.Items {
		if it.ServiceID != serviceID {
			next.Items = append(next.Items, it)
		}
	}
	return next
}

// WithQuantity returns a copy of the cart with the given service's quantity
// replaced. The item's position is preserved.
func (c *Cart) WithQuantity(serviceID string, quantity int) *Cart {
	next := c.clone()
	for i := range next.Items {
		if next.Items[i].ServiceID == serviceID {
			next.Items[i].Quantity = quantity
		}
	}
	next.UpdatedAt = time.Now().UTC()
	return next
}

func (c *Cart) clone() *Cart {
	next := &Cart{CustomerID: c.CustomerID, UpdatedAt: c.UpdatedAt}
	next.Items = make([]LineItem, len(c.Items))
	copy(next.Items, c.Items)
	return next
}
