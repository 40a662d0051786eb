package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a persisted order.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// VendorStatus is the catalog's view of a vendor's standing.
type VendorStatus string

const (
	VendorActive    VendorStatus = "active"
	VendorSuspended VendorStatus = "suspended"
)

// Order is one vendor's share of a checkout. Immutable once created; the
// payment reference is shared by every order from the same checkout.
type Order struct {
	ID               string          `json:"id"`
	CustomerID       string          `json:"customer_id"`
	VendorID         string          `json:"vendor_id"`
	Items            []LineItem      `json:"items"`
	Total            decimal.Decimal `json:"total"`
	PaymentReference string          `json:"payment_reference"`
	Status           OrderStatus     `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}
