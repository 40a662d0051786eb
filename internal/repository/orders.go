// Package repository implements the order store on Postgres.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/models"
)

// PostgresOrderStore persists orders and their line items.
type PostgresOrderStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresOrderStore creates a Postgres-backed order store.
func NewPostgresOrderStore(db *sql.DB, logger *zap.Logger) *PostgresOrderStore {
	return &PostgresOrderStore{db: db, logger: logger.Named("order-store")}
}

// CreateOrder inserts one vendor's order and its line items in a single
// transaction. An order either exists with exactly the given total or does
// not exist at all.
func (r *PostgresOrderStore) CreateOrder(ctx context.Context, customerID, vendorID string, items []models.LineItem, total decimal.Decimal, paymentReference string) (*models.Order, error) {
	order := &models.Order{
		ID:               "ord_" + uuid.NewString(),
		CustomerID:       customerID,
		VendorID:         vendorID,
		Items:            items,
		Total:            total,
		PaymentReference: paymentReference,
		Status:           models.OrderStatusCreated,
		CreatedAt:        time.Now().UTC(),
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "orders: beginning transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, vendor_id, total, payment_reference, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.CustomerID, order.VendorID, order.Total.StringFixed(2),
		order.PaymentReference, order.Status, order.CreatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders: inserting order")
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, service_id, vendor_id, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5)`,
			order.ID, item.ServiceID, item.VendorID, item.Quantity, item.UnitPrice.StringFixed(2),
		)
		if err != nil {
			return nil, errors.Wrap(err, "orders: inserting order item")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "orders: committing transaction")
	}

	r.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("vendor_id", vendorID),
		zap.String("total", total.StringFixed(2)))

	return order, nil
}

// GetByID fetches an order with its line items. Returns models.ErrNotFound
// for unknown ids.
func (r *PostgresOrderStore) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	var (
		order models.Order
		total string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, customer_id, vendor_id, total, payment_reference, status, created_at
		 FROM orders WHERE id = $1`,
		orderID,
	).Scan(&order.ID, &order.CustomerID, &order.VendorID, &total,
		&order.PaymentReference, &order.Status, &order.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "orders: fetching order")
	}
	if order.Total, err = decimal.NewFromString(total); err != nil {
		return nil, errors.Wrap(err, "orders: parsing total")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT service_id, vendor_id, quantity, unit_price
		 FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders: fetching order items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item  models.LineItem
			price string
		)
		if err := rows.Scan(&item.ServiceID, &item.VendorID, &item.Quantity, &price); err != nil {
			return nil, errors.Wrap(err, "orders: scanning order item")
		}
		if item.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, errors.Wrap(err, "orders: parsing unit price")
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "orders: iterating order items")
	}

	return &order, nil
}

// ListByPaymentReference fetches every order created against one payment
// reference, oldest first. A split checkout's orders share a reference.
func (r *PostgresOrderStore) ListByPaymentReference(ctx context.Context, paymentReference string) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_id, vendor_id, total, payment_reference, status, created_at
		 FROM orders WHERE payment_reference = $1 ORDER BY created_at`,
		paymentReference,
	)
	if err != nil {
		return nil, errors.Wrap(err, "orders: listing by payment reference")
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		var (
			order models.Order
			total string
		)
		if err := rows.Scan(&order.ID, &order.CustomerID, &order.VendorID, &total,
			&order.PaymentReference, &order.Status, &order.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "orders: scanning order")
		}
		if order.Total, err = decimal.NewFromString(total); err != nil {
			return nil, errors.Wrap(err, "orders: parsing total")
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "orders: iterating orders")
	}

	return orders, nil
}
