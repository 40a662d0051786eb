package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/cart"
	"github.com/vendormarket/checkout-service/internal/clients"
	"github.com/vendormarket/checkout-service/internal/models"
)

// OrderStore persists one order per vendor group.
type OrderStore interface {
	CreateOrder(ctx context.Context, customerID, vendorID string, items []models.LineItem, total decimal.Decimal, paymentReference string) (*models.Order, error)
}

// PaymentClient resolves the authorization backing a payment reference.
type PaymentClient interface {
	GetAuthorization(ctx context.Context, reference string) (*clients.Authorization, error)
}

// EventPublisher announces checkout outcomes. Publishing is best-effort;
// the orchestrator logs failures and moves on.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishCheckoutCompleted(ctx context.Context, customerID string, orderIDs []string, total decimal.Decimal) error
}

// Orchestrator runs the checkout state machine: validate, re-aggregate,
// verify the payment amount, split into per-vendor orders, and settle the
// cart according to the outcome.
type Orchestrator struct {
	store        cart.Store
	validator    *Validator
	agg          *cart.Aggregator
	orders       OrderStore
	payments     PaymentClient
	events       EventPublisher
	orderTimeout time.Duration
	logger       *zap.Logger
}

// NewOrchestrator creates a checkout orchestrator. orderTimeout bounds each
// per-vendor order-creation call individually.
func NewOrchestrator(
	store cart.Store,
	validator *Validator,
	agg *cart.Aggregator,
	orders OrderStore,
	payments PaymentClient,
	events EventPublisher,
	orderTimeout time.Duration,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:        store,
		validator:    validator,
		agg:          agg,
		orders:       orders,
		payments:     payments,
		events:       events,
		orderTimeout: orderTimeout,
		logger:       logger.Named("checkout"),
	}
}

// ValidateCart re-verifies the customer's stored cart against the catalog.
// An absent cart validates clean.
func (o *Orchestrator) ValidateCart(ctx context.Context, customerID string) (*models.ValidationResult, error) {
	c, err := o.store.Get(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "checkout: loading cart")
	}
	return o.validator.Validate(ctx, c)
}

// Checkout converts the customer's cart into one order per vendor group.
//
// Preconditions are re-established here rather than trusted: the cart is
// re-validated against the catalog and re-aggregated, and the recomputed
// grand total is compared against the amount backing paymentReference.
// Vendor groups are independent; order creation runs concurrently and one
// group's failure never rolls back another's order. The cart is cleared only
// when every group succeeded; otherwise it retains exactly the failed
// groups' items so checkout can be retried with the same authorization.
func (o *Orchestrator) Checkout(ctx context.Context, customerID, paymentReference, jurisdiction string) (*models.CheckoutResult, error) {
	if paymentReference == "" {
		return nil, models.NewValidationError("payment_reference", "payment reference is required")
	}

	c, err := o.store.Get(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "checkout: loading cart")
	}
	if c.IsEmpty() {
		return nil, models.ErrCartEmpty
	}

	validation, err := o.validator.Validate(ctx, c)
	if err != nil {
		return nil, errors.Wrap(err, "checkout: validating cart")
	}
	if !validation.Valid {
		o.logger.Info("Checkout refused: cart validation failed",
			zap.String("customer_id", customerID),
			zap.Int("issues", len(validation.Issues)))
		return nil, &models.ValidationFailedError{Issues: validation.Issues}
	}

	// Authoritative totals come from re-aggregating the current cart, never
	// from a client-supplied summary.
	summary, err := o.agg.Aggregate(c, jurisdiction)
	if err != nil {
		return nil, errors.Wrap(err, "checkout: aggregating cart")
	}

	auth, err := o.payments.GetAuthorization(ctx, paymentReference)
	if err != nil {
		return nil, errors.Wrap(err, "checkout: resolving payment authorization")
	}
	if !auth.Amount.Equal(summary.GrandTotal) {
		o.logger.Warn("Checkout refused: payment amount mismatch",
			zap.String("customer_id", customerID),
			zap.String("authorized", auth.Amount.StringFixed(2)),
			zap.String("cart_total", summary.GrandTotal.StringFixed(2)))
		return nil, &models.PaymentMismatchError{
			Authorized: auth.Amount,
			Required:   summary.GrandTotal,
		}
	}

	result := &models.CheckoutResult{
		Status:      models.CheckoutSplitting,
		Groups:      make([]models.GroupResult, len(summary.VendorGroups)),
		TotalAmount: summary.GrandTotal,
	}

	var wg sync.WaitGroup
	for i, group := range summary.VendorGroups {
		wg.Add(1)
		go func(i int, group models.VendorGroup) {
			defer wg.Done()
			result.Groups[i] = o.createGroupOrder(ctx, customerID, group, paymentReference)
		}(i, group)
	}
	wg.Wait()

	o.settleCart(ctx, c, result)
	o.publishOutcome(ctx, customerID, result)

	return result, nil
}

// createGroupOrder issues the order-creation call for one vendor group under
// its own timeout. A timeout is indistinguishable from an explicit failure
// and affects this group only.
func (o *Orchestrator) createGroupOrder(ctx context.Context, customerID string, group models.VendorGroup, paymentReference string) models.GroupResult {
	res := models.GroupResult{VendorID: group.VendorID, Total: group.Total}

	callCtx, cancel := context.WithTimeout(ctx, o.orderTimeout)
	defer cancel()

	order, err := o.orders.CreateOrder(callCtx, customerID, group.VendorID, group.Items, group.Total, paymentReference)
	if err != nil {
		o.logger.Error("Order creation failed for vendor group",
			zap.String("customer_id", customerID),
			zap.String("vendor_id", group.VendorID),
			zap.Error(err))
		res.Status = models.GroupFailed
		res.Reason = err.Error()
		return res
	}

	res.Status = models.GroupCreated
	res.OrderID = order.ID

	if o.events != nil {
		if err := o.events.PublishOrderCreated(ctx, order); err != nil {
			o.logger.Error("Failed to publish order created event",
				zap.String("order_id", order.ID),
				zap.Error(err))
		}
	}

	return res
}

// settleCart clears the cart on full success, or rewrites it to hold only
// the failed groups' items so the customer can retry without re-authorizing.
func (o *Orchestrator) settleCart(ctx context.Context, c *models.Cart, result *models.CheckoutResult) {
	if result.AllSucceeded() {
		result.Status = models.CheckoutAllSucceeded
		if err := o.store.Delete(ctx, c.CustomerID); err != nil {
			o.logger.Error("Failed to clear cart after checkout",
				zap.String("customer_id", c.CustomerID),
				zap.Error(err))
			return
		}
		result.CartCleared = true
		return
	}

	result.Status = models.CheckoutPartialFailure

	failedVendors := make(map[string]bool)
	for _, g := range result.Groups {
		if g.Status == models.GroupFailed {
			failedVendors[g.VendorID] = true
		}
	}

	retained := models.NewCart(c.CustomerID)
	for _, item := range c.Items {
		if failedVendors[item.VendorID] {
			retained.Items = append(retained.Items, item)
		}
	}
	retained.UpdatedAt = time.Now().UTC()

	if err := o.store.Save(ctx, retained); err != nil {
		o.logger.Error("Failed to retain failed groups in cart",
			zap.String("customer_id", c.CustomerID),
			zap.Error(err))
	}
}

func (o *Orchestrator) publishOutcome(ctx context.Context, customerID string, result *models.CheckoutResult) {
	if o.events == nil {
		return
	}

	var orderIDs []string
	for _, g := range result.Groups {
		if g.Status == models.GroupCreated {
			orderIDs = append(orderIDs, g.OrderID)
		}
	}
	if len(orderIDs) == 0 {
		return
	}

	if result.Status == models.CheckoutAllSucceeded {
		if err := o.events.PublishCheckoutCompleted(ctx, customerID, orderIDs, result.TotalAmount); err != nil {
			o.logger.Error("Failed to publish checkout completed event",
				zap.String("customer_id", customerID),
				zap.Error(err))
		}
	}
}
