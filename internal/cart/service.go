package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/clients"
	"github.com/vendormarket/checkout-service/internal/models"
)

// CatalogClient is the slice of the service catalog the cart needs: the
// current authoritative price and status for one service.
type CatalogClient interface {
	GetCurrent(ctx context.Context, serviceID string) (*clients.ServiceInfo, error)
}

// Service implements the cart mutation operations and summary. All
// mutations load the stored cart, derive a new cart value, and save it;
// the aggregator stays pure and independently testable.
type Service struct {
	store   Store
	catalog CatalogClient
	agg     *Aggregator
	logger  *zap.Logger
}

// NewService creates a cart service.
func NewService(store Store, catalog CatalogClient, agg *Aggregator, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		agg:     agg,
		logger:  logger.Named("cart-service"),
	}
}

// AddItem adds quantity units of a service to the customer's cart, capturing
// the catalog's current price and vendor at add time. Adding a service
// already in the cart increases its quantity.
func (s *Service) AddItem(ctx context.Context, customerID, serviceID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, models.NewValidationError("quantity", "quantity must be positive")
	}

	info, err := s.catalog.GetCurrent(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if !info.Available {
		return nil, models.NewValidationError("service_id", "service is not available")
	}
	if info.VendorStatus != models.VendorActive {
		return nil, models.NewValidationError("service_id", "vendor is not active")
	}

	cart, err := s.store.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = models.NewCart(customerID)
	}

	next := cart.WithItemAdded(models.LineItem{
		ServiceID:          serviceID,
		VendorID:           info.VendorID,
		Quantity:           quantity,
		UnitPrice:          info.Price,
		VendorJurisdiction: info.VendorJurisdiction,
	})

	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("Item added to cart",
		zap.String("customer_id", customerID),
		zap.String("service_id", serviceID),
		zap.Int("quantity", quantity))

	return next, nil
}

// RemoveItem removes a service from the customer's cart.
func (s *Service) RemoveItem(ctx context.Context, customerID, serviceID string) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.FindItem(serviceID) == nil {
		return nil, models.ErrNotFound
	}

	next := cart.WithItemRemoved(serviceID)
	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info("Item removed from cart",
		zap.String("customer_id", customerID),
		zap.String("service_id", serviceID))

	return next, nil
}

// UpdateQuantity replaces a cart item's quantity. Removal is an explicit
// separate operation; a non-positive quantity is rejected.
func (s *Service) UpdateQuantity(ctx context.Context, customerID, serviceID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, models.NewValidationError("quantity", "quantity must be positive; use remove to delete an item")
	}

	cart, err := s.store.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.FindItem(serviceID) == nil {
		return nil, models.ErrNotFound
	}

	next := cart.WithQuantity(serviceID, quantity)
	if err := s.store.Save(ctx, next); err != nil {
		return nil, err
	}

	return next, nil
}

// GetSummary aggregates the customer's stored cart into per-vendor groups
// and grand totals. An absent cart yields an empty summary.
func (s *Service) GetSummary(ctx context.Context, customerID, jurisdiction string) (*models.CartSummary, error) {
	cart, err := s.store.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return models.EmptyCartSummary(), nil
	}

	summary, err := s.agg.Aggregate(cart, jurisdiction)
	if err != nil {
		s.logger.Warn("Cart aggregation reported an invalid amount",
			zap.String("customer_id", customerID),
			zap.Error(err))
	}
	return summary, nil
}
