// Package checkout converts a validated cart into per-vendor orders against
// an already-authorized payment reference.
package checkout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/cart"
	"github.com/vendormarket/checkout-service/internal/models"
)

// Validator re-verifies every cart line item against the authoritative
// catalog. It never trusts cart-captured values and never corrects the cart;
// fixing a flagged item is an explicit customer action.
type Validator struct {
	catalog cart.CatalogClient
	logger  *zap.Logger
}

// NewValidator creates a cart validator.
func NewValidator(catalog cart.CatalogClient, logger *zap.Logger) *Validator {
	return &Validator{catalog: catalog, logger: logger.Named("cart-validator")}
}

// Validate re-fetches price, availability, and vendor status for each line
// item. Valid is true only when no issues were found. A catalog lookup that
// fails is reported as the item being unavailable: a price that cannot be
// re-verified is not trusted.
func (v *Validator) Validate(ctx context.Context, c *models.Cart) (*models.ValidationResult, error) {
	result := &models.ValidationResult{Valid: true}
	if c.IsEmpty() {
		return result, nil
	}

	for _, item := range c.Items {
		info, err := v.catalog.GetCurrent(ctx, item.ServiceID)
		if err != nil {
			v.logger.Warn("Catalog lookup failed during validation",
				zap.String("service_id", item.ServiceID),
				zap.Error(err))
			result.Issues = append(result.Issues, models.Issue{
				Kind:          models.IssueServiceUnavailable,
				ServiceID:     item.ServiceID,
				VendorID:      item.VendorID,
				Detail:        "service could not be verified against the catalog",
				CapturedPrice: item.UnitPrice,
			})
			continue
		}

		if !info.Available {
			result.Issues = append(result.Issues, models.Issue{
				Kind:          models.IssueServiceUnavailable,
				ServiceID:     item.ServiceID,
				VendorID:      item.VendorID,
				Detail:        "service has been removed or deactivated",
				CapturedPrice: item.UnitPrice,
				CurrentPrice:  info.Price,
			})
		}

		if info.VendorStatus != models.VendorActive {
			result.Issues = append(result.Issues, models.Issue{
				Kind:          models.IssueVendorSuspended,
				ServiceID:     item.ServiceID,
				VendorID:      item.VendorID,
				Detail:        "vendor is no longer active",
				CapturedPrice: item.UnitPrice,
				CurrentPrice:  info.Price,
			})
		}

		if !info.Price.Equal(item.UnitPrice) {
			result.Issues = append(result.Issues, models.Issue{
				Kind:      models.IssuePriceChanged,
				ServiceID: item.ServiceID,
				VendorID:  item.VendorID,
				Detail: fmt.Sprintf("price changed from %s to %s",
					item.UnitPrice.StringFixed(2), info.Price.StringFixed(2)),
				CapturedPrice: item.UnitPrice,
				CurrentPrice:  info.Price,
			})
		}
	}

	result.Valid = len(result.Issues) == 0
	return result, nil
}
