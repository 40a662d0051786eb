// Package clients holds HTTP clients for the checkout service's external
// collaborators: the service catalog and the payment processor.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/config"
	"github.com/vendormarket/checkout-service/internal/models"
)

// ServiceInfo is the catalog's current, authoritative view of one service.
// The validator compares this against cart-captured values at checkout.
type ServiceInfo struct {
	ServiceID          string              `json:"service_id"`
	Price              decimal.Decimal     `json:"price"`
	Available          bool                `json:"available"`
	VendorID           string              `json:"vendor_id"`
	VendorStatus       models.VendorStatus `json:"vendor_status"`
	VendorJurisdiction string              `json:"vendor_jurisdiction"`
}

// HTTPCatalogClient talks to the service catalog over HTTP.
type HTTPCatalogClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPCatalogClient creates a catalog client. The configured timeout
// bounds every call.
func NewHTTPCatalogClient(cfg config.ServiceConfig, logger *zap.Logger) *HTTPCatalogClient {
	return &HTTPCatalogClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("catalog-client"),
	}
}

// GetCurrent fetches the current price, availability, and vendor status for
// a service. Returns models.ErrNotFound for unknown service ids.
func (c *HTTPCatalogClient) GetCurrent(ctx context.Context, serviceID string) (*ServiceInfo, error) {
	url := fmt.Sprintf("%s/api/v1/services/%s", c.baseURL, serviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "catalog: building request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Catalog request failed",
			zap.String("service_id", serviceID),
			zap.Error(err))
		return nil, errors.Wrap(err, "catalog: get current")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("catalog: unexpected status %d for service %s", resp.StatusCode, serviceID)
	}

	var info ServiceInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "catalog: decoding response")
	}
	if info.ServiceID == "" {
		info.ServiceID = serviceID
	}

	return &info, nil
}
