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

// Authorization is a payment hold the processor has already captured.
// Authorization itself happens outside this service; checkout only resolves
// the amount backing a reference to compare against the cart total.
type Authorization struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
}

// HTTPPaymentClient talks to the payment processor over HTTP.
type HTTPPaymentClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPPaymentClient creates a payment processor client.
func NewHTTPPaymentClient(cfg config.ServiceConfig, logger *zap.Logger) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("payment-client"),
	}
}

// GetAuthorization resolves the authorization backing a payment reference.
// Returns models.ErrNotFound for unknown references.
func (c *HTTPPaymentClient) GetAuthorization(ctx context.Context, reference string) (*Authorization, error) {
	url := fmt.Sprintf("%s/api/v1/authorizations/%s", c.baseURL, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "payment: building request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Payment request failed",
			zap.String("reference", reference),
			zap.Error(err))
		return nil, errors.Wrap(err, "payment: get authorization")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("payment: unexpected status %d for reference %s", resp.StatusCode, reference)
	}

	var auth Authorization
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, errors.Wrap(err, "payment: decoding response")
	}

	return &auth, nil
}
