package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/config"
	"github.com/vendormarket/checkout-service/internal/models"
)

func testHandlers() *Handlers {
	return New(nil, nil, nil, config.Load(), zap.NewNop())
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := testHandlers()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "checkout-service", resp["service"])
}

func TestReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := testHandlers()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Ready(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddItemRequiresCustomerHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := testHandlers()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/cart/items",
		strings.NewReader(`{"service_id":"svc_1","quantity":1}`))

	h.AddItem(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "X-Customer-ID")
}

func TestCheckoutRejectsBadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := testHandlers()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/checkout",
		strings.NewReader(`{}`))
	c.Request.Header.Set("X-Customer-ID", "cust_1")

	h.Checkout(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"empty cart", models.ErrCartEmpty, http.StatusBadRequest},
		{"invalid amount", models.ErrInvalidAmount, http.StatusBadRequest},
		{"input error", models.NewValidationError("quantity", "quantity must be positive"), http.StatusBadRequest},
		{
			"stale cart",
			&models.ValidationFailedError{Issues: []models.Issue{{Kind: models.IssuePriceChanged}}},
			http.StatusConflict,
		},
		{
			"payment mismatch",
			&models.PaymentMismatchError{
				Authorized: decimal.RequireFromString("80.00"),
				Required:   decimal.RequireFromString("86.10"),
			},
			http.StatusConflict,
		},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestValidationFailedResponseCarriesIssues(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handleError(c, &models.ValidationFailedError{Issues: []models.Issue{
		{Kind: models.IssuePriceChanged, ServiceID: "svc_1", VendorID: "vendor_a"},
		{Kind: models.IssueVendorSuspended, ServiceID: "svc_2", VendorID: "vendor_b"},
	}})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Valid  bool           `json:"valid"`
		Issues []models.Issue `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.Len(t, resp.Issues, 2)
	assert.Equal(t, models.IssuePriceChanged, resp.Issues[0].Kind)
}
