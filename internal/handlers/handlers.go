// Package handlers exposes the cart and checkout operations over HTTP.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vendormarket/checkout-service/internal/cart"
	"github.com/vendormarket/checkout-service/internal/checkout"
	"github.com/vendormarket/checkout-service/internal/config"
	"github.com/vendormarket/checkout-service/internal/models"
)

// Handlers holds all HTTP handlers for the checkout service.
type Handlers struct {
	cartService *cart.Service
	checkout    *checkout.Orchestrator
	orders      OrderReader
	config      *config.Config
	logger      *zap.Logger
}

// New creates the handler set.
func New(cartService *cart.Service, orchestrator *checkout.Orchestrator, orders OrderReader, cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		cartService: cartService,
		checkout:    orchestrator,
		orders:      orders,
		config:      cfg,
		logger:      logger.Named("handlers"),
	}
}

// customerID extracts the authenticated customer from the request. Auth
// itself is upstream; the gateway forwards the identity in a header.
func customerID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-Customer-ID")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing X-Customer-ID header"})
		return "", false
	}
	return id, true
}

// jurisdiction resolves the tax jurisdiction for a request: explicit query
// parameter first, then the configured default.
func (h *Handlers) jurisdiction(c *gin.Context) string {
	if j := c.Query("jurisdiction"); j != "" {
		return j
	}
	return h.config.Tax.DefaultJurisdiction
}

func handleError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *models.ValidationError:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Message, "field": e.Field})
		return
	case *models.ValidationFailedError:
		c.JSON(http.StatusConflict, gin.H{
			"error":  "cart validation failed",
			"valid":  false,
			"issues": e.Issues,
		})
		return
	case *models.PaymentMismatchError:
		c.JSON(http.StatusConflict, gin.H{
			"error":      "payment mismatch",
			"authorized": e.Authorized,
			"cart_total": e.Required,
		})
		return
	}

	switch err {
	case models.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case models.ErrCartEmpty:
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case models.ErrInvalidAmount:
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
