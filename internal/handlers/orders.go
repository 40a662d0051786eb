package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vendormarket/checkout-service/internal/models"
)

// OrderReader is the read side of the order store, for receipt lookups.
type OrderReader interface {
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	ListByPaymentReference(ctx context.Context, paymentReference string) ([]*models.Order, error)
}

// GetOrder handles GET /api/v1/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /api/v1/orders?payment_reference=...
//
// A split checkout creates one order per vendor against a single payment
// reference; this returns all of them.
func (h *Handlers) ListOrders(c *gin.Context) {
	ref := c.Query("payment_reference")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_reference is required"})
		return
	}

	orders, err := h.orders.ListByPaymentReference(c.Request.Context(), ref)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
