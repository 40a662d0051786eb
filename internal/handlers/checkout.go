package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type checkoutRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required"`
}

// ValidateCart handles POST /api/v1/cart/validate
func (h *Handlers) ValidateCart(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	result, err := h.checkout.ValidateCart(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Checkout handles POST /api/v1/checkout
//
// Partial failure is a successful response: the body reports each vendor
// group's outcome and whether the cart was cleared or retained for retry.
func (h *Handlers) Checkout(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), id, req.PaymentReference, h.jurisdiction(c))
	if err != nil {
		h.logger.Info("Checkout rejected",
			zap.String("customer_id", id),
			zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
