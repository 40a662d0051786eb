package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addItemRequest struct {
	ServiceID string `json:"service_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// AddItem handles POST /api/v1/cart/items
func (h *Handlers) AddItem(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), id, req.ServiceID, req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/v1/cart/items/:service_id
func (h *Handlers) RemoveItem(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), id, c.Param("service_id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// UpdateQuantity handles PATCH /api/v1/cart/items/:service_id
func (h *Handlers) UpdateQuantity(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), id, c.Param("service_id"), req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// GetSummary handles GET /api/v1/cart/summary
func (h *Handlers) GetSummary(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}

	summary, err := h.cartService.GetSummary(c.Request.Context(), id, h.jurisdiction(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
