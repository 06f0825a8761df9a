package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"templatehub-backend-go/internal/core"
	"templatehub-backend-go/internal/models"
)

// CartHandler exposes the per-user cart under /api/users/cart.
type CartHandler struct {
	cart core.CartService
}

// NewCartHandler creates a CartHandler.
func NewCartHandler(cart core.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// Get handles GET /api/users/cart.
func (h *CartHandler) Get(c *gin.Context) {
	entries, err := h.cart.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart fetched", gin.H{"cart": entries})
}

// Add handles POST /api/users/cart/add.
func (h *CartHandler) Add(c *gin.Context) {
	var req models.AddCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "templateId is required", nil)
		return
	}
	if err := h.cart.Add(c.Request.Context(), currentUserID(c), req.TemplateID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Added to cart", nil)
}

// SetQuantity handles PUT /api/users/cart.
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req models.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respond(c, http.StatusBadRequest, "templateId and quantity are required", nil)
		return
	}
	if err := h.cart.SetQuantity(c.Request.Context(), currentUserID(c), req.TemplateID, *req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart updated", nil)
}

// Increment handles PUT /api/users/cart/increment/:templateId.
func (h *CartHandler) Increment(c *gin.Context) {
	if err := h.cart.Increment(c.Request.Context(), currentUserID(c), c.Param("templateId")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart updated", nil)
}

// Decrement handles PUT /api/users/cart/decrement/:templateId.
func (h *CartHandler) Decrement(c *gin.Context) {
	if err := h.cart.Decrement(c.Request.Context(), currentUserID(c), c.Param("templateId")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart updated", nil)
}

// Remove handles DELETE /api/users/cart/remove/:templateId.
func (h *CartHandler) Remove(c *gin.Context) {
	if err := h.cart.Remove(c.Request.Context(), currentUserID(c), c.Param("templateId")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Removed from cart", nil)
}

// Clear handles DELETE /api/users/cart/clear.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart cleared", nil)
}
