package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/domain"
	"shopfront/internal/repository"
)

type cartItemRequest struct {
	ItemID *int `json:"itemId" binding:"required,min=0,max=299"`
}

func (h *Handler) addToCart(c *gin.Context) {
	h.mutateCart(c, "add", h.carts.AddToCart, "Added")
}

func (h *Handler) removeFromCart(c *gin.Context) {
	h.mutateCart(c, "remove", h.carts.RemoveFromCart, "Removed")
}

func (h *Handler) mutateCart(c *gin.Context, op string, apply func(ctx context.Context, userID string, slot int) error, reply string) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	if err := apply(c.Request.Context(), c.GetString(userIDKey), *req.ItemID); err != nil {
		h.cartError(c, err)
		return
	}

	h.metrics.CartMutation(op)
	c.String(http.StatusOK, reply)
}

func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.carts.GetCart(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// the token is valid but names no stored user
		_ = c.Error(err)
		unauthenticated(c)
	case errors.Is(err, domain.ErrInvalidSlot):
		validationError(c, err)
	default:
		h.internalError(c, err)
	}
}
