package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/response"
)

// CartHandler serves the cashier's in-progress cart
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart with its total
func (h *CartHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	response.OK(c, "Cart retrieved successfully", h.cartService.View(p.UserID))
}

// AddItem adds one unit of a product
func (h *CartHandler) AddItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req request.AddCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.AddProduct(c.Request.Context(), p.UserID, req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product added to cart", cart)
}

// RemoveItem drops a product line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveProduct(p.UserID, c.Param("productId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product removed from cart", cart)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	response.OK(c, "Cart cleared", h.cartService.Clear(p.UserID))
}
