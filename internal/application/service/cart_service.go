package service

import (
	"context"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
)

// CartView is the cart as returned to clients.
type CartView struct {
	Items []entity.CartLineItem `json:"items"`
	Total int64                 `json:"total"`
}

// CartService edits the per-user carts.
type CartService struct {
	carts   *CartRegistry
	catalog *CatalogService
}

// NewCartService creates a new cart service
func NewCartService(carts *CartRegistry, catalog *CatalogService) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

// View returns userID's cart.
func (s *CartService) View(userID string) *CartView {
	return viewOf(s.carts.For(userID))
}

// AddProduct adds one unit of productID. Out-of-stock products are refused.
func (s *CartService) AddProduct(ctx context.Context, userID, productID string) (*CartView, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock() {
		return nil, apperror.NewFieldError("product_id", product.Name+" is out of stock")
	}

	cart := s.carts.For(userID)
	cart.Add(*product)
	return viewOf(cart), nil
}

// RemoveProduct drops the whole line for productID.
func (s *CartService) RemoveProduct(userID, productID string) (*CartView, error) {
	cart := s.carts.For(userID)
	if !cart.Remove(productID) {
		return nil, apperror.NewNotFoundError("Cart item")
	}
	return viewOf(cart), nil
}

// Clear empties userID's cart.
func (s *CartService) Clear(userID string) *CartView {
	cart := s.carts.For(userID)
	cart.Clear()
	return viewOf(cart)
}

func viewOf(cart *Cart) *CartView {
	return &CartView{Items: cart.Lines(), Total: cart.Total()}
}
