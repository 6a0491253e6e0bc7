package service

import (
	"sync"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
)

// Cart is one user's in-progress sale. It lives in memory only.
type Cart struct {
	mu    sync.Mutex
	lines []entity.CartLineItem
}

func NewCart() *Cart {
	return &Cart{}
}

// Add puts one unit of p in the cart, bumping the quantity when the product
// is already there.
func (c *Cart) Add(p entity.Product) entity.CartLineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return c.lines[i]
		}
	}
	line := entity.CartLineItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: 1}
	c.lines = append(c.lines, line)
	return line
}

// Remove drops the whole line for productID. It reports whether a line was removed.
func (c *Cart) Remove(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Take removes sold quantities from the cart. Lines added after the sale
// and units beyond the sold quantity stay.
func (c *Cart) Take(sold map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.lines[:0]
	for _, l := range c.lines {
		l.Quantity -= sold[l.ProductID]
		if l.Quantity > 0 {
			kept = append(kept, l)
		}
	}
	c.lines = kept
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []entity.CartLineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]entity.CartLineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is recomputed from the lines on every call.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// CartRegistry hands out one cart per user.
type CartRegistry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewCartRegistry() *CartRegistry {
	return &CartRegistry{carts: make(map[string]*Cart)}
}

// For returns userID's cart, creating it on first use.
func (r *CartRegistry) For(userID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		cart = NewCart()
		r.carts[userID] = cart
	}
	return cart
}
