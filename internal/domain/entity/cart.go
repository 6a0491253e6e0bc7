package entity

// CartLineItem is one product line in a cart. Quantity is always >= 1.
type CartLineItem struct {
	ProductID string `json:"id"`
	Name      string `json:"nombre"`
	Price     int64  `json:"precio"`
	Quantity  int    `json:"cantidad"`
}

// Subtotal is price times quantity.
func (l CartLineItem) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}
