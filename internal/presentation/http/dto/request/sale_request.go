package request

// AddCartItemRequest adds one unit of a product to the cart
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// CheckoutRequest submits the current cart as a sale
type CheckoutRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"required"`
	AmountTendered int64  `json:"amount_tendered" binding:"gte=0"`
	SellerID       string `json:"seller_id"`
}

// UpdateSaleRequest edits how a registered sale was settled
type UpdateSaleRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"required"`
	AmountTendered int64  `json:"amount_tendered"`
}

// SalesHistoryQuery filters the sales history listing
type SalesHistoryQuery struct {
	Date     string `form:"date"`
	SellerID string `form:"seller_id"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
