package entity

import "github.com/sangkips/ventapett-pos/internal/domain/enum"

// SaleItem is one product line of a sale submission.
type SaleItem struct {
	ProductID string
	Quantity  int
}

// SaleRequest is what gets sent upstream to register a sale.
type SaleRequest struct {
	Items          []SaleItem
	PaymentMethod  enum.PaymentMethod
	AmountTendered int64
	SellerID       string
}

// SalePatch edits the settlement of an existing sale.
type SalePatch struct {
	PaymentMethod  enum.PaymentMethod
	AmountTendered int64
}

// HistoryQuery narrows the admin sales history fetch.
type HistoryQuery struct {
	Date     string
	SellerID string
}
