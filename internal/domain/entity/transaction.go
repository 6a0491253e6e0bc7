package entity

import (
	"time"

	"github.com/sangkips/ventapett-pos/internal/domain/enum"
)

// RawSaleRecord is a sale as the upstream API returned it. Its shape varies.
type RawSaleRecord = map[string]any

// TransactionItem is a product line of a normalized sale.
type TransactionItem struct {
	ProductID string `json:"product_id,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// NormalizedTransaction is the canonical sale shape. It is derived on every
// fetch and never persisted.
type NormalizedTransaction struct {
	ID            string             `json:"id"`
	Timestamp     *time.Time         `json:"timestamp,omitempty"`
	SellerID      string             `json:"seller_id,omitempty"`
	SellerName    string             `json:"seller_name"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	PaymentLabel  string             `json:"payment_label"`
	Total         int64              `json:"total"`
	Items         []TransactionItem  `json:"items"`
}

// HasTimestamp reports whether the record carried a parseable date.
func (t NormalizedTransaction) HasTimestamp() bool {
	return t.Timestamp != nil
}
