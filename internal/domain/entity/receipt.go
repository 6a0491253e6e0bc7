package entity

import (
	"time"

	"github.com/sangkips/ventapett-pos/internal/domain/enum"
)

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

// Receipt is the view model derived from an accepted sale.
// It is NOT persisted; the folio is the upstream's reference.
type Receipt struct {
	Header         ReceiptHeader      `json:"header"`
	Folio          string             `json:"folio"`
	IssuedAt       time.Time          `json:"issued_at"`
	Cashier        string             `json:"cashier,omitempty"`
	PaymentMethod  enum.PaymentMethod `json:"payment_method"`
	Items          []ReceiptItem      `json:"items"`
	Net            int64              `json:"net"`
	Tax            int64              `json:"tax"`
	Total          int64              `json:"total"`
	AmountTendered int64              `json:"amount_tendered"`
	Change         int64              `json:"change"`
}
