package entity

import "github.com/sangkips/ventapett-pos/internal/domain/enum"

// CashoutFilter scopes a cashout. An empty Date means all dates and an
// empty SellerID means store-wide.
type CashoutFilter struct {
	Date       string `json:"date"`
	SellerID   string `json:"seller_id,omitempty"`
	SellerName string `json:"seller_name,omitempty"`
}

// StoreWide reports whether no seller is selected.
func (f CashoutFilter) StoreWide() bool {
	return f.SellerID == ""
}

// CashoutSummary aggregates a filtered set of transactions.
// TotalSold == TotalCash + TotalDebit + TotalCredit.
type CashoutSummary struct {
	TotalSold    int64                   `json:"total_sold"`
	SaleCount    int                     `json:"sale_count"`
	TotalCash    int64                   `json:"total_cash"`
	TotalDebit   int64                   `json:"total_debit"`
	TotalCredit  int64                   `json:"total_credit"`
	TotalNonCash int64                   `json:"total_non_cash"`
	Transactions []NormalizedTransaction `json:"transactions"`
}

// ReconciliationResult is the outcome of counting the drawer.
type ReconciliationResult struct {
	Date          string              `json:"date"`
	SellerID      *string             `json:"seller_id"`
	BaseCashFloat int64               `json:"base_cash_float"`
	ExpectedCash  int64               `json:"expected_cash"`
	PhysicalCash  int64               `json:"physical_cash"`
	Variance      int64               `json:"variance"`
	Status        enum.VarianceStatus `json:"status"`
	TotalSold     int64               `json:"total_sold"`
	Denominations DenominationCount   `json:"denominations"`
}
