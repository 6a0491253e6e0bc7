package cashout

import (
	"sort"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
)

// Summarize totals the transactions. Every sale lands in exactly one of the
// cash, debit or credit buckets; TotalNonCash additionally sums everything
// that is not cash.
func Summarize(txs []entity.NormalizedTransaction) entity.CashoutSummary {
	s := entity.CashoutSummary{
		SaleCount:    len(txs),
		Transactions: make([]entity.NormalizedTransaction, len(txs)),
	}
	copy(s.Transactions, txs)

	for _, tx := range txs {
		s.TotalSold += tx.Total
		switch tx.PaymentMethod {
		case enum.PaymentDebit:
			s.TotalDebit += tx.Total
		case enum.PaymentCredit:
			s.TotalCredit += tx.Total
		default:
			s.TotalCash += tx.Total
		}
		if !tx.PaymentMethod.IsCash() {
			s.TotalNonCash += tx.Total
		}
	}
	return s
}

// Reconcile compares the counted drawer with the base float plus cash sales.
func Reconcile(summary entity.CashoutSummary, filter entity.CashoutFilter, baseFloat int64, counts entity.DenominationCount) entity.ReconciliationResult {
	if counts == nil {
		counts = entity.NewDenominationCount()
	}

	expected := baseFloat + summary.TotalCash
	physical := counts.Total()
	variance := physical - expected

	var sellerID *string
	if !filter.StoreWide() {
		id := filter.SellerID
		sellerID = &id
	}

	return entity.ReconciliationResult{
		Date:          filter.Date,
		SellerID:      sellerID,
		BaseCashFloat: baseFloat,
		ExpectedCash:  expected,
		PhysicalCash:  physical,
		Variance:      variance,
		Status:        enum.ClassifyVariance(variance),
		TotalSold:     summary.TotalSold,
		Denominations: counts.Clone(),
	}
}

// SortNewestFirst orders by timestamp descending; undated sales go last.
func SortNewestFirst(txs []entity.NormalizedTransaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i].Timestamp, txs[j].Timestamp
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
