package cashout

import (
	"testing"
	"time"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
)

func checkSummaryInvariant(t *testing.T, s entity.CashoutSummary) {
	t.Helper()
	if s.TotalSold != s.TotalCash+s.TotalDebit+s.TotalCredit {
		t.Fatalf("totalSold %d != cash %d + debit %d + credit %d", s.TotalSold, s.TotalCash, s.TotalDebit, s.TotalCredit)
	}
	var sum int64
	for _, tx := range s.Transactions {
		sum += tx.Total
	}
	if sum != s.TotalSold {
		t.Fatalf("sum of transactions %d != totalSold %d", sum, s.TotalSold)
	}
	if s.SaleCount != len(s.Transactions) {
		t.Fatalf("saleCount %d != %d transactions", s.SaleCount, len(s.Transactions))
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	checkSummaryInvariant(t, s)
	if s.TotalSold != 0 || s.SaleCount != 0 || s.TotalNonCash != 0 || s.Transactions == nil {
		t.Fatalf("unexpected empty summary: %+v", s)
	}
}

func TestSummarizeUnresolvedPaymentCountsAsCash(t *testing.T) {
	raws := []entity.RawSaleRecord{
		{"medioPago": "EFECTIVO", "total": float64(1000)},
		{"medioPago": "DEBITO", "total": float64(2000)},
		{"medioPago": "GIFT CARD ???", "total": float64(1000)},
	}

	s := Summarize(NormalizeAll(raws, time.UTC))
	checkSummaryInvariant(t, s)

	if s.TotalCash != 2000 || s.TotalDebit != 2000 || s.TotalCredit != 0 {
		t.Fatalf("unexpected buckets: %+v", s)
	}
	if s.TotalSold != 4000 || s.SaleCount != 3 {
		t.Fatalf("unexpected totals: sold %d count %d", s.TotalSold, s.SaleCount)
	}
}

func TestSummarizeBuckets(t *testing.T) {
	txs := []entity.NormalizedTransaction{
		{Total: 1000, PaymentMethod: enum.PaymentCash},
		{Total: 2000, PaymentMethod: enum.PaymentDebit},
		{Total: 4000, PaymentMethod: enum.PaymentCredit},
		{Total: 8000, PaymentMethod: enum.PaymentCredit},
	}

	s := Summarize(txs)
	checkSummaryInvariant(t, s)

	if s.TotalCash != 1000 || s.TotalDebit != 2000 || s.TotalCredit != 12000 || s.TotalNonCash != 14000 {
		t.Fatalf("unexpected buckets: %+v", s)
	}
}

func TestSummarizeCopiesInput(t *testing.T) {
	txs := []entity.NormalizedTransaction{{ID: "1", Total: 10}}
	s := Summarize(txs)
	txs[0].ID = "changed"
	if s.Transactions[0].ID != "1" {
		t.Fatal("summary shares the caller's slice")
	}
}

func TestReconcile(t *testing.T) {
	counts := entity.NewDenominationCount()
	counts[20000] = 3
	counts[10000] = 1
	counts[5000] = 1
	counts[2000] = 2

	summary := entity.CashoutSummary{TotalSold: 42000, TotalCash: 30000, TotalDebit: 12000}
	filter := entity.CashoutFilter{Date: "2024-01-15", SellerID: "3"}

	r := Reconcile(summary, filter, 50000, counts)

	if r.PhysicalCash != 79000 {
		t.Fatalf("physical = %d", r.PhysicalCash)
	}
	if r.ExpectedCash != 80000 || r.Variance != -1000 || r.Status != enum.VarianceShortage {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r.SellerID == nil || *r.SellerID != "3" || r.Date != "2024-01-15" || r.TotalSold != 42000 {
		t.Fatalf("unexpected scope: %+v", r)
	}

	counts[20000] = 0
	if r.Denominations[20000] != 3 {
		t.Fatal("result shares the ledger's map")
	}
}

func TestReconcileClassification(t *testing.T) {
	cases := []struct {
		physical int64
		want     enum.VarianceStatus
	}{
		{50000, enum.VarianceBalanced},
		{50010, enum.VarianceSurplus},
		{49990, enum.VarianceShortage},
	}

	for _, tc := range cases {
		counts := entity.NewDenominationCount()
		counts[10] = int(tc.physical / 10)
		r := Reconcile(entity.CashoutSummary{}, entity.CashoutFilter{}, 50000, counts)
		if r.Status != tc.want || r.Variance != tc.physical-50000 {
			t.Errorf("physical %d: got %v variance %d", tc.physical, r.Status, r.Variance)
		}
		if r.SellerID != nil {
			t.Errorf("store-wide result should have nil seller")
		}
	}
}

func TestSortNewestFirst(t *testing.T) {
	at := func(h int) *time.Time {
		ts := time.Date(2024, 1, 15, h, 0, 0, 0, time.UTC)
		return &ts
	}
	txs := []entity.NormalizedTransaction{
		{ID: "a", Timestamp: at(9)},
		{ID: "none"},
		{ID: "b", Timestamp: at(18)},
		{ID: "c", Timestamp: at(12)},
	}

	SortNewestFirst(txs)

	got := []string{txs[0].ID, txs[1].ID, txs[2].ID, txs[3].ID}
	want := []string{"b", "c", "a", "none"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
