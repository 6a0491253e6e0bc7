package cashout

import (
	"strings"
	"time"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

// DateLayout is the calendar date format used by filters.
const DateLayout = "2006-01-02"

// LocalDate is the calendar date of t as seen in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// ValidDate reports whether s is a YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// FilterByDate keeps transactions whose local date equals date. An empty
// date keeps everything; undated transactions only survive that case.
func FilterByDate(txs []entity.NormalizedTransaction, date string, loc *time.Location) []entity.NormalizedTransaction {
	out := make([]entity.NormalizedTransaction, 0, len(txs))
	for _, tx := range txs {
		if date == "" {
			out = append(out, tx)
			continue
		}
		if tx.Timestamp == nil {
			continue
		}
		if LocalDate(*tx.Timestamp, loc) == date {
			out = append(out, tx)
		}
	}
	return out
}

// FilterBySeller keeps the selected seller's transactions. An empty sellerID
// is store-wide and keeps everything.
func FilterBySeller(txs []entity.NormalizedTransaction, sellerID, sellerName string) []entity.NormalizedTransaction {
	out := make([]entity.NormalizedTransaction, 0, len(txs))
	for _, tx := range txs {
		if sellerID == "" || MatchesSeller(tx, sellerID, sellerName) {
			out = append(out, tx)
		}
	}
	return out
}

// MatchesSeller matches on id when the transaction has one. Otherwise the
// names are compared case-insensitively and either may contain the other,
// which tolerates truncated names but lets "Ana" match "Mariana".
func MatchesSeller(tx entity.NormalizedTransaction, sellerID, sellerName string) bool {
	if tx.SellerID != "" {
		return utils.SameID(tx.SellerID, sellerID)
	}

	if tx.SellerName == UnknownSellerName || tx.SellerName == UnnamedSellerName {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(tx.SellerName))
	b := strings.ToLower(strings.TrimSpace(sellerName))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Apply runs the date and seller filters in order.
func Apply(txs []entity.NormalizedTransaction, filter entity.CashoutFilter, loc *time.Location) []entity.NormalizedTransaction {
	byDate := FilterByDate(txs, filter.Date, loc)
	return FilterBySeller(byDate, filter.SellerID, filter.SellerName)
}
