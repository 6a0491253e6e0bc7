// Package money holds the currency helpers shared by every monetary display.
// Amounts are whole currency units; the store's currency has no minor unit.
package money

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// CurrencySymbol is prefixed to every formatted amount.
const CurrencySymbol = "$"

// DefaultTaxRate is the VAT rate applied when none is configured.
var DefaultTaxRate = decimal.RequireFromString("0.19")

// Breakdown is a gross amount split into its net and tax parts.
type Breakdown struct {
	Net   int64 `json:"net"`
	Tax   int64 `json:"tax"`
	Total int64 `json:"total"`
}

// FormatCurrency renders an amount with "." thousands separators, e.g. $20.000.
func FormatCurrency(amount int64) string {
	digits := strings.ReplaceAll(humanize.Comma(amount), ",", ".")
	if abs, negative := strings.CutPrefix(digits, "-"); negative {
		return "-" + CurrencySymbol + abs
	}
	return CurrencySymbol + digits
}

// DecomposeGrossAmount splits a tax-inclusive amount. Net is rounded to the
// nearest unit and tax takes the remainder, so Net+Tax always equals gross.
func DecomposeGrossAmount(gross int64, rate decimal.Decimal) Breakdown {
	if gross <= 0 {
		return Breakdown{}
	}
	divisor := decimal.NewFromInt(1).Add(rate)
	if !divisor.IsPositive() {
		return Breakdown{Net: gross, Total: gross}
	}
	net := decimal.NewFromInt(gross).Div(divisor).Round(0).IntPart()
	return Breakdown{
		Net:   net,
		Tax:   gross - net,
		Total: gross,
	}
}

// ParseRate parses a configured tax rate such as "0.19", falling back to DefaultTaxRate.
func ParseRate(s string) decimal.Decimal {
	rate, err := decimal.NewFromString(s)
	if err != nil || rate.IsNegative() {
		return DefaultTaxRate
	}
	return rate
}
