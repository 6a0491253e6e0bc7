package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "$0"},
		{10, "$10"},
		{500, "$500"},
		{1000, "$1.000"},
		{20000, "$20.000"},
		{1234567, "$1.234.567"},
		{-1000, "-$1.000"},
		{math.MaxInt64, "$9.223.372.036.854.775.807"},
		{math.MinInt64, "-$9.223.372.036.854.775.808"},
	}

	for _, tc := range cases {
		if got := FormatCurrency(tc.amount); got != tc.want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestDecomposeGrossAmount(t *testing.T) {
	got := DecomposeGrossAmount(19000, DefaultTaxRate)
	if got.Net != 15966 || got.Tax != 3034 || got.Total != 19000 {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

func TestDecomposeGrossAmountNonPositive(t *testing.T) {
	for _, gross := range []int64{0, -1, -19000} {
		if got := DecomposeGrossAmount(gross, DefaultTaxRate); got != (Breakdown{}) {
			t.Fatalf("gross %d: expected zero breakdown, got %+v", gross, got)
		}
	}
}

func TestDecomposeGrossAmountNoDrift(t *testing.T) {
	rates := []decimal.Decimal{
		DefaultTaxRate,
		decimal.RequireFromString("0.16"),
		decimal.RequireFromString("0.075"),
		decimal.Zero,
	}

	for _, rate := range rates {
		for gross := int64(0); gross <= 5000; gross += 7 {
			b := DecomposeGrossAmount(gross, rate)
			if b.Net+b.Tax != gross {
				t.Fatalf("rate %s gross %d: net %d + tax %d != gross", rate, gross, b.Net, b.Tax)
			}
			if gross > 0 && b.Total != gross {
				t.Fatalf("rate %s gross %d: total %d", rate, gross, b.Total)
			}
		}
	}
}

func TestParseRate(t *testing.T) {
	if !ParseRate("0.16").Equal(decimal.RequireFromString("0.16")) {
		t.Fatal("expected parsed rate 0.16")
	}
	if !ParseRate("bogus").Equal(DefaultTaxRate) {
		t.Fatal("expected default rate for invalid input")
	}
	if !ParseRate("-0.1").Equal(DefaultTaxRate) {
		t.Fatal("expected default rate for negative input")
	}
}
