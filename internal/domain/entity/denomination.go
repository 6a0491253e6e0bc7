package entity

import "github.com/sangkips/ventapett-pos/pkg/money"

// Denomination is a note or coin face value.
type Denomination struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

// Denominations is the fixed catalog, largest first.
var Denominations = []Denomination{
	denomination(20000),
	denomination(10000),
	denomination(5000),
	denomination(2000),
	denomination(1000),
	denomination(500),
	denomination(100),
	denomination(50),
	denomination(10),
}

func denomination(v int64) Denomination {
	return Denomination{Value: v, Label: money.FormatCurrency(v)}
}

// IsDenomination reports whether value is in the catalog.
func IsDenomination(value int64) bool {
	for _, d := range Denominations {
		if d.Value == value {
			return true
		}
	}
	return false
}

// DenominationCount maps a face value to the number of pieces counted.
type DenominationCount map[int64]int

// NewDenominationCount returns a zeroed count for every denomination.
func NewDenominationCount() DenominationCount {
	counts := make(DenominationCount, len(Denominations))
	for _, d := range Denominations {
		counts[d.Value] = 0
	}
	return counts
}

// Total is the cash value of the counted pieces.
func (c DenominationCount) Total() int64 {
	var total int64
	for _, d := range Denominations {
		total += int64(c[d.Value]) * d.Value
	}
	return total
}

// Clone copies the counts so callers cannot mutate the source.
func (c DenominationCount) Clone() DenominationCount {
	out := make(DenominationCount, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// DenominationLine is one row of the count sheet.
type DenominationLine struct {
	Denomination
	Count    int   `json:"count"`
	Subtotal int64 `json:"subtotal"`
}

// Lines lists every denomination with its count, in catalog order.
func (c DenominationCount) Lines() []DenominationLine {
	lines := make([]DenominationLine, 0, len(Denominations))
	for _, d := range Denominations {
		n := c[d.Value]
		lines = append(lines, DenominationLine{Denomination: d, Count: n, Subtotal: int64(n) * d.Value})
	}
	return lines
}
