package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PaymentMethod is how a sale was settled.
type PaymentMethod int

const (
	PaymentCash   PaymentMethod = 0
	PaymentDebit  PaymentMethod = 1
	PaymentCredit PaymentMethod = 2
)

var paymentNames = [...]string{"CASH", "DEBIT", "CREDIT"}

// Labels the upstream API uses on the wire.
var paymentWireLabels = [...]string{"EFECTIVO", "DEBITO", "CREDITO"}

func (p PaymentMethod) String() string {
	if p < PaymentCash || p > PaymentCredit {
		return paymentNames[PaymentCash]
	}
	return paymentNames[p]
}

// WireLabel is the upstream spelling, e.g. EFECTIVO.
func (p PaymentMethod) WireLabel() string {
	if p < PaymentCash || p > PaymentCredit {
		return paymentWireLabels[PaymentCash]
	}
	return paymentWireLabels[p]
}

func (p PaymentMethod) IsCash() bool {
	return p == PaymentCash
}

// ParsePaymentMethod accepts either spelling, any case, with or without
// accents. ok is false when the label is not recognised.
func ParsePaymentMethod(label string) (PaymentMethod, bool) {
	switch foldLabel(label) {
	case "CASH", "EFECTIVO":
		return PaymentCash, true
	case "DEBIT", "DEBITO":
		return PaymentDebit, true
	case "CREDIT", "CREDITO":
		return PaymentCredit, true
	}
	return PaymentCash, false
}

// ResolvePaymentMethod is ParsePaymentMethod with unrecognised labels
// settled as cash.
func ResolvePaymentMethod(label string) PaymentMethod {
	p, _ := ParsePaymentMethod(label)
	return p
}

func foldLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PaymentMethod(i)
		return nil
	}
	*p = ResolvePaymentMethod(str)
	return nil
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *PaymentMethod) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*p = ResolvePaymentMethod(v)
	case []byte:
		*p = ResolvePaymentMethod(string(v))
	case int64:
		*p = PaymentMethod(v)
	default:
		*p = PaymentCash
	}
	return nil
}
