package cashout

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
)

var santiago = time.FixedZone("CLT", -3*3600)

func TestNormalizeFullRecord(t *testing.T) {
	raw := entity.RawSaleRecord{
		"folio":     "B-101",
		"id":        float64(9),
		"fecha":     "2024-01-15T14:05:00.000Z",
		"vendedor":  map[string]any{"id": float64(3), "nombre": "Ana Pérez"},
		"medioPago": "Débito",
		"total":     float64(19000),
		"items": []any{
			map[string]any{"nombre": "Collar", "cantidad": float64(2), "productoId": float64(11)},
		},
	}

	tx := Normalize(raw, santiago)

	if tx.ID != "B-101" {
		t.Errorf("ID = %q", tx.ID)
	}
	if tx.Timestamp == nil || !tx.Timestamp.Equal(time.Date(2024, 1, 15, 14, 5, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %v", tx.Timestamp)
	}
	if tx.SellerID != "3" || tx.SellerName != "Ana Pérez" {
		t.Errorf("seller = %q/%q", tx.SellerID, tx.SellerName)
	}
	if tx.PaymentMethod != enum.PaymentDebit || tx.PaymentLabel != "DÉBITO" {
		t.Errorf("payment = %v/%q", tx.PaymentMethod, tx.PaymentLabel)
	}
	if tx.Total != 19000 {
		t.Errorf("Total = %d", tx.Total)
	}
	want := []entity.TransactionItem{{ProductID: "11", Name: "Collar", Quantity: 2}}
	if !reflect.DeepEqual(tx.Items, want) {
		t.Errorf("Items = %+v", tx.Items)
	}
}

func TestNormalizeFieldFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		raw   entity.RawSaleRecord
		check func(t *testing.T, tx entity.NormalizedTransaction)
	}{
		{
			name: "empty record",
			raw:  entity.RawSaleRecord{},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				if tx.ID != MissingID || tx.Timestamp != nil || tx.SellerName != UnknownSellerName || tx.SellerID != "" {
					t.Fatalf("unexpected defaults: %+v", tx)
				}
				if tx.PaymentMethod != enum.PaymentCash || tx.PaymentLabel != "EFECTIVO" || tx.Total != 0 {
					t.Fatalf("unexpected payment defaults: %+v", tx)
				}
				if tx.Items == nil || len(tx.Items) != 0 {
					t.Fatalf("expected empty non-nil items, got %#v", tx.Items)
				}
			},
		},
		{
			name: "negative total",
			raw:  entity.RawSaleRecord{"medioPago": "EFECTIVO", "total": "-5000"},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				if tx.Total != 0 {
					t.Fatalf("total = %d, want 0", tx.Total)
				}
			},
		},
		{
			name: "summary sub-object",
			raw: entity.RawSaleRecord{
				"_id":     "abc",
				"resumen": map[string]any{"medioPago": "CREDITO", "total": float64(4500)},
			},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				if tx.ID != "abc" || tx.PaymentMethod != enum.PaymentCredit || tx.Total != 4500 {
					t.Fatalf("unexpected: %+v", tx)
				}
			},
		},
		{
			name: "explicit fields win over summary",
			raw: entity.RawSaleRecord{
				"medioPago": "EFECTIVO",
				"total":     float64(1000),
				"resumen":   map[string]any{"medioPago": "CREDITO", "total": float64(4500)},
			},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				if tx.PaymentMethod != enum.PaymentCash || tx.Total != 1000 {
					t.Fatalf("unexpected: %+v", tx)
				}
			},
		},
		{
			name: "bare string seller with top-level id",
			raw:  entity.RawSaleRecord{"vendedor": "Mariana", "vendedorId": float64(8)},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				if tx.SellerName != "Mariana" || tx.SellerID != "8" {
					t.Fatalf("unexpected seller: %q/%q", tx.SellerID, tx.SellerName)
				}
			},
		},
		{
			name: "seller object without name or id",
			raw:  entity.RawSaleRecord{"vendedor": map[string]any{}, "userId": "12"},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				if tx.SellerName != UnnamedSellerName || tx.SellerID != "12" {
					t.Fatalf("unexpected seller: %q/%q", tx.SellerID, tx.SellerName)
				}
			},
		},
		{
			name: "user object",
			raw:  entity.RawSaleRecord{"usuario": map[string]any{"id": float64(4), "name": "Luis"}},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				if tx.SellerName != "Luis" || tx.SellerID != "4" {
					t.Fatalf("unexpected seller: %q/%q", tx.SellerID, tx.SellerName)
				}
			},
		},
		{
			name: "alternate item list with nested products",
			raw: entity.RawSaleRecord{
				"items": []any{},
				"detalles": []any{
					map[string]any{"producto": map[string]any{"id": float64(5), "nombre": "Arena"}},
					map[string]any{"cantidad": float64(0)},
					"Snack",
				},
			},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				want := []entity.TransactionItem{
					{ProductID: "5", Name: "Arena", Quantity: 1},
					{Name: UnknownProductName, Quantity: 1},
					{Name: "Snack", Quantity: 1},
				}
				if !reflect.DeepEqual(tx.Items, want) {
					t.Fatalf("Items = %+v", tx.Items)
				}
			},
		},
		{
			name: "malformed values degrade",
			raw: entity.RawSaleRecord{
				"fecha":     "yesterday",
				"total":     "lots",
				"items":     "none",
				"medioPago": float64(3),
			},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				if tx.Timestamp != nil || tx.Total != 0 || len(tx.Items) != 0 || tx.PaymentMethod != enum.PaymentCash {
					t.Fatalf("unexpected: %+v", tx)
				}
			},
		},
		{
			name: "string and json.Number totals",
			raw:  entity.RawSaleRecord{"total": json.Number("2500"), "createdAt": "2024-01-15 10:00:00"},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				if tx.Total != 2500 {
					t.Fatalf("Total = %d", tx.Total)
				}
				if tx.Timestamp == nil || LocalDate(*tx.Timestamp, santiago) != "2024-01-15" || tx.Timestamp.Hour() != 10 {
					t.Fatalf("Timestamp = %v", tx.Timestamp)
				}
			},
		},
		{
			name: "epoch milliseconds",
			raw:  entity.RawSaleRecord{"created_at": float64(1705329000000)},
			check: func(t *testing.T, tx entity.NormalizedTransaction) {
				if tx.Timestamp == nil || !tx.Timestamp.Equal(time.UnixMilli(1705329000000)) {
					t.Fatalf("Timestamp = %v", tx.Timestamp)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, Normalize(tc.raw, santiago))
		})
	}
}

func TestNormalizeIsPure(t *testing.T) {
	raw := entity.RawSaleRecord{
		"id":       float64(1),
		"fecha":    "2024-01-15T10:00:00Z",
		"vendedor": "Ana",
		"total":    float64(1000),
		"items":    []any{map[string]any{"nombre": "A", "cantidad": float64(1)}},
	}

	first := Normalize(raw, santiago)
	second := Normalize(raw, santiago)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalizing twice differed:\n%+v\n%+v", first, second)
	}
}

func TestNormalizeAllKeepsEveryRecord(t *testing.T) {
	raws := []entity.RawSaleRecord{
		nil,
		{},
		{"total": "x", "items": 42},
		{"vendedor": []any{"odd"}, "fecha": map[string]any{}},
		{"id": float64(4), "total": float64(100)},
	}

	got := NormalizeAll(raws, santiago)
	if len(got) != len(raws) {
		t.Fatalf("got %d transactions for %d records", len(got), len(raws))
	}
	for i, tx := range got {
		if tx.ID == "" || tx.SellerName == "" || tx.Items == nil {
			t.Errorf("record %d not fully defaulted: %+v", i, tx)
		}
		if tx.PaymentLabel == "" {
			t.Errorf("record %d has no payment label", i)
		}
	}
}
