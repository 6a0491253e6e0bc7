// Package cashout holds the pure reconciliation pipeline: normalizing
// upstream sale records, filtering them by local date and seller, summing
// them per payment method and reconciling the drawer count.
package cashout

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

// Placeholders used when a record lacks the field.
const (
	MissingID          = "N/A"
	UnknownSellerName  = "N/A"
	UnnamedSellerName  = "Vendedor"
	UnknownProductName = "Producto"
)

var (
	idKeys        = []string{"folio", "id", "_id"}
	timestampKeys = []string{"fecha", "createdAt", "created_at", "fechaVenta", "date", "timestamp"}
	sellerIDKeys  = []string{"vendedorId", "userId", "usuarioId", "sellerId"}
	paymentKeys   = []string{"medioPago", "metodoPago", "paymentMethod"}
	itemListKeys  = []string{"items", "detalles", "productos"}
)

// Zoned layouts first; the rest are read in the caller's location.
var (
	zonedLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05Z07:00"}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// Normalize maps one raw record to the canonical shape. It never fails:
// missing or malformed fields fall back to their placeholders. loc is used
// for timestamps that carry no zone.
func Normalize(raw entity.RawSaleRecord, loc *time.Location) entity.NormalizedTransaction {
	if loc == nil {
		loc = time.Local
	}

	tx := entity.NormalizedTransaction{
		ID:    utils.StringField(raw, idKeys...),
		Items: []entity.TransactionItem{},
	}
	if tx.ID == "" {
		tx.ID = MissingID
	}

	if v, ok := utils.First(raw, timestampKeys...); ok {
		if ts, ok := parseTimestamp(v, loc); ok {
			tx.Timestamp = &ts
		}
	}

	tx.SellerID, tx.SellerName = resolveSeller(raw)

	summary, _ := utils.AsMap(raw["resumen"])

	label := utils.StringField(raw, paymentKeys...)
	if label == "" {
		label = utils.StringField(summary, "medioPago", "metodoPago")
	}
	tx.PaymentMethod = enum.ResolvePaymentMethod(label)
	if label == "" {
		label = tx.PaymentMethod.WireLabel()
	}
	tx.PaymentLabel = strings.ToUpper(label)

	if total, ok := utils.IntField(raw, "total"); ok {
		tx.Total = total
	} else if total, ok := utils.IntField(summary, "total"); ok {
		tx.Total = total
	}
	if tx.Total < 0 {
		tx.Total = 0
	}

	tx.Items = resolveItems(raw)
	return tx
}

// NormalizeAll normalizes a batch; the output has exactly one entry per input.
func NormalizeAll(raws []entity.RawSaleRecord, loc *time.Location) []entity.NormalizedTransaction {
	out := make([]entity.NormalizedTransaction, len(raws))
	for i, raw := range raws {
		out[i] = Normalize(raw, loc)
	}
	return out
}

func resolveSeller(raw entity.RawSaleRecord) (id, name string) {
	switch v := raw["vendedor"].(type) {
	case map[string]any:
		id = utils.StringField(v, "id", "_id")
		name = utils.StringField(v, "nombre", "name")
		if name == "" {
			name = UnnamedSellerName
		}
	case string:
		name = strings.TrimSpace(v)
	}

	if name == "" {
		if u, ok := utils.AsMap(raw["usuario"]); ok {
			id = utils.StringField(u, "id", "_id")
			name = utils.StringField(u, "nombre", "name")
		}
	}

	if id == "" {
		id = utils.StringField(raw, sellerIDKeys...)
	}
	if name == "" {
		name = UnknownSellerName
	}
	return id, name
}

func resolveItems(raw entity.RawSaleRecord) []entity.TransactionItem {
	var list []any
	for _, k := range itemListKeys {
		if l, ok := utils.AsSlice(raw[k]); ok && len(l) > 0 {
			list = l
			break
		}
	}

	items := make([]entity.TransactionItem, 0, len(list))
	for _, el := range list {
		item := entity.TransactionItem{Name: UnknownProductName, Quantity: 1}

		switch v := el.(type) {
		case map[string]any:
			product, _ := utils.AsMap(v["producto"])
			if name := utils.StringField(v, "nombre", "name"); name != "" {
				item.Name = name
			} else if name := utils.StringField(product, "nombre", "name"); name != "" {
				item.Name = name
			}
			if qty, ok := utils.IntField(v, "cantidad", "quantity"); ok && qty > 0 {
				item.Quantity = int(qty)
			}
			item.ProductID = utils.StringField(v, "productoId", "productId")
			if item.ProductID == "" {
				item.ProductID = utils.StringField(product, "id", "_id")
			}
		case string:
			if s := strings.TrimSpace(v); s != "" {
				item.Name = s
			}
		}

		items = append(items, item)
	}
	return items
}

func parseTimestamp(v any, loc *time.Location) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range zonedLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
		for _, layout := range localLayouts {
			if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
				return ts, true
			}
		}
	case json.Number, float64, int64, int:
		n, ok := utils.AsInt64(t)
		if !ok || n <= 0 {
			return time.Time{}, false
		}
		// Values this large are epoch milliseconds.
		if n > 100_000_000_000 {
			return time.UnixMilli(n).In(loc), true
		}
		return time.Unix(n, 0).In(loc), true
	}
	return time.Time{}, false
}
