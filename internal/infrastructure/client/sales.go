package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
)

const (
	salesPath        = "/ventas"
	ownSalesPath     = "/ventas/mis-ventas"
	adminHistoryPath = "/ventas/historial-admin"
	closeBoxPath     = "/ventas/cierre-caja"
)

type saleItemWire struct {
	ProductID any `json:"productoId"`
	Quantity  int `json:"cantidad"`
}

type saleWire struct {
	Items          []saleItemWire `json:"items"`
	PaymentMethod  string         `json:"medioPago"`
	AmountTendered int64          `json:"montoEntregado"`
	SellerID       any            `json:"vendedorId,omitempty"`
}

type salePatchWire struct {
	PaymentMethod  string `json:"medioPago"`
	AmountTendered int64  `json:"montoEntregado"`
}

type closeBoxWire struct {
	Date          string         `json:"fecha"`
	SellerID      any            `json:"vendedorId"`
	PhysicalCash  int64          `json:"efectivoFisico"`
	ExpectedCash  int64          `json:"efectivoEsperado"`
	Variance      int64          `json:"diferencia"`
	BaseCashFloat int64          `json:"baseCaja"`
	TotalSold     int64          `json:"totalVendido"`
	Breakdown     map[string]int `json:"detallesDinero"`
}

func (c *Client) CreateSale(ctx context.Context, sale entity.SaleRequest) (map[string]any, error) {
	payload := saleWire{
		Items:          make([]saleItemWire, 0, len(sale.Items)),
		PaymentMethod:  sale.PaymentMethod.WireLabel(),
		AmountTendered: sale.AmountTendered,
		SellerID:       idValue(sale.SellerID),
	}
	for _, it := range sale.Items {
		payload.Items = append(payload.Items, saleItemWire{ProductID: idValue(it.ProductID), Quantity: it.Quantity})
	}

	var body any
	if err := c.do(ctx, "sales.create", http.MethodPost, salesPath, nil, payload, &body); err != nil {
		return nil, err
	}
	return object(body), nil
}

func (c *Client) OwnSales(ctx context.Context) ([]entity.RawSaleRecord, error) {
	var body any
	if err := c.do(ctx, "sales.own", http.MethodGet, ownSalesPath, nil, nil, &body); err != nil {
		return nil, err
	}
	return records(body), nil
}

func (c *Client) AdminHistory(ctx context.Context, query entity.HistoryQuery) ([]entity.RawSaleRecord, error) {
	params := url.Values{}
	if query.Date != "" {
		params.Set("fecha", query.Date)
	}
	if query.SellerID != "" {
		params.Set("vendedorId", query.SellerID)
	}

	var body any
	if err := c.do(ctx, "sales.history", http.MethodGet, adminHistoryPath, params, nil, &body); err != nil {
		return nil, err
	}
	return records(body), nil
}

func (c *Client) UpdateSale(ctx context.Context, id string, patch entity.SalePatch) error {
	path, err := resourcePath(salesPath, id)
	if err != nil {
		return apperror.NewBadRequestError("Sale id is required")
	}
	payload := salePatchWire{PaymentMethod: patch.PaymentMethod.WireLabel(), AmountTendered: patch.AmountTendered}
	return c.do(ctx, "sales.update", http.MethodPatch, path, nil, payload, nil)
}

func (c *Client) VoidSale(ctx context.Context, id string) error {
	path, err := resourcePath(salesPath, id)
	if err != nil {
		return apperror.NewBadRequestError("Sale id is required")
	}
	return c.do(ctx, "sales.void", http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) CloseDailyBox(ctx context.Context, result entity.ReconciliationResult) error {
	breakdown := make(map[string]int, len(result.Denominations))
	for value, count := range result.Denominations {
		breakdown[strconv.FormatInt(value, 10)] = count
	}

	var sellerID any
	if result.SellerID != nil {
		sellerID = idValue(*result.SellerID)
	}

	payload := closeBoxWire{
		Date:          result.Date,
		SellerID:      sellerID,
		PhysicalCash:  result.PhysicalCash,
		ExpectedCash:  result.ExpectedCash,
		Variance:      result.Variance,
		BaseCashFloat: result.BaseCashFloat,
		TotalSold:     result.TotalSold,
		Breakdown:     breakdown,
	}
	return c.do(ctx, "sales.close_box", http.MethodPost, closeBoxPath, nil, payload, nil)
}
