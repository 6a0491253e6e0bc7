package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sangkips/ventapett-pos/internal/config"
	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/logger"
)

type staticTokens string

func (s staticTokens) AccessToken(context.Context) (string, error) { return string(s), nil }

type failingTokens struct{}

func (failingTokens) AccessToken(context.Context) (string, error) {
	return "", errors.New("store offline")
}

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.UpstreamConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}, tokens, nil, logger.Discard())
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	b, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("decode body %s: %v", b, err)
	}
	return m
}

func TestCreateSaleSendsBearerAndWirePayload(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ventas" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotBody = decodeBody(t, r)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"folio":"B-77","total":20000}}`))
	}, staticTokens("upstream-token"))

	resp, err := c.CreateSale(context.Background(), entity.SaleRequest{
		Items:          []entity.SaleItem{{ProductID: "11", Quantity: 2}, {ProductID: "sku-x", Quantity: 1}},
		PaymentMethod:  enum.PaymentDebit,
		AmountTendered: 20000,
		SellerID:       "3",
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if gotAuth != "Bearer upstream-token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotBody["medioPago"] != "DEBITO" || gotBody["montoEntregado"] != float64(20000) || gotBody["vendedorId"] != float64(3) {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
	items := gotBody["items"].([]any)
	first := items[0].(map[string]any)
	second := items[1].(map[string]any)
	if first["productoId"] != float64(11) || first["cantidad"] != float64(2) || second["productoId"] != "sku-x" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if resp["folio"] != "B-77" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestRequestWithoutTokenIsUnauthenticated(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}, staticTokens(""))

	if _, err := c.OwnSales(context.Background()); err != nil {
		t.Fatalf("OwnSales: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestTokenSourceErrorStopsRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, failingTokens{})

	if _, err := c.OwnSales(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Fatal("request should not be sent")
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantMsg  string
	}{
		{"structured message", 400, `{"message":"Stock insuficiente"}`, 400, "Stock insuficiente"},
		{"message list", 422, `{"message":["precio must be positive","nombre is required"]}`, 422, "precio must be positive; nombre is required"},
		{"error field", 401, `{"error":"Unauthorized"}`, 401, "Unauthorized"},
		{"no message", 404, `not json`, 404, ""},
		{"server error", 500, `{"message":"db down"}`, 502, "db down"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}, nil)

			err := c.VoidSale(context.Background(), "9")
			appErr := apperror.GetAppError(err)
			if appErr.Code != tc.wantCode || appErr.Message != tc.wantMsg {
				t.Fatalf("got %d %q, want %d %q", appErr.Code, appErr.Message, tc.wantCode, tc.wantMsg)
			}
		})
	}
}

func TestTransportFailureIsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(config.UpstreamConfig{BaseURL: url, Timeout: time.Second}, nil, nil, logger.Discard())
	_, err := c.AdminHistory(context.Background(), entity.HistoryQuery{})
	if !errors.Is(err, apperror.ErrConnection) {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestAdminHistoryQueryAndEnvelopes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, 2},
		{"ventas envelope", `{"ventas":[{"id":1}]}`, 1},
		{"transactions envelope", `{"transactions":[{"id":1},{"id":2},{"id":3}]}`, 3},
		{"nested summary", `{"resumen":{"transactions":[{"id":1}]}}`, 1},
		{"data wrapping ventas", `{"data":{"ventas":[{"id":1},{"id":2}]}}`, 2},
		{"non-object entries kept", `[{"id":1}, 5, null]`, 3},
		{"unknown shape", `{"ok":true}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/ventas/historial-admin" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if r.URL.Query().Get("fecha") != "2024-01-15" || r.URL.Query().Get("vendedorId") != "" {
					t.Errorf("query = %s", r.URL.RawQuery)
				}
				w.Write([]byte(tc.body))
			}, nil)

			recs, err := c.AdminHistory(context.Background(), entity.HistoryQuery{Date: "2024-01-15"})
			if err != nil {
				t.Fatalf("AdminHistory: %v", err)
			}
			if len(recs) != tc.want {
				t.Fatalf("got %d records, want %d", len(recs), tc.want)
			}
		})
	}
}

func TestRecordsKeepNumbersExact(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"total":19000}]`))
	}, nil)

	recs, err := c.OwnSales(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n, ok := recs[0]["total"].(json.Number); !ok || n.String() != "19000" {
		t.Fatalf("total decoded as %T %v", recs[0]["total"], recs[0]["total"])
	}
}

func TestCloseDailyBoxPayload(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ventas/cierre-caja" {
			t.Errorf("path = %s", r.URL.Path)
		}
		got = decodeBody(t, r)
		w.WriteHeader(http.StatusCreated)
	}, nil)

	seller := "3"
	err := c.CloseDailyBox(context.Background(), entity.ReconciliationResult{
		Date:          "2024-01-15",
		SellerID:      &seller,
		BaseCashFloat: 50000,
		ExpectedCash:  80000,
		PhysicalCash:  79000,
		Variance:      -1000,
		TotalSold:     42000,
		Denominations: entity.DenominationCount{20000: 3, 10000: 1},
	})
	if err != nil {
		t.Fatalf("CloseDailyBox: %v", err)
	}

	if got["fecha"] != "2024-01-15" || got["vendedorId"] != float64(3) || got["diferencia"] != float64(-1000) ||
		got["efectivoFisico"] != float64(79000) || got["efectivoEsperado"] != float64(80000) || got["baseCaja"] != float64(50000) ||
		got["totalVendido"] != float64(42000) {
		t.Fatalf("unexpected payload: %+v", got)
	}
	breakdown := got["detallesDinero"].(map[string]any)
	if breakdown["20000"] != float64(3) || breakdown["10000"] != float64(1) {
		t.Fatalf("breakdown = %+v", breakdown)
	}
}

func TestCloseDailyBoxStoreWideSendsNullSeller(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
	}, nil)

	if err := c.CloseDailyBox(context.Background(), entity.ReconciliationResult{Date: "2024-01-15"}); err != nil {
		t.Fatal(err)
	}
	if v, ok := got["vendedorId"]; !ok || v != nil {
		t.Fatalf("vendedorId = %v (present %v)", v, ok)
	}
}

func TestListProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":1,"nombre":"Collar","precio":5000,"stock":4,"categoria":{"id":2,"nombre":"Accesorios"}},
			{"id":2,"nombre":"Arena","precio":"3990","stock":0,"categoriaId":5}
		]`))
	}, nil)

	products, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products", len(products))
	}
	if p := products[0]; p.ID != "1" || p.Price != 5000 || p.Stock != 4 || p.CategoryID != "2" || p.CategoryName != "Accesorios" {
		t.Fatalf("product 0 = %+v", p)
	}
	if p := products[1]; p.Price != 3990 || p.InStock() || p.CategoryID != "5" {
		t.Fatalf("product 1 = %+v", p)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["rut"] != "11.111.111-1" || body["password"] != "secret" {
			t.Errorf("credentials = %+v", body)
		}
		w.Write([]byte(`{"access_token":"abc","rol":"vendedor","rut":"11.111.111-1","id":7,"name":"Ana"}`))
	}, nil)

	res, err := c.Login(context.Background(), "11.111.111-1", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken != "abc" || res.Profile.UserID != "7" || res.Profile.Role != "vendedor" || res.Profile.Name != "Ana" {
		t.Fatalf("result = %+v", res)
	}
}

func TestLoginWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7}`))
	}, nil)

	if _, err := c.Login(context.Background(), "r", "p"); err == nil {
		t.Fatal("expected an error when no token is returned")
	}
}
