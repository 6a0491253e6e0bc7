package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/xuri/excelize/v2"
)

const daySales = `{"ventas":[
	{"id":1,"fecha":"2024-01-15T10:00:00Z","total":10000,"medioPago":"EFECTIVO","vendedorId":7,"vendedor":"Ana"},
	{"id":2,"fecha":"2024-01-15T11:30:00Z","total":5000,"medioPago":"DEBITO","vendedorId":8,"vendedor":"Mariana"},
	{"id":3,"fecha":"2024-01-16T09:00:00Z","total":3000,"medioPago":"EFECTIVO","vendedorId":7,"vendedor":"Ana"}
]}`

type session struct {
	statePath string
	upstream  string
}

func newSession(t *testing.T) *session {
	t.Helper()
	return &session{statePath: filepath.Join(t.TempDir(), "state.db")}
}

func (s *session) run(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	full := append(args, "--state-path", s.statePath, "--timezone", "UTC")
	if s.upstream != "" {
		full = append(full, "--upstream", s.upstream)
	}

	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), full, stdin, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func writeSales(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ventas.json")
	if err := os.WriteFile(path, []byte(daySales), 0o600); err != nil {
		t.Fatalf("write sales: %v", err)
	}
	return path
}

type reportJSON struct {
	Summary struct {
		TotalSold int64 `json:"total_sold"`
		SaleCount int   `json:"sale_count"`
		TotalCash int64 `json:"total_cash"`
	} `json:"summary"`
	Reconciliation struct {
		ExpectedCash int64  `json:"expected_cash"`
		PhysicalCash int64  `json:"physical_cash"`
		Variance     int64  `json:"variance"`
		Status       string `json:"status"`
	} `json:"reconciliation"`
}

func TestLedgerSetShowReset(t *testing.T) {
	s := newSession(t)

	if _, _, err := s.run(t, nil, "ledger", "set", "20000", "2"); err != nil {
		t.Fatalf("ledger set: %v", err)
	}
	if _, _, err := s.run(t, nil, "ledger", "set", "500", "3"); err != nil {
		t.Fatalf("ledger set: %v", err)
	}

	out, _, err := s.run(t, nil, "ledger", "show", "--format", "json")
	if err != nil {
		t.Fatalf("ledger show: %v", err)
	}
	var view struct {
		Total int64 `json:"total"`
		Lines []struct {
			Value int64 `json:"value"`
			Count int   `json:"count"`
		} `json:"lines"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if view.Total != 41500 || len(view.Lines) != 9 || view.Lines[0].Count != 2 {
		t.Errorf("ledger = %+v", view)
	}

	table, _, _ := s.run(t, nil, "ledger", "show")
	if !strings.Contains(table, "$41.500") {
		t.Errorf("table missing total:\n%s", table)
	}

	if _, _, err := s.run(t, nil, "ledger", "reset"); err != nil {
		t.Fatalf("ledger reset: %v", err)
	}
	out, _, _ = s.run(t, nil, "ledger", "show", "-o", "json")
	if !strings.Contains(out, `"total": 0`) {
		t.Errorf("after reset: %s", out)
	}
}

func TestLedgerSetRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown denomination", []string{"7", "1"}, "denomination"},
		{"not a number", []string{"veinte", "1"}, "denomination"},
		{"bad count", []string{"1000", "x"}, "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			_, stderr, err := s.run(t, nil, append([]string{"ledger", "set"}, tt.args...)...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want mention of %q", stderr, tt.want)
			}
		})
	}
}

func TestCashoutFromFile(t *testing.T) {
	s := newSession(t)
	sales := writeSales(t)

	if _, _, err := s.run(t, nil, "ledger", "set", "20000", "3"); err != nil {
		t.Fatalf("ledger set: %v", err)
	}

	out, _, err := s.run(t, nil, "cashout", "--input", sales, "--date", "2024-01-15", "--format", "json")
	if err != nil {
		t.Fatalf("cashout: %v", err)
	}
	var report reportJSON
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if report.Summary.TotalSold != 15000 || report.Summary.SaleCount != 2 || report.Summary.TotalCash != 10000 {
		t.Errorf("summary = %+v", report.Summary)
	}
	r := report.Reconciliation
	if r.ExpectedCash != 60000 || r.PhysicalCash != 60000 || r.Variance != 0 || r.Status != "BALANCED" {
		t.Errorf("reconciliation = %+v", r)
	}
}

func TestCashoutFilters(t *testing.T) {
	sales := writeSales(t)

	tests := []struct {
		name      string
		args      []string
		wantSold  int64
		wantCount int
	}{
		{"all dates", []string{"--all-dates"}, 18000, 3},
		{"one seller", []string{"--all-dates", "--seller", "7"}, 13000, 2},
		{"other day", []string{"--date", "2024-01-16"}, 3000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t)
			args := append([]string{"cashout", "-i", sales, "-o", "json"}, tt.args...)
			out, _, err := s.run(t, nil, args...)
			if err != nil {
				t.Fatalf("cashout: %v", err)
			}
			var report reportJSON
			if err := json.Unmarshal([]byte(out), &report); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if report.Summary.TotalSold != tt.wantSold || report.Summary.SaleCount != tt.wantCount {
				t.Errorf("summary = %+v", report.Summary)
			}
		})
	}
}

func TestCashoutYAMLAndWorkbook(t *testing.T) {
	s := newSession(t)
	book := filepath.Join(t.TempDir(), "cuadratura.xlsx")

	out, _, err := s.run(t, strings.NewReader(daySales),
		"cashout", "--input", "-", "--date", "2024-01-15", "--format", "yaml", "--xlsx", book)
	if err != nil {
		t.Fatalf("cashout: %v", err)
	}
	for _, want := range []string{"total_sold: 15000", "status: SHORTAGE", "state: READY"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml missing %q:\n%s", want, out)
		}
	}

	f, err := excelize.OpenFile(book)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 3 {
		t.Errorf("sheets = %v", sheets)
	}
}

func TestCashoutFromFileCannotBeSaved(t *testing.T) {
	s := newSession(t)
	_, stderr, err := s.run(t, nil, "cashout", "--input", writeSales(t), "--save")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(stderr, "cannot be saved") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCashoutRequiresLogin(t *testing.T) {
	s := newSession(t)
	_, stderr, err := s.run(t, nil, "cashout")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(stderr, "posctl login") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestUnknownFormat(t *testing.T) {
	s := newSession(t)
	if _, _, err := s.run(t, nil, "ledger", "show", "--format", "csv"); err == nil {
		t.Error("expected an unknown format error")
	}
}

type upstream struct {
	boxes   atomic.Int32
	lastBox atomic.Value
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.Method + " " + r.URL.Path {
	case "POST /auth/login":
		_, _ = w.Write([]byte(`{"access_token":"upstream-token","user":{"id":1,"name":"Jefa","rol":"admin"}}`))
	case "GET /ventas/historial-admin":
		if r.Header.Get("Authorization") != "Bearer upstream-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"token requerido"}`))
			return
		}
		_, _ = w.Write([]byte(daySales))
	case "POST /ventas/cierre-caja":
		body, _ := io.ReadAll(r.Body)
		u.lastBox.Store(string(body))
		u.boxes.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found"}`))
	}
}

func TestOnlineCashoutSave(t *testing.T) {
	up := &upstream{}
	srv := httptest.NewServer(up)
	defer srv.Close()

	s := newSession(t)
	s.upstream = srv.URL

	out, _, err := s.run(t, nil, "login", "--rut", "11111111-1", "--password", "secreto")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as Jefa (admin)") {
		t.Errorf("login output = %q", out)
	}

	if _, _, err := s.run(t, nil, "ledger", "set", "10000", "7"); err != nil {
		t.Fatalf("ledger set: %v", err)
	}

	out, stderr, err := s.run(t, nil, "cashout", "--date", "2024-01-15", "--save")
	if err != nil {
		t.Fatalf("cashout: %v (stderr %q)", err, stderr)
	}
	if !strings.Contains(out, "Expected cash") || !strings.Contains(out, "Sobrante") {
		t.Errorf("report:\n%s", out)
	}
	if !strings.Contains(stderr, "Daily box closed for 2024-01-15") {
		t.Errorf("stderr = %q", stderr)
	}
	if up.boxes.Load() != 1 {
		t.Errorf("boxes saved = %d, want 1", up.boxes.Load())
	}

	ledger, _, _ := s.run(t, nil, "ledger", "show", "-o", "json")
	if !strings.Contains(ledger, `"total": 0`) {
		t.Errorf("count not cleared after save: %s", ledger)
	}

	if _, _, err := s.run(t, nil, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := s.run(t, nil, "cashout"); err == nil {
		t.Error("cashout after logout succeeded")
	}
}
