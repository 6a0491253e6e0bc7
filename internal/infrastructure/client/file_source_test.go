package client

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
)

func TestDecodeSaleRecordsShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"array", `[{"id":1},{"id":2}]`, 2},
		{"data envelope", `{"data":[{"id":1}]}`, 1},
		{"ventas envelope", `{"ventas":[{"id":1},{"id":2},{"id":3}]}`, 3},
		{"summary envelope", `{"resumen":{"transactions":[{"id":1}]}}`, 1},
		{"unknown object", `{"ok":true}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := DecodeSaleRecords(strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("DecodeSaleRecords: %v", err)
			}
			if len(recs) != tt.want {
				t.Errorf("records = %d, want %d", len(recs), tt.want)
			}
		})
	}
}

func TestDecodeSaleRecordsRejectsGarbage(t *testing.T) {
	if _, err := DecodeSaleRecords(strings.NewReader("not json")); err == nil {
		t.Error("expected a decode error")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ventas.json")
	if err := os.WriteFile(path, []byte(`[{"id":1,"total":12345678901}]`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	ctx := context.Background()

	recs, _ := src.AdminHistory(ctx, entity.HistoryQuery{Date: "2024-01-15"})
	if len(recs) != 1 {
		t.Fatalf("records = %d", len(recs))
	}
	if n, ok := recs[0]["total"].(json.Number); !ok || n.String() != "12345678901" {
		t.Errorf("total = %#v, want exact json.Number", recs[0]["total"])
	}

	err = src.CloseDailyBox(ctx, entity.ReconciliationResult{})
	if apperror.GetAppError(err).Code != 400 {
		t.Errorf("CloseDailyBox err = %v, want 400", err)
	}
}

func TestNewFileSourceMissingFile(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
