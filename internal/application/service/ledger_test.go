package service

import (
	"context"
	"testing"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	infraRepo "github.com/sangkips/ventapett-pos/internal/infrastructure/repository"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
)

func TestLedgerWritesThroughAndRestores(t *testing.T) {
	ctx := context.Background()
	store := infraRepo.NewMemoryStore()

	ledger, err := LoadLedger(ctx, store, entity.CashoutCountsKey, testLog)
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}
	if got := ledger.PhysicalTotal(); got != 0 {
		t.Fatalf("fresh ledger total = %d, want 0", got)
	}

	if err := ledger.Set(ctx, 20000, 3); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := ledger.Set(ctx, 500, 4); err != nil {
		t.Fatalf("Set: %v", err)
	}

	restored, err := LoadLedger(ctx, store, entity.CashoutCountsKey, testLog)
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}
	if got := restored.PhysicalTotal(); got != 62000 {
		t.Errorf("restored total = %d, want 62000", got)
	}
	if got := restored.Count(500); got != 4 {
		t.Errorf("restored count of 500 = %d, want 4", got)
	}
}

func TestLedgerClampsNegativeCounts(t *testing.T) {
	ctx := context.Background()
	ledger, _ := LoadLedger(ctx, infraRepo.NewMemoryStore(), entity.CashoutCountsKey, testLog)

	if err := ledger.Set(ctx, 1000, -5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := ledger.Count(1000); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
}

func TestLedgerRejectsUnknownDenomination(t *testing.T) {
	ctx := context.Background()
	ledger, _ := LoadLedger(ctx, infraRepo.NewMemoryStore(), entity.CashoutCountsKey, testLog)

	err := ledger.Set(ctx, 3000, 1)
	if err == nil {
		t.Fatal("expected an error for a 3000 note")
	}
	if code := apperror.GetAppError(err).Code; code != 422 {
		t.Errorf("code = %d, want 422", code)
	}
}

func TestLedgerKeepsCountWhenWriteFails(t *testing.T) {
	ctx := context.Background()
	inner := infraRepo.NewMemoryStore()
	ledger, _ := LoadLedger(ctx, inner, entity.CashoutCountsKey, testLog)
	if err := ledger.Set(ctx, 100, 2); err != nil {
		t.Fatalf("Set: %v", err)
	}

	ledger.store = failingStore{inner}
	if err := ledger.Set(ctx, 100, 9); err == nil {
		t.Fatal("expected the write failure to surface")
	}
	if got := ledger.Count(100); got != 2 {
		t.Errorf("count after failed write = %d, want 2", got)
	}
}

func TestLedgerResetClearsStore(t *testing.T) {
	ctx := context.Background()
	store := infraRepo.NewMemoryStore()
	ledger, _ := LoadLedger(ctx, store, entity.CashoutCountsKey, testLog)
	_ = ledger.Set(ctx, 10000, 2)

	if err := ledger.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := ledger.PhysicalTotal(); got != 0 {
		t.Errorf("total after reset = %d, want 0", got)
	}
	if _, ok, _ := store.Get(ctx, entity.CashoutCountsKey); ok {
		t.Error("saved count still present after reset")
	}
}

func TestLoadLedgerIgnoresBadEntries(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		saved string
		want  int64
	}{
		{"unreadable json", "{not json", 0},
		{"unknown and negative entries", `{"20000":1,"3000":5,"100":-2,"abc":1}`, 20000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := infraRepo.NewMemoryStore()
			_ = store.Set(ctx, entity.CashoutCountsKey, tt.saved)

			ledger, err := LoadLedger(ctx, store, entity.CashoutCountsKey, testLog)
			if err != nil {
				t.Fatalf("LoadLedger: %v", err)
			}
			if got := ledger.PhysicalTotal(); got != tt.want {
				t.Errorf("total = %d, want %d", got, tt.want)
			}
		})
	}
}
