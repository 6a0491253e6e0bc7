package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/repository"
	infraRepo "github.com/sangkips/ventapett-pos/internal/infrastructure/repository"
	"github.com/sangkips/ventapett-pos/pkg/logger"
)

var (
	testLog  = logger.Discard()
	santiago = time.FixedZone("CLT", -3*60*60)

	admin  = entity.Principal{UserID: "1", Name: "Admin", Rut: "11111111-1", Role: "admin"}
	seller = entity.Principal{UserID: "7", Name: "Ana", Rut: "22222222-2", Role: "vendedor"}

	errUpstreamDown = errors.New("dial tcp: connection refused")
)

func sale(id, when, method string, total float64, sellerID float64, sellerName string) entity.RawSaleRecord {
	return entity.RawSaleRecord{
		"id":        id,
		"fecha":     when,
		"medioPago": method,
		"total":     total,
		"vendedor":  map[string]any{"id": sellerID, "nombre": sellerName},
	}
}

type fakeSales struct {
	mu sync.Mutex

	own     []entity.RawSaleRecord
	history []entity.RawSaleRecord
	// historyFn overrides history when set
	historyFn func(ctx context.Context, q entity.HistoryQuery) ([]entity.RawSaleRecord, error)
	fetchErr  error

	createResp map[string]any
	createErr  error
	created    []entity.SaleRequest

	closeErr error
	closed   []entity.ReconciliationResult

	updateErr error
	updated   map[string]entity.SalePatch
	voided    []string

	ownCalls int
	queries  []entity.HistoryQuery
}

func (f *fakeSales) CreateSale(_ context.Context, sale entity.SaleRequest) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, sale)
	return f.createResp, nil
}

func (f *fakeSales) OwnSales(_ context.Context) ([]entity.RawSaleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ownCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.own, nil
}

func (f *fakeSales) AdminHistory(ctx context.Context, q entity.HistoryQuery) ([]entity.RawSaleRecord, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	fn, err, history := f.historyFn, f.fetchErr, f.history
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (f *fakeSales) UpdateSale(_ context.Context, id string, patch entity.SalePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = make(map[string]entity.SalePatch)
	}
	f.updated[id] = patch
	return nil
}

func (f *fakeSales) VoidSale(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voided = append(f.voided, id)
	return nil
}

func (f *fakeSales) CloseDailyBox(_ context.Context, result entity.ReconciliationResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closed = append(f.closed, result)
	return nil
}

func (f *fakeSales) historyCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeCatalog struct {
	products   []entity.Product
	categories []entity.Category
	listCalls  int
	created    []entity.Product
}

func (f *fakeCatalog) ListProducts(context.Context) ([]entity.Product, error) {
	f.listCalls++
	out := make([]entity.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeCatalog) CreateProduct(_ context.Context, p entity.Product) (*entity.Product, error) {
	p.ID = "100"
	f.created = append(f.created, p)
	return &p, nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, p entity.Product) (*entity.Product, error) {
	return &p, nil
}

func (f *fakeCatalog) DeleteProduct(context.Context, string) error { return nil }

func (f *fakeCatalog) ListCategories(context.Context) ([]entity.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalog) CreateCategory(_ context.Context, c entity.Category) (*entity.Category, error) {
	c.ID = "50"
	return &c, nil
}

func (f *fakeCatalog) UpdateCategory(_ context.Context, c entity.Category) (*entity.Category, error) {
	return &c, nil
}

func (f *fakeCatalog) DeleteCategory(context.Context, string) error { return nil }

type fakeStaff struct {
	users     []entity.StaffUser
	listCalls int
	created   []entity.StaffUser
	passwords []string
	deleted   []string
}

func (f *fakeStaff) ListUsers(context.Context) ([]entity.StaffUser, error) {
	f.listCalls++
	out := make([]entity.StaffUser, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeStaff) CreateUser(_ context.Context, u entity.StaffUser, password string) (*entity.StaffUser, error) {
	u.ID = "99"
	f.created = append(f.created, u)
	f.passwords = append(f.passwords, password)
	return &u, nil
}

func (f *fakeStaff) UpdateUser(_ context.Context, u entity.StaffUser, password string) (*entity.StaffUser, error) {
	f.passwords = append(f.passwords, password)
	return &u, nil
}

func (f *fakeStaff) DeleteUser(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAuth struct {
	result *entity.LoginResult
	err    error
}

func (f *fakeAuth) Login(context.Context, string, string) (*entity.LoginResult, error) {
	return f.result, f.err
}

// failingStore rejects writes, for write-through failure paths.
type failingStore struct {
	repository.KeyValueStore
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func memoryKeyspace() (repository.KeyValueStore, repository.Keyspace) {
	store := infraRepo.NewMemoryStore()
	return store, infraRepo.PerUserKeyspace(store)
}
