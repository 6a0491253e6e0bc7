package repository

import (
	"context"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
)

// CashoutGateway is the part of the sales API the cashout view reads and
// writes.
type CashoutGateway interface {
	// OwnSales lists the authenticated seller's sales
	OwnSales(ctx context.Context) ([]entity.RawSaleRecord, error)
	// AdminHistory lists sales across sellers; zero-value query fields are not sent
	AdminHistory(ctx context.Context, query entity.HistoryQuery) ([]entity.RawSaleRecord, error)
	// CloseDailyBox persists a reconciliation
	CloseDailyBox(ctx context.Context, result entity.ReconciliationResult) error
}

// SalesGateway reaches the upstream sales endpoints.
type SalesGateway interface {
	CashoutGateway
	// CreateSale registers a sale and returns the raw response body
	CreateSale(ctx context.Context, sale entity.SaleRequest) (map[string]any, error)
	UpdateSale(ctx context.Context, id string, patch entity.SalePatch) error
	VoidSale(ctx context.Context, id string) error
}

// CatalogGateway reaches the upstream product and category endpoints.
type CatalogGateway interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	CreateProduct(ctx context.Context, p entity.Product) (*entity.Product, error)
	UpdateProduct(ctx context.Context, p entity.Product) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateCategory(ctx context.Context, c entity.Category) (*entity.Category, error)
	UpdateCategory(ctx context.Context, c entity.Category) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// StaffGateway reaches the upstream user endpoints.
type StaffGateway interface {
	ListUsers(ctx context.Context) ([]entity.StaffUser, error)
	CreateUser(ctx context.Context, u entity.StaffUser, password string) (*entity.StaffUser, error)
	UpdateUser(ctx context.Context, u entity.StaffUser, password string) (*entity.StaffUser, error)
	DeleteUser(ctx context.Context, id string) error
}

// AuthGateway reaches the upstream login endpoint.
type AuthGateway interface {
	Login(ctx context.Context, rut, password string) (*entity.LoginResult, error)
}
