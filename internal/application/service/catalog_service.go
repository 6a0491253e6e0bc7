package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

const (
	productsCacheKey   = "products"
	categoriesCacheKey = "categories"
)

// CatalogService serves products and categories, caching the upstream lists
// for a short while.
type CatalogService struct {
	gateway repository.CatalogGateway
	cache   *cache.Cache
	log     *logrus.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(gateway repository.CatalogGateway, ttl time.Duration, log *logrus.Logger) *CatalogService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CatalogService{
		gateway: gateway,
		cache:   cache.New(ttl, 2*ttl),
		log:     log,
	}
}

// ProductFilter narrows the product list
type ProductFilter struct {
	CategoryID string
	Search     string
}

// ListProducts returns the catalog sorted by name.
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) ([]entity.Product, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if filter.CategoryID != "" && !utils.SameID(p.CategoryID, filter.CategoryID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// GetProduct looks a product up by id.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if utils.SameID(p.ID, id) {
			found := p
			return &found, nil
		}
	}
	return nil, apperror.NewNotFoundError("Product")
}

// ProductInput represents the create and update product input
type ProductInput struct {
	Name       string `json:"name" validate:"required,max=120"`
	Price      int64  `json:"price" validate:"gt=0"`
	Stock      int    `json:"stock" validate:"gte=0"`
	CategoryID string `json:"category_id" validate:"required"`
	Photo      string `json:"photo" validate:"omitempty,url"`
}

func (in *ProductInput) sanitize() {
	in.Name = utils.SanitizeText(in.Name)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.Photo = strings.TrimSpace(in.Photo)
}

func (in *ProductInput) product(id string) entity.Product {
	return entity.Product{
		ID:         id,
		Name:       in.Name,
		Price:      in.Price,
		Stock:      in.Stock,
		CategoryID: in.CategoryID,
		Photo:      in.Photo,
	}
}

// CreateProduct creates a new product
func (s *CatalogService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	input.sanitize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.gateway.CreateProduct(ctx, input.product(""))
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not create the product")
	}
	s.cache.Delete(productsCacheKey)
	return product, nil
}

// UpdateProduct replaces the editable fields of a product
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input *ProductInput) (*entity.Product, error) {
	input.sanitize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.gateway.UpdateProduct(ctx, input.product(id))
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not update the product")
	}
	s.cache.Delete(productsCacheKey)
	return product, nil
}

// DeleteProduct deletes a product
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.gateway.DeleteProduct(ctx, id); err != nil {
		return apperror.WithFallback(err, "Could not delete the product")
	}
	s.cache.Delete(productsCacheKey)
	return nil
}

// ListCategories returns every category sorted by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	if cached, ok := s.cache.Get(categoriesCacheKey); ok {
		return cached.([]entity.Category), nil
	}

	categories, err := s.gateway.ListCategories(ctx)
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not load categories")
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
	})
	s.cache.SetDefault(categoriesCacheKey, categories)
	return categories, nil
}

// CategoryInput represents the create and update category input
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"max=255"`
}

// CreateCategory creates a new category
func (s *CatalogService) CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error) {
	input.Name = utils.SanitizeText(input.Name)
	input.Description = utils.SanitizeText(input.Description)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category, err := s.gateway.CreateCategory(ctx, entity.Category{Name: input.Name, Description: input.Description})
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not create the category")
	}
	s.cache.Delete(categoriesCacheKey)
	return category, nil
}

// UpdateCategory updates a category
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, input *CategoryInput) (*entity.Category, error) {
	input.Name = utils.SanitizeText(input.Name)
	input.Description = utils.SanitizeText(input.Description)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category, err := s.gateway.UpdateCategory(ctx, entity.Category{ID: id, Name: input.Name, Description: input.Description})
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not update the category")
	}
	s.cache.Delete(categoriesCacheKey)
	s.cache.Delete(productsCacheKey)
	return category, nil
}

// DeleteCategory deletes a category
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.gateway.DeleteCategory(ctx, id); err != nil {
		return apperror.WithFallback(err, "Could not delete the category")
	}
	s.cache.Delete(categoriesCacheKey)
	s.cache.Delete(productsCacheKey)
	return nil
}

// Invalidate drops the cached product list, e.g. after a sale changed stock.
func (s *CatalogService) Invalidate() {
	s.cache.Delete(productsCacheKey)
}

func (s *CatalogService) products(ctx context.Context) ([]entity.Product, error) {
	if cached, ok := s.cache.Get(productsCacheKey); ok {
		return cached.([]entity.Product), nil
	}

	products, err := s.gateway.ListProducts(ctx)
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not load products")
	}
	s.cache.SetDefault(productsCacheKey, products)
	s.log.WithField("count", len(products)).Debug("product catalog refreshed")
	return products, nil
}
