package client

import (
	"context"
	"net/http"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

const (
	productsPath   = "/productos"
	categoriesPath = "/categorias"
)

type productWire struct {
	Name       string `json:"nombre"`
	Price      int64  `json:"precio"`
	Stock      int    `json:"stock"`
	CategoryID any    `json:"categoriaId,omitempty"`
	Photo      string `json:"foto,omitempty"`
}

type categoryWire struct {
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
}

func productFromRecord(rec map[string]any) entity.Product {
	p := entity.Product{
		ID:    utils.StringField(rec, "id", "_id"),
		Name:  utils.StringField(rec, "nombre", "name"),
		Photo: utils.StringField(rec, "foto", "imagen", "photo"),
	}
	if price, ok := utils.IntField(rec, "precio", "price"); ok {
		p.Price = price
	}
	if stock, ok := utils.IntField(rec, "stock"); ok && stock > 0 {
		p.Stock = int(stock)
	}

	if cat, ok := utils.AsMap(rec["categoria"]); ok {
		p.CategoryID = utils.StringField(cat, "id", "_id")
		p.CategoryName = utils.StringField(cat, "nombre", "name")
	}
	if p.CategoryID == "" {
		p.CategoryID = utils.StringField(rec, "categoriaId", "categoryId")
	}
	return p
}

func categoryFromRecord(rec map[string]any) entity.Category {
	return entity.Category{
		ID:          utils.StringField(rec, "id", "_id"),
		Name:        utils.StringField(rec, "nombre", "name"),
		Description: utils.StringField(rec, "descripcion", "description"),
	}
}

func toProductWire(p entity.Product) productWire {
	return productWire{
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		CategoryID: idValue(p.CategoryID),
		Photo:      p.Photo,
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var body any
	if err := c.do(ctx, "products.list", http.MethodGet, productsPath, nil, nil, &body); err != nil {
		return nil, err
	}
	recs := records(body)
	products := make([]entity.Product, 0, len(recs))
	for _, rec := range recs {
		products = append(products, productFromRecord(rec))
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, p entity.Product) (*entity.Product, error) {
	var body any
	if err := c.do(ctx, "products.create", http.MethodPost, productsPath, nil, toProductWire(p), &body); err != nil {
		return nil, err
	}
	created := productFromRecord(object(body))
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, p entity.Product) (*entity.Product, error) {
	path, err := resourcePath(productsPath, p.ID)
	if err != nil {
		return nil, apperror.NewBadRequestError("Product id is required")
	}
	var body any
	if err := c.do(ctx, "products.update", http.MethodPatch, path, nil, toProductWire(p), &body); err != nil {
		return nil, err
	}
	updated := productFromRecord(object(body))
	if updated.ID == "" {
		updated = p
	}
	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	path, err := resourcePath(productsPath, id)
	if err != nil {
		return apperror.NewBadRequestError("Product id is required")
	}
	return c.do(ctx, "products.delete", http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var body any
	if err := c.do(ctx, "categories.list", http.MethodGet, categoriesPath, nil, nil, &body); err != nil {
		return nil, err
	}
	recs := records(body)
	categories := make([]entity.Category, 0, len(recs))
	for _, rec := range recs {
		categories = append(categories, categoryFromRecord(rec))
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, cat entity.Category) (*entity.Category, error) {
	var body any
	payload := categoryWire{Name: cat.Name, Description: cat.Description}
	if err := c.do(ctx, "categories.create", http.MethodPost, categoriesPath, nil, payload, &body); err != nil {
		return nil, err
	}
	created := categoryFromRecord(object(body))
	return &created, nil
}

func (c *Client) UpdateCategory(ctx context.Context, cat entity.Category) (*entity.Category, error) {
	path, err := resourcePath(categoriesPath, cat.ID)
	if err != nil {
		return nil, apperror.NewBadRequestError("Category id is required")
	}
	var body any
	payload := categoryWire{Name: cat.Name, Description: cat.Description}
	if err := c.do(ctx, "categories.update", http.MethodPatch, path, nil, payload, &body); err != nil {
		return nil, err
	}
	updated := categoryFromRecord(object(body))
	if updated.ID == "" {
		updated = cat
	}
	return &updated, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	path, err := resourcePath(categoriesPath, id)
	if err != nil {
		return apperror.NewBadRequestError("Category id is required")
	}
	return c.do(ctx, "categories.delete", http.MethodDelete, path, nil, nil, nil)
}
