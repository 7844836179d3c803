package repositories

import (
	"context"

	"catalog/internal/dto"
	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
// Lookups return (nil, nil) when no row matches.
type ProductRepository interface {
	FindAll(ctx context.Context, filters dto.ProductFilters) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// IncrementStock adds delta to the stock of a product as long as the result stays
	// non-negative, and reports whether a row was changed.
	IncrementStock(ctx context.Context, id string, delta int) (bool, error)
	ToggleActive(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	FindAll(ctx context.Context, filters dto.CategoryFilters) ([]models.Category, int64, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
	CountProducts(ctx context.Context, id string) (int64, error)
}
