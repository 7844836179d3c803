package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"catalog/internal/apperror"
	"catalog/internal/dto"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/response"
)

// ErrInsufficientStock is wrapped by the error UpdateStock returns when a decrement
// would take the stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
	log  *zap.Logger
	publisher
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		repo:      repo,
		log:       log,
		publisher: publisher{events: events, log: log},
	}
}

// List returns one page of products and its pagination metadata.
func (s *ProductService) List(ctx context.Context, f dto.ProductFilters) ([]models.Product, response.Meta, error) {
	products, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, response.Meta{}, err
	}
	return products, response.NewMeta(f.Page, f.Limit, total), nil
}

// GetByID retrieves a single product by its ID. A missing product yields nil, nil.
func (s *ProductService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBySKU retrieves a single product by its SKU. A missing product yields nil, nil.
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return s.repo.GetBySKU(ctx, sku)
}

// Create persists product and returns it as stored, with its category.
func (s *ProductService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	created, err := s.reload(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("product created", zap.String("id", created.ID), zap.String("sku", created.SKU))
	s.publish(ctx, EventProductCreated, created)
	return created, nil
}

// Update applies the supplied fields of in to current. An empty input writes nothing
// and returns current unchanged.
func (s *ProductService) Update(ctx context.Context, current *models.Product, in dto.UpdateProductInput) (*models.Product, error) {
	if in.IsEmpty() {
		return current, nil
	}

	updated := *current
	in.Apply(&updated)
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, s.notFound(err, current.ID)
	}
	product, err := s.reload(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("product updated", zap.String("id", product.ID))
	s.publish(ctx, EventProductUpdated, product)
	return product, nil
}

// Delete deletes a product by its ID.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.notFound(err, id)
	}

	s.log.Info("product deleted", zap.String("id", id))
	s.publish(ctx, EventProductDeleted, map[string]string{"id": id})
	return nil
}

// UpdateStock adds delta to the stock in a single statement. A decrement below zero
// is rejected and leaves the stock unchanged.
func (s *ProductService) UpdateStock(ctx context.Context, id string, delta int) (*models.Product, error) {
	changed, err := s.repo.IncrementStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if !changed {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, apperror.NotFound("Product with ID %s not found", id)
		}
		return nil, &apperror.Error{
			Kind:    apperror.KindValidation,
			Message: fmt.Sprintf("Insufficient stock: %d available", current.Stock),
			Details: []apperror.FieldError{{
				Field:   "quantity",
				Rule:    "stock",
				Message: fmt.Sprintf("quantity %d would make the stock negative", delta),
			}},
			Err: ErrInsufficientStock,
		}
	}

	product, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("product stock changed", zap.String("id", id), zap.Int("delta", delta), zap.Int("stock", product.Stock))
	s.publish(ctx, EventProductStockChanged, map[string]any{"id": id, "delta": delta, "stock": product.Stock})
	return product, nil
}

// ToggleActive flips the active flag and returns the updated product.
func (s *ProductService) ToggleActive(ctx context.Context, id string) (*models.Product, error) {
	if err := s.repo.ToggleActive(ctx, id); err != nil {
		return nil, s.notFound(err, id)
	}
	product, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventProductToggled, map[string]any{"id": id, "isActive": product.IsActive})
	return product, nil
}

func (s *ProductService) reload(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NotFound("Product with ID %s not found", id)
	}
	return product, nil
}

func (s *ProductService) notFound(err error, id string) error {
	if repositories.IsKind(err, repositories.KindNotFound) {
		return apperror.NotFound("Product with ID %s not found", id)
	}
	return err
}
