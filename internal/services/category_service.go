package services

import (
	"context"

	"go.uber.org/zap"

	"catalog/internal/apperror"
	"catalog/internal/dto"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/response"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
	log  *zap.Logger
	publisher
}

func NewCategoryService(repo repositories.CategoryRepository, events EventPublisher, log *zap.Logger) *CategoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryService{
		repo:      repo,
		log:       log,
		publisher: publisher{events: events, log: log},
	}
}

func (s *CategoryService) List(ctx context.Context, f dto.CategoryFilters) ([]models.Category, response.Meta, error) {
	categories, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, response.Meta{}, err
	}
	return categories, response.NewMeta(f.Page, f.Limit, total), nil
}

func (s *CategoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *CategoryService) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	created, err := s.reload(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("category created", zap.String("id", created.ID), zap.String("name", created.Name))
	s.publish(ctx, EventCategoryCreated, created)
	return created, nil
}

// Update applies the supplied fields of in to current. An empty input is a no-op.
func (s *CategoryService) Update(ctx context.Context, current *models.Category, in dto.UpdateCategoryInput) (*models.Category, error) {
	if in.IsEmpty() {
		return current, nil
	}

	updated := *current
	in.Apply(&updated)
	if err := s.repo.Update(ctx, &updated); err != nil {
		if repositories.IsKind(err, repositories.KindNotFound) {
			return nil, apperror.NotFound("Category with ID %s not found", current.ID)
		}
		return nil, err
	}
	category, err := s.reload(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("category updated", zap.String("id", category.ID))
	s.publish(ctx, EventCategoryUpdated, category)
	return category, nil
}

// Delete removes a category. A category still referenced by products is a conflict,
// whether detected by the caller's pre-check or by the foreign key.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case repositories.IsKind(err, repositories.KindNotFound):
			return apperror.NotFound("Category with ID %s not found", id)
		case repositories.IsKind(err, repositories.KindForeignKeyViolation):
			return apperror.Conflict("Cannot delete category with existing products")
		}
		return err
	}

	s.log.Info("category deleted", zap.String("id", id))
	s.publish(ctx, EventCategoryDeleted, map[string]string{"id": id})
	return nil
}

// CountProducts returns how many products reference the category.
func (s *CategoryService) CountProducts(ctx context.Context, id string) (int64, error) {
	return s.repo.CountProducts(ctx, id)
}

func (s *CategoryService) reload(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NotFound("Category with ID %s not found", id)
	}
	return category, nil
}
