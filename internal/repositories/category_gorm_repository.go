package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"catalog/internal/dto"
	"catalog/internal/models"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// categoryFilter matches the search term against name and description.
func categoryFilter(f dto.CategoryFilters) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search == "" {
			return db
		}
		pattern := containsPattern(f.Search)
		return db.Where("("+likeColumn("name")+" OR "+likeColumn("COALESCE(description, '')")+")", pattern, pattern)
	}
}

// FindAll returns one page of categories ordered by name, plus the total match count.
func (r *GORMCategoryRepository) FindAll(ctx context.Context, f dto.CategoryFilters) ([]models.Category, int64, error) {
	var (
		categories []models.Category
		total      int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Category{}).Scopes(categoryFilter(f)).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Scopes(categoryFilter(f)).
			Order("name ASC").
			Limit(f.Limit).
			Offset((f.Page - 1) * f.Limit).
			Find(&categories).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, classify("list categories", err)
	}
	return categories, total, nil
}

func (r *GORMCategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.first(ctx, "get category by id", "id = ?", id)
}

func (r *GORMCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return r.first(ctx, "get category by name", "name = ?", name)
}

func (r *GORMCategoryRepository) first(ctx context.Context, op, query, arg string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return &category, nil
}

func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	return classify("create category", r.db.WithContext(ctx).Create(category).Error)
}

func (r *GORMCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).
		Model(category).
		Select("name", "description", "updated_at").
		Updates(category)
	if res.Error != nil {
		return classify("update category", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("update category", category.ID)
	}
	return nil
}

// Delete removes a category. The database rejects it with a foreign-key violation
// while products still reference it.
func (r *GORMCategoryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return classify("delete category", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("delete category", id)
	}
	return nil
}

// CountProducts returns how many products reference the category.
func (r *GORMCategoryRepository) CountProducts(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&n).Error
	return n, classify("count category products", err)
}
