package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog/internal/dto"
	"catalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// productFilter composes the WHERE clause shared by the page query and the count.
func productFilter(f dto.ProductFilters) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			pattern := containsPattern(f.Search)
			db = db.Where("("+likeColumn("name")+" OR "+likeColumn("COALESCE(description, '')")+" OR "+likeColumn("sku")+")",
				pattern, pattern, pattern)
		}
		if f.CategoryID != "" {
			db = db.Where("category_id = ?", f.CategoryID)
		}
		if f.IsActive != nil {
			db = db.Where("is_active = ?", *f.IsActive)
		}
		if f.MinPrice != nil {
			db = db.Where("price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("price <= ?", *f.MaxPrice)
		}
		return db
	}
}

// FindAll returns one page of products matching the filters and the total match count.
// The page and the count are fetched concurrently.
func (r *GORMProductRepository) FindAll(ctx context.Context, f dto.ProductFilters) ([]models.Product, int64, error) {
	var (
		products []models.Product
		total    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Model(&models.Product{}).
			Scopes(productFilter(f)).
			Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Scopes(productFilter(f)).
			Preload("Category").
			Order(clause.OrderByColumn{Column: clause.Column{Name: f.SortColumn}, Desc: f.SortDesc}).
			Order("id").
			Limit(f.Limit).
			Offset((f.Page - 1) * f.Limit).
			Find(&products).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, classify("list products", err)
	}
	return products, total, nil
}

// GetByID retrieves a single product with its category.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return r.first(ctx, "get product by id", "id = ?", id)
}

// GetBySKU retrieves a single product by its unique SKU.
func (r *GORMProductRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return r.first(ctx, "get product by sku", "sku = ?", sku)
}

func (r *GORMProductRepository) first(ctx context.Context, op, query string, arg string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return &product, nil
}

// Create inserts a new product, generating its ID when empty.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	return classify("create product", r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

// Update writes every mutable column of product, including zero values.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(product).
		Omit(clause.Associations).
		Select("name", "description", "price", "stock", "sku", "is_active", "category_id", "updated_at").
		Updates(product)
	if res.Error != nil {
		return classify("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("update product", product.ID)
	}
	return nil
}

// Delete removes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return classify("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("delete product", id)
	}
	return nil
}

func (r *GORMProductRepository) IncrementStock(ctx context.Context, id string, delta int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return false, classify("increment stock", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ToggleActive negates is_active in a single statement.
func (r *GORMProductRepository) ToggleActive(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("is_active", gorm.Expr("NOT is_active"))
	if res.Error != nil {
		return classify("toggle product active", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("toggle product active", id)
	}
	return nil
}
