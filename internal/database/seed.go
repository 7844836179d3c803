package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/models"
)

type seedProduct struct {
	name        string
	description string
	price       string
	stock       int
	sku         string
}

var seedCatalog = []struct {
	name        string
	description string
	products    []seedProduct
}{
	{
		name:        "Electronics",
		description: "Computers, peripherals and accessories",
		products: []seedProduct{
			{"Laptop", "High performance laptop", "1200.00", 10, "ELEC-LAPTOP-1"},
			{"Keyboard", "Mechanical keyboard", "75.00", 25, "ELEC-KEYB-1"},
			{"Mouse", "Ergonomic wireless mouse", "25.00", 50, "ELEC-MOUSE-1"},
		},
	},
	{
		name:        "Books",
		description: "Printed and digital books",
		products: []seedProduct{
			{"The Go Programming Language", "Donovan and Kernighan", "39.90", 12, "BOOK-GOPL-1"},
		},
	},
}

// Seed populates the catalog with sample data. Rows that already exist, matched by
// category name or product SKU, are left untouched.
func Seed(db *gorm.DB, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, sc := range seedCatalog {
			description := sc.description
			category := models.Category{ID: uuid.New().String(), Name: sc.name, Description: &description}
			if err := tx.Where(models.Category{Name: sc.name}).FirstOrCreate(&category).Error; err != nil {
				return fmt.Errorf("failed to seed category %s: %w", sc.name, err)
			}

			for _, sp := range sc.products {
				desc := sp.description
				product := models.Product{
					ID:          uuid.New().String(),
					Name:        sp.name,
					Description: &desc,
					Price:       decimal.RequireFromString(sp.price),
					Stock:       sp.stock,
					SKU:         sp.sku,
					IsActive:    true,
					CategoryID:  category.ID,
				}
				if err := tx.Omit("Category").Where(models.Product{SKU: sp.sku}).FirstOrCreate(&product).Error; err != nil {
					return fmt.Errorf("failed to seed product %s: %w", sp.sku, err)
				}
				if log != nil {
					log.Debug("seeded product", zap.String("sku", product.SKU), zap.String("id", product.ID))
				}
			}
		}
		return nil
	})
}
