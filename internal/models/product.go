package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null"`
	Description *string         `json:"description" gorm:"type:varchar(1000)"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	SKU         string          `json:"sku" gorm:"column:sku;type:varchar(50);not null;uniqueIndex:idx_products_sku"`
	IsActive    bool            `json:"isActive" gorm:"not null"`
	CategoryID  string          `json:"categoryId" gorm:"type:varchar(36);not null;index"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// MarshalJSON writes the price as a JSON number rather than decimal's default quoted string.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price json.Number `json:"price"`
	}{product: product(p), Price: json.Number(p.Price.String())})
}
