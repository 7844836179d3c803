package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"catalog/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Sortable product columns, keyed by their API name.
var productSortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"createdAt": "created_at",
	"stock":     "stock",
}

// CreateProductInput is the body of POST /products.
type CreateProductInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0,lte=99999999.99"`
	Stock       *int            `json:"stock" validate:"omitempty,gte=0"`
	SKU         string          `json:"sku" validate:"required,max=50"`
	IsActive    *bool           `json:"isActive"`
	CategoryID  string          `json:"categoryId" validate:"required,uuid"`
}

// PriceScale is the number of decimal places a price is stored with.
const PriceScale = 2

// Normalize trims text fields and rounds the price to its stored scale, so that
// validation sees the value that will be persisted.
func (in *CreateProductInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Price = in.Price.Round(PriceScale)
}

// Product builds the row to insert, applying defaults for omitted optional fields.
func (in CreateProductInput) Product() *models.Product {
	p := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       0,
		SKU:         in.SKU,
		IsActive:    true,
		CategoryID:  in.CategoryID,
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return p
}

// UpdateProductInput is the body of PUT /products/:id. Every field is optional.
type UpdateProductInput struct {
	Name        Optional[string]          `json:"name" validate:"omitempty,min=1,max=200"`
	Description Nullable[string]          `json:"description" validate:"omitempty,max=1000"`
	Price       Optional[decimal.Decimal] `json:"price" validate:"omitempty,gt=0,lte=99999999.99"`
	Stock       Optional[int]             `json:"stock" validate:"omitempty,gte=0"`
	SKU         Optional[string]          `json:"sku" validate:"omitempty,min=1,max=50"`
	IsActive    Optional[bool]            `json:"isActive"`
	CategoryID  Optional[string]          `json:"categoryId" validate:"omitempty,uuid"`
}

// Normalize trims the supplied text fields and rounds a supplied price.
func (in *UpdateProductInput) Normalize() {
	if in.Name.Present() {
		in.Name.Value = strings.TrimSpace(in.Name.Value)
	}
	if in.SKU.Present() {
		in.SKU.Value = strings.TrimSpace(in.SKU.Value)
	}
	if in.Price.Present() {
		in.Price.Value = in.Price.Value.Round(PriceScale)
	}
}

// IsEmpty reports whether no field was supplied.
func (in UpdateProductInput) IsEmpty() bool {
	return !in.Name.Set && !in.Description.Set && !in.Price.Set && !in.Stock.Set &&
		!in.SKU.Set && !in.IsActive.Set && !in.CategoryID.Set
}

// Apply merges the supplied fields into p.
func (in UpdateProductInput) Apply(p *models.Product) {
	if in.Name.Present() {
		p.Name = in.Name.Value
	}
	in.Description.Merge(&p.Description)
	if in.Price.Present() {
		p.Price = in.Price.Value
	}
	if in.Stock.Present() {
		p.Stock = in.Stock.Value
	}
	if in.SKU.Present() {
		p.SKU = in.SKU.Value
	}
	if in.IsActive.Present() {
		p.IsActive = in.IsActive.Value
	}
	if in.CategoryID.Present() && in.CategoryID.Value != p.CategoryID {
		p.CategoryID = in.CategoryID.Value
		p.Category = nil
	}
}

// StockAdjustmentInput is the body of PATCH /products/:id/stock.
type StockAdjustmentInput struct {
	Quantity int `json:"quantity" validate:"required,ne=0"`
}

// ProductQuery holds the raw query parameters of GET /products.
type ProductQuery struct {
	Page       *int     `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit      *int     `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
	Search     string   `query:"search" json:"search" validate:"omitempty,max=200"`
	CategoryID string   `query:"categoryId" json:"categoryId" validate:"omitempty,uuid"`
	IsActive   *string  `query:"isActive" json:"isActive"`
	MinPrice   *float64 `query:"minPrice" json:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice   *float64 `query:"maxPrice" json:"maxPrice" validate:"omitempty,gte=0"`
	SortBy     string   `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=name price createdAt stock"`
	SortOrder  string   `query:"sortOrder" json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ProductFilters is the normalized form of ProductQuery.
type ProductFilters struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
	IsActive   *bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortColumn string
	SortDesc   bool
}

// Filters normalizes the query. isActive is true only for the literal "true".
func (q ProductQuery) Filters() ProductFilters {
	f := ProductFilters{
		Page:       valueOr(q.Page, DefaultPage),
		Limit:      valueOr(q.Limit, DefaultLimit),
		Search:     strings.TrimSpace(q.Search),
		CategoryID: q.CategoryID,
		SortColumn: "created_at",
		SortDesc:   q.SortOrder != "asc",
	}
	if col, ok := productSortColumns[q.SortBy]; ok {
		f.SortColumn = col
	}
	if q.IsActive != nil {
		active := *q.IsActive == "true"
		f.IsActive = &active
	}
	if q.MinPrice != nil {
		d := decimal.NewFromFloat(*q.MinPrice)
		f.MinPrice = &d
	}
	if q.MaxPrice != nil {
		d := decimal.NewFromFloat(*q.MaxPrice)
		f.MaxPrice = &d
	}
	return f
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
