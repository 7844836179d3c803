package dto

import (
	"strings"

	"catalog/internal/models"
)

// CreateCategoryInput is the body of POST /categories.
type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// Normalize trims the category name.
func (in *CreateCategoryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

// UpdateCategoryInput is the body of PUT /categories/:id. Every field is optional.
type UpdateCategoryInput struct {
	Name        Optional[string] `json:"name" validate:"omitempty,min=1,max=100"`
	Description Nullable[string] `json:"description" validate:"omitempty,max=500"`
}

// Normalize trims a supplied name.
func (in *UpdateCategoryInput) Normalize() {
	if in.Name.Present() {
		in.Name.Value = strings.TrimSpace(in.Name.Value)
	}
}

// IsEmpty reports whether no field was supplied.
func (in UpdateCategoryInput) IsEmpty() bool {
	return !in.Name.Set && !in.Description.Set
}

// Apply merges the supplied fields into c.
func (in UpdateCategoryInput) Apply(c *models.Category) {
	if in.Name.Present() {
		c.Name = in.Name.Value
	}
	in.Description.Merge(&c.Description)
}

// CategoryQuery holds the raw query parameters of GET /categories.
type CategoryQuery struct {
	Page   *int   `query:"page" json:"page" validate:"omitempty,min=1"`
	Limit  *int   `query:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
	Search string `query:"search" json:"search" validate:"omitempty,max=200"`
}

// CategoryFilters is the normalized form of CategoryQuery.
type CategoryFilters struct {
	Page   int
	Limit  int
	Search string
}

// Filters applies paging defaults and trims the search term.
func (q CategoryQuery) Filters() CategoryFilters {
	return CategoryFilters{
		Page:   valueOr(q.Page, DefaultPage),
		Limit:  valueOr(q.Limit, DefaultLimit),
		Search: strings.TrimSpace(q.Search),
	}
}
