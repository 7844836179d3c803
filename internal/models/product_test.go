package models_test

import (
	"encoding/json"
	"testing"

	"catalog/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_MarshalJSON(t *testing.T) {
	desc := "Hand saw"
	p := models.Product{
		ID:          "p1",
		Name:        "Saw",
		Description: &desc,
		Price:       decimal.RequireFromString("12.50"),
		Stock:       3,
		SKU:         "TL-2",
		IsActive:    true,
		CategoryID:  "c1",
		Category:    &models.Category{ID: "c1", Name: "Tools"},
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 12.5, got["price"], "price must be a JSON number")
	assert.Equal(t, "TL-2", got["sku"])
	assert.Equal(t, "Hand saw", got["description"])
	assert.Equal(t, true, got["isActive"])
	assert.Equal(t, "c1", got["categoryId"])
	require.IsType(t, map[string]any{}, got["category"])
	assert.Equal(t, "Tools", got["category"].(map[string]any)["name"])

	// Pointers and slices use the same encoding.
	raw, err = json.Marshal([]*models.Product{&p})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price":12.5`)

	// The package-wide decimal setting is left alone.
	raw, err = json.Marshal(decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, `"1.5"`, string(raw))
}
