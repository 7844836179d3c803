package database_test

import (
	"testing"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/database/dbtest"
	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "oracle"}, nil)
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{":memory:", ":memory:?_foreign_keys=1"},
		{"catalog.db", "catalog.db?_foreign_keys=1"},
		{"file:catalog.db?cache=shared", "file:catalog.db?cache=shared&_foreign_keys=1"},
		{"file:catalog.db?_foreign_keys=0", "file:catalog.db?_foreign_keys=0"},
		{"catalog.db?_fk=true", "catalog.db?_fk=true"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, database.SQLiteDSN(tt.dsn))
		})
	}
}

func TestOpen_SQLiteEnforcesForeignKeys(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, nil)
	require.NoError(t, err)
	defer database.Close(db)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	require.NoError(t, database.AutoMigrate(db))
	category := models.Category{ID: "c1", Name: "Books"}
	require.NoError(t, db.Create(&category).Error)
	require.NoError(t, db.Create(&models.Product{ID: "p1", Name: "Novel", SKU: "N-1", IsActive: true, CategoryID: "c1"}).Error)
	assert.Error(t, db.Delete(&models.Category{}, "id = ?", "c1").Error)
}

func TestSeed_IsIdempotent(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, database.Seed(db, nil))
	require.NoError(t, database.Seed(db, nil))

	var categories, products int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 2, categories)
	assert.EqualValues(t, 4, products)

	var laptop models.Product
	require.NoError(t, db.Preload("Category").First(&laptop, "sku = ?", "ELEC-LAPTOP-1").Error)
	assert.Equal(t, "1200", laptop.Price.String())
	require.NotNil(t, laptop.Category)
	assert.Equal(t, "Electronics", laptop.Category.Name)
}
