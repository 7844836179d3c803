// Package dbtest provides isolated in-memory SQLite databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/database"
)

// DSN returns a private in-memory SQLite DSN with foreign keys enforced.
func DSN() string {
	return fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
}

// Open returns a migrated in-memory database that is closed when the test ends.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          DSN(),
		MaxIdleConns: 1,
	}, nil)
	require.NoError(t, err, "failed to open in-memory database")
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
