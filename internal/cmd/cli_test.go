package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCommand(t *testing.T) {
	t.Setenv("APP_ENV", config.EnvTest)
	t.Setenv("JWT_SECRET", "cli_secret")

	var out bytes.Buffer
	command := newCommand()
	command.Writer = &out
	require.NoError(t, command.Run(context.Background(), []string{"catalog", "token", "--subject", "ci", "--ttl", "1h"}))

	claims, err := services.NewAuthService("cli_secret").ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ci", claims.Subject)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), claims.ExpiresAt, 5)
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", config.EnvTest)
	t.Setenv("JWT_SECRET", "")

	command := newCommand()
	command.Writer = &bytes.Buffer{}
	err := command.Run(context.Background(), []string{"catalog", "token"})
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestMigrateAndSeedCommands(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "catalog.db") + "?_foreign_keys=1"
	t.Setenv("APP_ENV", config.EnvTest)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", dsn)

	ctx := context.Background()
	require.NoError(t, newCommand().Run(ctx, []string{"catalog", "migrate"}))
	require.NoError(t, newCommand().Run(ctx, []string{"catalog", "seed"}))
	require.NoError(t, newCommand().Run(ctx, []string{"catalog", "seed"}))

	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	defer database.Close(db)

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 4, products)
}

func TestEventsCommand_RequiresBroker(t *testing.T) {
	t.Setenv("APP_ENV", config.EnvTest)
	t.Setenv("RABBITMQ_URL", "")

	err := newCommand().Run(context.Background(), []string{"catalog", "events"})
	assert.ErrorContains(t, err, "RABBITMQ_URL")
}
