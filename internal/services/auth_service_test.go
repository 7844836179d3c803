package services_test

import (
	"testing"
	"time"

	"catalog/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test_jwt_secret"

func TestAuthService_IssueAndValidate(t *testing.T) {
	authService := services.NewAuthService(testJWTSecret)
	require.True(t, authService.Enabled())

	token, err := authService.IssueToken("catalog-admin", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "catalog-admin", claims.Subject)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), claims.ExpiresAt, 5)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(testJWTSecret)

	// Malformed token
	_, err := authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Expired token
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   "catalog-admin",
		ExpiresAt: jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredString, _ := expired.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	// Signed with another secret
	other, err := services.NewAuthService("another_secret").IssueToken("intruder", time.Hour)
	require.NoError(t, err)
	_, err = authService.ValidateToken(other)
	assert.Error(t, err)

	// Unsigned token
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.StandardClaims{Subject: "intruder"})
	noneString, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = authService.ValidateToken(noneString)
	assert.Error(t, err)
}

func TestAuthService_IssueTokenWithoutSecret(t *testing.T) {
	authService := services.NewAuthService("")
	assert.False(t, authService.Enabled())

	_, err := authService.IssueToken("catalog-admin", time.Hour)
	assert.Error(t, err)
}
