package utils_test

import (
	"testing"
	"time"

	"github.com/expenza/expense_flow_app/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	secret := "unit-test-secret"

	token, err := utils.GenerateJWT("user-1", secret, time.Hour, "expense-flow-app")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ParseAndValidateJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "expense-flow-app", claims.Issuer)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := utils.GenerateJWT("user-1", "right-secret", time.Hour, "expense-flow-app")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := utils.GenerateJWT("user-1", "secret", -time.Minute, "expense-flow-app")
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "secret")
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	hash := utils.HashRefreshToken("raw-token")

	assert.Len(t, hash, 64)
	assert.True(t, utils.CompareRefreshTokenHash("raw-token", hash))
	assert.False(t, utils.CompareRefreshTokenHash("other-token", hash))
}

func TestGenerateSecureRandomString(t *testing.T) {
	s1, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s1, 64)

	s2, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)

	_, err = utils.GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, utils.CheckPasswordHash("hunter22", hash))
	assert.False(t, utils.CheckPasswordHash("hunter23", hash))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "USD 120.50", utils.FormatAmount(decimal.NewFromFloat(120.5), "USD"))
	assert.Equal(t, "EUR 0.99", utils.FormatAmount(decimal.NewFromFloat(0.994), "EUR"))
}
