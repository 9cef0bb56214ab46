package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-at-least-32-characters"

func TestTokenServiceRoundTrip(t *testing.T) {
	svc, err := NewTokenService(1*time.Hour, "fenua-estim", "fenua-estim-api", false, "", "", testSecretKey)
	require.NoError(t, err)

	token, err := svc.GenerateToken(42, "teva@example.pf")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AgentID)
	assert.Equal(t, "teva@example.pf", claims.Email)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc, err := NewTokenService(1*time.Hour, "fenua-estim", "fenua-estim-api", false, "", "", testSecretKey)
	require.NoError(t, err)

	// Sign a token whose validity window is entirely in the past
	past := time.Now().UTC().Add(-2 * time.Hour)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"agent_id": 1,
		"email":    "expired@example.pf",
		"jti":      "test-token-id",
		"iat":      past.Unix(),
		"exp":      past.Add(1 * time.Hour).Unix(),
		"iss":      "fenua-estim",
		"aud":      "fenua-estim-api",
	})
	token, err := expired.SignedString([]byte(testSecretKey))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenServiceRejectsTampered(t *testing.T) {
	svc, err := NewTokenService(1*time.Hour, "fenua-estim", "fenua-estim-api", false, "", "", testSecretKey)
	require.NoError(t, err)

	other, err := NewTokenService(1*time.Hour, "fenua-estim", "fenua-estim-api", false, "", "", "another-secret-key-that-is-32-chars!")
	require.NoError(t, err)

	token, err := other.GenerateToken(7, "intruder@example.pf")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(1*time.Hour, "fenua-estim", "fenua-estim-api", false, "", "", testSecretKey)
	require.NoError(t, err)

	_, err = svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(1*time.Hour, "fenua-estim", "fenua-estim-api", false, "", "", "")
	require.Error(t, err)
}
