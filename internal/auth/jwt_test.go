package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJWTSecretRequiresEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Error(t, InitJWTSecret())

	t.Setenv("JWT_SECRET", "test-secret")
	assert.NoError(t, InitJWTSecret())
}

func TestGenerateAndVerifyJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, InitJWTSecret())

	token, err := GenerateJWT(42, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestVerifyJWTRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, InitJWTSecret())

	token, err := GenerateJWT(42, "alice@example.com")
	require.NoError(t, err)

	_, err = VerifyJWT(token[:len(token)-2] + "xx")
	assert.Error(t, err)

	_, err = VerifyJWT("not-a-token")
	assert.Error(t, err)
}

func TestVerifyJWTRejectsDifferentSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	require.NoError(t, InitJWTSecret())

	token, err := GenerateJWT(42, "alice@example.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	require.NoError(t, InitJWTSecret())

	_, err = VerifyJWT(token)
	assert.Error(t, err)
}
