package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundtrip(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")

	token, err := Sign(secret, "66f0c1d2e3a4b5c6d7e8f901", "customer", time.Hour)
	require.NoError(t, err)

	claims, err := Verify(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "66f0c1d2e3a4b5c6d7e8f901", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := Sign([]byte("0123456789abcdef0123456789abcdef"), "someid", "admin", time.Hour)
	require.NoError(t, err)

	_, err = Verify([]byte("another-secret-another-secret-12"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	token, err := Sign(secret, "someid", "customer", -time.Minute)
	require.NoError(t, err)

	_, err = Verify(secret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := Verify([]byte("0123456789abcdef0123456789abcdef"), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
