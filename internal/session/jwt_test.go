package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestInspectToken(t *testing.T) {
	t.Run("reads subject and expiry without a key", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		info, err := InspectToken(signedToken(t, "u1", expiry))
		require.NoError(t, err)

		assert.Equal(t, "u1", info.Subject)
		assert.WithinDuration(t, expiry, info.ExpiresAt, time.Second)
		assert.False(t, info.Expired)
	})

	t.Run("flags an expired token", func(t *testing.T) {
		info, err := InspectToken(signedToken(t, "u1", time.Now().Add(-time.Hour)))
		require.NoError(t, err)
		assert.True(t, info.Expired)
	})

	t.Run("opaque tokens are not an error for the session", func(t *testing.T) {
		_, err := InspectToken("not-a-jwt")
		require.Error(t, err)
	})
}
