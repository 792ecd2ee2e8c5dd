package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedToken builds a real HS256 token; the decoder never checks the
// signature but the wire format must be valid.
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestDecodeAccessToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tokenString := signedToken(t, jwt.MapClaims{
		"sub":   "user-123",
		"email": "alice@example.com",
		"exp":   exp.Unix(),
	})

	claims, err := DecodeAccessToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestDecodeAccessToken_Malformed(t *testing.T) {
	_, err := DecodeAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestUserFromToken(t *testing.T) {
	tokenString := signedToken(t, jwt.MapClaims{
		"sub":   "user-123",
		"email": "token@example.com",
	})

	t.Run("supplied email wins", func(t *testing.T) {
		user, err := UserFromToken(tokenString, "login@example.com")
		require.NoError(t, err)

		assert.Equal(t, "user-123", user.ID)
		assert.Equal(t, "login@example.com", user.Email)
		assert.Equal(t, "login", user.Username)
	})

	t.Run("falls back to token email", func(t *testing.T) {
		user, err := UserFromToken(tokenString, "")
		require.NoError(t, err)

		assert.Equal(t, "token@example.com", user.Email)
		assert.Equal(t, "token", user.Username)
	})

	t.Run("missing subject synthesizes id", func(t *testing.T) {
		anon := signedToken(t, jwt.MapClaims{"email": "x@example.com"})

		user, err := UserFromToken(anon, "")
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
	})

	t.Run("malformed token fails", func(t *testing.T) {
		_, err := UserFromToken("garbage", "x@example.com")
		assert.Error(t, err)
	})
}
