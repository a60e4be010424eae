package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func claimsFor(typ, issuer string, expires time.Time) Claims {
	return Claims{
		UserID: "4f1c2b8e-8a53-4c1e-9a53-2f6b1d0c7e11",
		Role:   "admin",
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func TestValidateToken(t *testing.T) {
	secret := []byte("s3cret")
	future := time.Now().Add(time.Hour)

	t.Run("valid access token", func(t *testing.T) {
		m := NewManager("s3cret")
		claims, err := m.ValidateAccessToken(sign(t, jwt.SigningMethodHS256, secret, claimsFor(TokenTypeAccess, "", future)))
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		m := NewManager("s3cret")
		token := sign(t, jwt.SigningMethodHS256, secret, claimsFor(TokenTypeRefresh, "", future))

		_, err := m.ValidateToken(token)
		require.NoError(t, err)
		_, err = m.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrNotAccessToken)
	})

	t.Run("missing exp", func(t *testing.T) {
		m := NewManager("s3cret")
		c := claimsFor(TokenTypeAccess, "", future)
		c.ExpiresAt = nil
		_, err := m.ValidateToken(sign(t, jwt.SigningMethodHS256, secret, c))
		assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
	})

	t.Run("unsigned token", func(t *testing.T) {
		m := NewManager("s3cret")
		token := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor(TokenTypeAccess, "", future))
		_, err := m.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("issuer must match when configured", func(t *testing.T) {
		m := NewManager("s3cret", WithIssuer("bookstore-auth"))

		_, err := m.ValidateToken(sign(t, jwt.SigningMethodHS256, secret, claimsFor(TokenTypeAccess, "someone-else", future)))
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

		_, err = m.ValidateToken(sign(t, jwt.SigningMethodHS256, secret, claimsFor(TokenTypeAccess, "bookstore-auth", future)))
		assert.NoError(t, err)
	})

	t.Run("leeway accepts slightly expired tokens", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, secret, claimsFor(TokenTypeAccess, "", time.Now().Add(-10*time.Second)))

		_, err := NewManager("s3cret").ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)

		_, err = NewManager("s3cret", WithLeeway(time.Minute)).ValidateToken(token)
		assert.NoError(t, err)
	})
}
