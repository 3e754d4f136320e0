package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDecodeClaims(t *testing.T) {
	t.Run("extracts expiry", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		token := signedToken(t, jwt.MapClaims{"sub": "alice", "exp": exp.Unix()})

		claims, ok := DecodeClaims(token)
		require.True(t, ok)
		assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("token without exp decodes with zero expiry", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "alice"})

		claims, ok := DecodeClaims(token)
		require.True(t, ok)
		assert.True(t, claims.ExpiresAt.IsZero())
	})

	t.Run("malformed tokens yield no claims", func(t *testing.T) {
		for _, token := range []string{
			"",
			"not-a-token",
			"one.two",
			"a.b.c.d",
			"aGVhZGVy.!!!.c2ln",
			"aGVhZGVy.bm90LWpzb24.c2ln", // payload is not JSON
		} {
			claims, ok := DecodeClaims(token)
			assert.False(t, ok, "token %q", token)
			assert.Nil(t, claims, "token %q", token)
		}
	})
}
