package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of bearer-token claims the client reads: the expiry.
// A zero ExpiresAt means the token carries no exp claim.
type Claims struct {
	ExpiresAt time.Time
}

// DecodeClaims extracts claims from a bearer token without verifying the
// signature. This is a UX optimization to avoid sending requests with an
// expired token; the backend stays the sole authority on validity.
// Malformed tokens yield (nil, false), never an error.
func DecodeClaims(token string) (*Claims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return &Claims{}, true
	}

	return &Claims{ExpiresAt: exp.Time}, true
}
