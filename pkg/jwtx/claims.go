package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the default bearer token lifetime. Tokens are
// stateless and cannot be revoked before expiry, so keep it bounded.
const DefaultAccessTokenTTL = 24 * time.Hour

// Claims are the access-token claims. Additive changes only, to preserve
// compatibility with tokens already in the wild.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the account's role name ("user", "moderator", "admin").
	Role string `json:"role,omitempty"`

	// Username for the authenticated account.
	Username string `json:"username,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for a bearer token.
func NewAccessClaims(
	subject, role, username string,
	issuer string,
	ttl time.Duration,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role:     role,
		Username: username,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
