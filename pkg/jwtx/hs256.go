package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints signed bearer tokens.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a bearer token and returns its claims if it is legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// ErrInvalidToken covers every verification failure: bad signature, malformed
// structure, wrong algorithm, wrong issuer, expiry. Callers must not be able
// to tell which, or the error becomes a validity oracle.
var ErrInvalidToken = errors.New("jwtx: invalid token")

// MinSecretBytes is the smallest HMAC secret accepted. Anything shorter is
// brute-forceable offline from a single captured token.
const MinSecretBytes = 32

// HS256 signs and verifies tokens with a single process-wide HMAC secret.
// Key rotation is out of scope; restart with a new secret to invalidate
// everything outstanding.
type HS256 struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewHS256 builds a combined signer/verifier. The secret must carry at least
// MinSecretBytes of material.
func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < MinSecretBytes {
		return nil, fmt.Errorf("jwtx: signing secret must be at least %d bytes, got %d", MinSecretBytes, len(secret))
	}
	return &HS256{
		secret: secret,
		issuer: issuer,
		leeway: 30 * time.Second,
	}, nil
}

// Sign serialises claims into a compact HS256 JWT.
func (h *HS256) Sign(c Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a compact JWT. The signing method is pinned to
// HS256 so a forged "alg" header cannot downgrade verification.
func (h *HS256) Verify(token string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (any, error) { return h.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(h.issuer),
		jwt.WithLeeway(h.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		// Collapse the cause; see ErrInvalidToken.
		return Claims{}, ErrInvalidToken
	}

	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
