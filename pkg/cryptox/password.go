package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost bounds for the bcrypt work factor. The default sits where a hash takes
// tens of milliseconds on current hardware; bump it as hardware improves.
const (
	MinCost     = 10
	DefaultCost = 12
	MaxCost     = 16
)

// ErrMalformedHash reports a stored hash that bcrypt cannot parse. A plain
// password mismatch is never an error, only a false verification result.
var ErrMalformedHash = errors.New("cryptox: malformed password hash")

// Hasher derives and verifies bcrypt password hashes. The zero value uses
// DefaultCost.
type Hasher struct {
	Cost int
}

// NewHasher clamps cost into [MinCost, MaxCost], treating 0 as DefaultCost.
func NewHasher(cost int) Hasher {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < MinCost:
		cost = MinCost
	case cost > MaxCost:
		cost = MaxCost
	}
	return Hasher{Cost: cost}
}

// Hash derives a salted bcrypt hash from the plaintext password. Each call
// draws a fresh salt, so hashing the same password twice yields different
// encodings.
func (h Hasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}

	out, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(out), nil
}

// Verify compares a plaintext password against a stored bcrypt hash.
// Returns (false, nil) on mismatch and a non-nil error only when the stored
// hash itself is unusable.
func (h Hasher) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
