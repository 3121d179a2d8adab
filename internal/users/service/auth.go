package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/midgarden/userd/internal/users/domain"
	"github.com/midgarden/userd/internal/users/store"
	"github.com/midgarden/userd/pkg/cryptox"
	"github.com/midgarden/userd/pkg/jwtx"
	"github.com/midgarden/userd/pkg/slogx"
	"github.com/midgarden/userd/pkg/userapi"
)

// AuthService owns the login flow: credential lookup, password verification,
// account-state checks and token issuance.
type AuthService struct {
	Store    store.Store
	Hasher   cryptox.Hasher
	Signer   jwtx.Signer
	Issuer   string
	TokenTTL time.Duration
}

// Login authenticates an email/password pair and returns the account plus a
// signed bearer token.
//
// Unknown email and wrong password produce the identical error, so responses
// cannot be used to enumerate accounts. A deactivated account is only
// reported as such AFTER the presented password verified; callers who don't
// hold the password see invalid_credentials like everyone else.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.User{}, "", userapi.ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", userapi.ErrInvalidCredentials
		}
		return domain.User{}, "", fmt.Errorf("login: lookup account: %w", err)
	}

	ok, err := s.Hasher.Verify(password, user.PasswordHash)
	if err != nil {
		// Stored hash is unusable; that's an operational fault, not a
		// credential one.
		return domain.User{}, "", fmt.Errorf("login: verify password: %w", err)
	}
	if !ok {
		// The counter is observational; brute-force pressure is handled by
		// the transport rate limiter, not a lockout threshold.
		if err := s.Store.Users().IncrementFailedLogins(ctx, user.ID); err != nil {
			log.Warn("failed to bump login failure counter", "user_id", user.ID, "err", err)
		}
		return domain.User{}, "", userapi.ErrInvalidCredentials
	}

	if !user.IsActive {
		return domain.User{}, "", userapi.ErrAccountDeactivated
	}

	// Persist the login bookkeeping before issuing anything: if this write
	// fails no token goes out.
	now := time.Now().UTC()
	if err := s.Store.Users().RecordLogin(ctx, user.ID, now); err != nil {
		return domain.User{}, "", fmt.Errorf("login: record login: %w", err)
	}
	user.LastLoginAt = &now
	user.FailedLoginAttempts = 0

	token, err := s.Signer.Sign(jwtx.NewAccessClaims(
		user.ID, user.Role.String(), user.Username,
		s.Issuer, s.TokenTTL, now,
	))
	if err != nil {
		return domain.User{}, "", fmt.Errorf("login: sign token: %w", err)
	}

	return user, token, nil
}

// CheckAccount implements httpx.AccountChecker: it re-fetches account state
// so a deactivated or deleted account is rejected per-request instead of
// riding out its token's expiry.
func (s *AuthService) CheckAccount(ctx context.Context, userID string) error {
	user, err := s.Store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return userapi.ErrInvalidToken
		}
		return fmt.Errorf("check account: %w", err)
	}
	if !user.IsActive {
		return userapi.ErrAccountDeactivated
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address. All email handling
// goes through this so lookups and uniqueness agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
