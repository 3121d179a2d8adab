package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/midgarden/userd/internal/users/domain"
	"github.com/midgarden/userd/internal/users/store"
	"github.com/midgarden/userd/pkg/cryptox"
	"github.com/midgarden/userd/pkg/idx"
	"github.com/midgarden/userd/pkg/userapi"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 8
	// bcrypt silently caps its input at 72 bytes; anything longer is
	// rejected up front so the hasher never errors on predictable input.
	passwordMaxLen = 72

	defaultPageLimit = 20
	maxPageLimit     = 100
)

// AccountService covers registration, profile self-service, password change
// and the admin listing/removal operations.
type AccountService struct {
	Store  store.Store
	Hasher cryptox.Hasher
}

// RegisterInput is the validated-at-the-service registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string // optional; empty defaults to the lowest privilege
}

// ProfilePatch carries the only two fields self-update honors. Anything else
// a client sends (password, role, is_active) never reaches this struct; the
// field whitelist is the security boundary.
type ProfilePatch struct {
	Username *string
	Email    *string
}

// ListQuery narrows and pages the admin account listing.
type ListQuery struct {
	Page   int
	Limit  int
	Role   string // optional role-equality filter
	Search string // optional case-insensitive substring over username/email
}

// Register creates an account with a hashed password and default
// active-state. Returns the stored account; callers serialize it via
// Sanitized.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if err := validateUsername(username); err != nil {
		return domain.User{}, err
	}

	email := NormalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return domain.User{}, err
	}

	if err := validatePassword(in.Password); err != nil {
		return domain.User{}, err
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return domain.User{}, userapi.ErrValidation.WithMessage("role must be one of user, moderator, admin")
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, userapi.ErrDuplicateAccount
		}
		return domain.User{}, fmt.Errorf("register: create account: %w", err)
	}

	return user, nil
}

// GetByID fetches one account.
func (s *AccountService) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, userapi.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get account: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a self-service patch. Only username and email can
// change here; password has its own flow and role/is_active are admin
// concerns.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	username := user.Username
	if patch.Username != nil {
		username = strings.TrimSpace(*patch.Username)
		if err := validateUsername(username); err != nil {
			return domain.User{}, err
		}
	}

	email := user.Email
	if patch.Email != nil {
		email = NormalizeEmail(*patch.Email)
		if err := validateEmail(email); err != nil {
			return domain.User{}, err
		}
	}

	if username == user.Username && email == user.Email {
		return user, nil
	}

	if err := s.Store.Users().UpdateProfile(ctx, id, username, email); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.User{}, userapi.ErrDuplicateAccount
		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, userapi.ErrNotFound
		default:
			return domain.User{}, fmt.Errorf("update profile: %w", err)
		}
	}

	user.Username = username
	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	return user, nil
}

// ChangePassword re-verifies the current password and rotates the hash. The
// read and write run in one transaction so the verified hash is the one
// being replaced.
func (s *AccountService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return userapi.ErrNotFound
			}
			return fmt.Errorf("change password: lookup account: %w", err)
		}

		ok, err := s.Hasher.Verify(currentPassword, user.PasswordHash)
		if err != nil {
			return fmt.Errorf("change password: verify current: %w", err)
		}
		if !ok {
			// Distinct from login's invalid_credentials: the caller is
			// already authenticated, so enumeration is not a concern.
			return userapi.ErrInvalidCurrentPassword
		}

		hash, err := s.Hasher.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("change password: hash new: %w", err)
		}

		if err := tx.Users().UpdatePasswordHash(ctx, id, hash); err != nil {
			return fmt.Errorf("change password: persist: %w", err)
		}
		return nil
	})
}

// List returns one page of accounts plus pagination metadata. Admin only;
// the role gate lives in the HTTP layer.
func (s *AccountService) List(ctx context.Context, q ListQuery) ([]domain.User, userapi.Pagination, error) {
	page := max(q.Page, 1)

	limit := q.Limit
	switch {
	case limit <= 0:
		limit = defaultPageLimit
	case limit > maxPageLimit:
		limit = maxPageLimit
	}

	filter := store.ListFilter{Search: strings.TrimSpace(q.Search)}
	if q.Role != "" {
		role, err := domain.ParseRole(q.Role)
		if err != nil {
			return nil, userapi.Pagination{}, userapi.ErrValidation.WithMessage("unknown role filter %q", q.Role)
		}
		filter.Role = role
	}

	total, err := s.Store.Users().Count(ctx, filter)
	if err != nil {
		return nil, userapi.Pagination{}, fmt.Errorf("list accounts: count: %w", err)
	}

	// pageCount is at least 1 even for an empty result set.
	pageCount := int((total + int64(limit) - 1) / int64(limit))
	pageCount = max(pageCount, 1)

	users, err := s.Store.Users().List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, userapi.Pagination{}, fmt.Errorf("list accounts: %w", err)
	}

	return users, userapi.Pagination{
		Page:      page,
		Limit:     limit,
		Total:     total,
		PageCount: pageCount,
	}, nil
}

// Delete hard-deletes an account. There is no soft-delete; uniqueness frees
// up the username and email immediately.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Users().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return userapi.ErrNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < usernameMinLen || n > usernameMaxLen {
		return userapi.ErrValidation.WithMessage("username must be between %d and %d characters", usernameMinLen, usernameMaxLen)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return userapi.ErrValidation.WithMessage("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return userapi.ErrValidation.WithMessage("email address is not valid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < passwordMinLen {
		return userapi.ErrValidation.WithMessage("password must be at least %d characters", passwordMinLen)
	}
	if len(password) > passwordMaxLen {
		return userapi.ErrValidation.WithMessage("password must be at most %d bytes", passwordMaxLen)
	}
	return nil
}
