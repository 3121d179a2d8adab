package store

import (
	"context"
	"errors"
	"time"

	"github.com/midgarden/userd/internal/users/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists maps the storage layer's unique-index rejection.
	// Uniqueness of username/email is enforced here, not by application
	// locking: the second of two concurrent registrations loses at insert.
	ErrAlreadyExists = errors.New("store: already exists")
)

// ListFilter narrows the admin account listing. Zero values mean "no filter".
type ListFilter struct {
	// Role restricts to accounts holding exactly this role.
	Role domain.Role

	// Search is matched case-insensitively as a substring of username or
	// email.
	Search string
}

// Store is the root data access interface. Concrete drivers (sqlite) implement
// this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Users() Users
}

type Users interface {
	// GetByID returns an account by id.
	GetByID(ctx context.Context, id string) (domain.User, error)

	// GetByEmail looks up by lowercase-normalized email. This is the login
	// read path and is the only read that callers should treat as carrying a
	// usable PasswordHash.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// Create inserts a new account (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username or email unique index
	// rejects the write.
	Create(ctx context.Context, u domain.User) error

	// UpdateProfile sets username and email and bumps updated_at. Returns
	// ErrAlreadyExists on a unique-index collision.
	UpdateProfile(ctx context.Context, id, username, email string) error

	// UpdatePasswordHash replaces the stored hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id, newHash string) error

	// SetActive flips the account's active flag. Deactivated accounts keep
	// their row and credentials but are refused at login.
	SetActive(ctx context.Context, id string, active bool) error

	// RecordLogin stamps last_login_at and resets failed_login_attempts.
	RecordLogin(ctx context.Context, id string, at time.Time) error

	// IncrementFailedLogins bumps the observational failure counter.
	IncrementFailedLogins(ctx context.Context, id string) error

	// Delete removes the account. Returns ErrNotFound when no row matched.
	Delete(ctx context.Context, id string) error

	// Count returns how many accounts match the filter.
	Count(ctx context.Context, filter ListFilter) (int64, error)

	// List returns a page of accounts matching the filter, ordered by id
	// (ULIDs sort by creation time).
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]domain.User, error)
}
