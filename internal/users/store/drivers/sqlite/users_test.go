package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/midgarden/userd/internal/users/domain"
	"github.com/midgarden/userd/internal/users/store"
	"github.com/midgarden/userd/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store, username, email string, role domain.Role) domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	want := seedUser(t, s, "alice", "alice@example.com", domain.RoleUser)

	byID, err := s.Users().GetByID(ctx, want.ID)
	require.NoError(t, err)
	require.Equal(t, want.Username, byID.Username)
	require.Equal(t, want.PasswordHash, byID.PasswordHash)
	require.True(t, byID.IsActive)
	require.Nil(t, byID.LastLoginAt)

	byEmail, err := s.Users().GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, want.ID, byEmail.ID)

	_, err = s.Users().GetByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUniqueIndexesMapToAlreadyExists(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "alice", "alice@example.com", domain.RoleUser)

	dup := domain.User{
		ID:           idx.New().String(),
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.ErrorIs(t, s.Users().Create(ctx, dup), store.ErrAlreadyExists)

	dup.Username = "bob"
	dup.Email = "alice@example.com"
	require.ErrorIs(t, s.Users().Create(ctx, dup), store.ErrAlreadyExists)
}

func TestUpdateProfileCollisions(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice", "alice@example.com", domain.RoleUser)
	seedUser(t, s, "bob", "bob@example.com", domain.RoleUser)

	err := s.Users().UpdateProfile(ctx, alice.ID, "bob", "alice@example.com")
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, s.Users().UpdateProfile(ctx, alice.ID, "alice2", "alice2@example.com"))
	got, err := s.Users().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice2", got.Username)
	require.Equal(t, "alice2@example.com", got.Email)

	err = s.Users().UpdateProfile(ctx, idx.New().String(), "ghost", "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLoginBookkeeping(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice", "alice@example.com", domain.RoleUser)

	require.NoError(t, s.Users().IncrementFailedLogins(ctx, alice.ID))
	require.NoError(t, s.Users().IncrementFailedLogins(ctx, alice.ID))

	got, err := s.Users().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.FailedLoginAttempts)

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Users().RecordLogin(ctx, alice.ID, at))

	got, err = s.Users().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.FailedLoginAttempts)
	require.NotNil(t, got.LastLoginAt)
	require.WithinDuration(t, at, *got.LastLoginAt, time.Second)
}

func TestSetActive(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice", "alice@example.com", domain.RoleUser)
	require.True(t, alice.IsActive)

	require.NoError(t, s.Users().SetActive(ctx, alice.ID, false))

	got, err := s.Users().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	require.ErrorIs(t, s.Users().SetActive(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", false), store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice", "alice@example.com", domain.RoleUser)

	require.NoError(t, s.Users().Delete(ctx, alice.ID))
	_, err := s.Users().GetByID(ctx, alice.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Users().Delete(ctx, alice.ID), store.ErrNotFound)
}

func TestListFiltersAndCount(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "alice", "alice@example.com", domain.RoleAdmin)
	seedUser(t, s, "bob", "bob@example.com", domain.RoleUser)
	seedUser(t, s, "carol", "carol@other.org", domain.RoleUser)

	t.Run("no filter", func(t *testing.T) {
		total, err := s.Users().Count(ctx, store.ListFilter{})
		require.NoError(t, err)
		require.EqualValues(t, 3, total)
	})

	t.Run("role filter", func(t *testing.T) {
		users, err := s.Users().List(ctx, store.ListFilter{Role: domain.RoleUser}, 10, 0)
		require.NoError(t, err)
		require.Len(t, users, 2)
	})

	t.Run("search matches username and email, case-insensitively", func(t *testing.T) {
		users, err := s.Users().List(ctx, store.ListFilter{Search: "EXAMPLE.COM"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, users, 2)

		users, err = s.Users().List(ctx, store.ListFilter{Search: "carol"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, users, 1)
		require.Equal(t, "carol", users[0].Username)
	})

	t.Run("like metacharacters are literal", func(t *testing.T) {
		users, err := s.Users().List(ctx, store.ListFilter{Search: "%"}, 10, 0)
		require.NoError(t, err)
		require.Empty(t, users)
	})

	t.Run("limit and offset page through in id order", func(t *testing.T) {
		first, err := s.Users().List(ctx, store.ListFilter{}, 2, 0)
		require.NoError(t, err)
		require.Len(t, first, 2)

		second, err := s.Users().List(ctx, store.ListFilter{}, 2, 2)
		require.NoError(t, err)
		require.Len(t, second, 1)

		require.Less(t, first[1].ID, second[0].ID)
	})
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice", "alice@example.com", domain.RoleUser)

	sentinel := store.ErrAlreadyExists
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, alice.ID, "new-hash"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	got, err := s.Users().GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice.PasswordHash, got.PasswordHash, "rolled-back write must not persist")
}
