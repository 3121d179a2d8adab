package service

import (
	"context"
	"strings"
	"testing"

	"github.com/midgarden/userd/internal/users/domain"
	"github.com/midgarden/userd/pkg/userapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, RegisterInput{
		Username: "  alice  ",
		Email:    " Alice@Example.COM ",
		Password: "longenough1",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "longenough1", user.PasswordHash)

	stored, err := accounts.Store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, stored.Username)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"short username", RegisterInput{Username: "ab", Email: "a@example.com", Password: "longenough1"}},
		{"long username", RegisterInput{Username: string(make([]rune, 51)), Email: "a@example.com", Password: "longenough1"}},
		{"bad email", RegisterInput{Username: "alice", Email: "not-an-email", Password: "longenough1"}},
		{"short password", RegisterInput{Username: "alice", Email: "a@example.com", Password: "short"}},
		{"password over the hasher's byte limit", RegisterInput{Username: "alice", Email: "a@example.com", Password: strings.Repeat("p", 80)}},
		{"unknown role", RegisterInput{Username: "alice", Email: "a@example.com", Password: "longenough1", Role: "superuser"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := accounts.Register(ctx, tc.in)
			var apiErr *userapi.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, userapi.CodeValidationFailed, apiErr.Code)
		})
	}
}

func TestRegisterExplicitRole(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)

	user, err := accounts.Register(context.Background(), RegisterInput{
		Username: "modsquad",
		Email:    "mod@example.com",
		Password: "longenough1",
		Role:     "moderator",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, user.Role)
}

func TestRegisterDuplicates(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	registerUser(t, accounts, "alice", "alice@example.com", "longenough1")

	t.Run("same username", func(t *testing.T) {
		_, err := accounts.Register(ctx, RegisterInput{
			Username: "alice", Email: "other@example.com", Password: "longenough1",
		})
		require.ErrorIs(t, err, userapi.ErrDuplicateAccount)
	})

	t.Run("same email", func(t *testing.T) {
		_, err := accounts.Register(ctx, RegisterInput{
			Username: "alice2", Email: "alice@example.com", Password: "longenough1",
		})
		require.ErrorIs(t, err, userapi.ErrDuplicateAccount)
	})

	t.Run("email differs only by case", func(t *testing.T) {
		_, err := accounts.Register(ctx, RegisterInput{
			Username: "alice3", Email: "ALICE@example.com", Password: "longenough1",
		})
		require.ErrorIs(t, err, userapi.ErrDuplicateAccount)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	user := registerUser(t, accounts, "alice", "alice@example.com", "longenough1")

	newName := "alice2"
	updated, err := accounts.UpdateProfile(ctx, user.ID, ProfilePatch{Username: &newName})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.True(t, updated.UpdatedAt.After(user.UpdatedAt) || updated.UpdatedAt.Equal(user.UpdatedAt))

	newEmail := "Alice2@Example.com"
	updated, err = accounts.UpdateProfile(ctx, user.ID, ProfilePatch{Email: &newEmail})
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", updated.Email)
}

func TestUpdateProfileNoop(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	user := registerUser(t, accounts, "alice", "alice@example.com", "longenough1")

	same := "alice"
	got, err := accounts.UpdateProfile(ctx, user.ID, ProfilePatch{Username: &same})
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(user.UpdatedAt), "no-op patch must not bump updated_at")
}

func TestUpdateProfileCollision(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	registerUser(t, accounts, "alice", "alice@example.com", "longenough1")
	bob := registerUser(t, accounts, "bob", "bob@example.com", "longenough1")

	taken := "alice"
	_, err := accounts.UpdateProfile(ctx, bob.ID, ProfilePatch{Username: &taken})
	require.ErrorIs(t, err, userapi.ErrDuplicateAccount)
}

func TestUpdateProfileUnknownAccount(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)

	name := "ghost"
	_, err := accounts.UpdateProfile(context.Background(), "01HZZZZZZZZZZZZZZZZZZZZZZZ", ProfilePatch{Username: &name})
	require.ErrorIs(t, err, userapi.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	accounts, auth, _ := newTestServices(t)
	ctx := context.Background()

	user := registerUser(t, accounts, "alice", "alice@example.com", "oldpassword1")

	require.NoError(t, accounts.ChangePassword(ctx, user.ID, "oldpassword1", "newpassword1"))

	// Old credential is dead, new one works.
	_, _, err := auth.Login(ctx, "alice@example.com", "oldpassword1")
	require.ErrorIs(t, err, userapi.ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "alice@example.com", "newpassword1")
	require.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	t.Parallel()
	accounts, auth, _ := newTestServices(t)
	ctx := context.Background()

	user := registerUser(t, accounts, "alice", "alice@example.com", "oldpassword1")

	err := accounts.ChangePassword(ctx, user.ID, "wrong-current", "newpassword1")
	require.ErrorIs(t, err, userapi.ErrInvalidCurrentPassword)

	// Nothing rotated.
	_, _, err = auth.Login(ctx, "alice@example.com", "oldpassword1")
	require.NoError(t, err)
}

func TestChangePasswordRejectsBadNewPassword(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	user := registerUser(t, accounts, "alice", "alice@example.com", "oldpassword1")

	for name, newPassword := range map[string]string{
		"too short": "short",
		"too long":  strings.Repeat("p", 80),
	} {
		t.Run(name, func(t *testing.T) {
			err := accounts.ChangePassword(ctx, user.ID, "oldpassword1", newPassword)
			var apiErr *userapi.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, userapi.CodeValidationFailed, apiErr.Code)
		})
	}
}

func TestList(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	registerUser(t, accounts, "alice", "alice@example.com", "longenough1")
	registerUser(t, accounts, "bob", "bob@example.com", "longenough1")
	_, err := accounts.Register(ctx, RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "longenough1", Role: "admin",
	})
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		users, page, err := accounts.List(ctx, ListQuery{})
		require.NoError(t, err)
		assert.Len(t, users, 3)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, defaultPageLimit, page.Limit)
		assert.Equal(t, 1, page.PageCount)
	})

	t.Run("role filter", func(t *testing.T) {
		users, page, err := accounts.List(ctx, ListQuery{Role: "admin"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "carol", users[0].Username)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("search", func(t *testing.T) {
		users, _, err := accounts.List(ctx, ListQuery{Search: "BOB"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].Username)
	})

	t.Run("unknown role filter", func(t *testing.T) {
		_, _, err := accounts.List(ctx, ListQuery{Role: "wizard"})
		var apiErr *userapi.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, userapi.CodeValidationFailed, apiErr.Code)
	})
}

func TestListPagination(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	names := []string{"user01", "user02", "user03", "user04", "user05"}
	for _, n := range names {
		registerUser(t, accounts, n, n+"@example.com", "longenough1")
	}

	seen := map[string]bool{}
	for page := 1; page <= 3; page++ {
		users, meta, err := accounts.List(ctx, ListQuery{Page: page, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(5), meta.Total)
		assert.Equal(t, 3, meta.PageCount)
		for _, u := range users {
			assert.False(t, seen[u.ID], "account %s appeared on two pages", u.Username)
			seen[u.ID] = true
		}
	}
	// The page union is the whole set.
	assert.Len(t, seen, 5)

	t.Run("page past the end is empty", func(t *testing.T) {
		users, meta, err := accounts.List(ctx, ListQuery{Page: 9, Limit: 2})
		require.NoError(t, err)
		assert.Empty(t, users)
		assert.Equal(t, int64(5), meta.Total)
	})

	t.Run("limit is clamped", func(t *testing.T) {
		_, meta, err := accounts.List(ctx, ListQuery{Limit: 10_000})
		require.NoError(t, err)
		assert.Equal(t, maxPageLimit, meta.Limit)
	})

	t.Run("empty table still reports one page", func(t *testing.T) {
		empty, _, _ := newTestServices(t)
		users, meta, err := empty.List(ctx, ListQuery{})
		require.NoError(t, err)
		assert.Empty(t, users)
		assert.Equal(t, 1, meta.PageCount)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()
	accounts, _, _ := newTestServices(t)
	ctx := context.Background()

	user := registerUser(t, accounts, "alice", "alice@example.com", "longenough1")

	require.NoError(t, accounts.Delete(ctx, user.ID))

	_, err := accounts.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, userapi.ErrNotFound)

	// Deleting again reports not found.
	require.ErrorIs(t, accounts.Delete(ctx, user.ID), userapi.ErrNotFound)

	// The username is free for reuse.
	registerUser(t, accounts, "alice", "alice@example.com", "longenough1")
}
