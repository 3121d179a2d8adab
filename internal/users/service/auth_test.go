package service

import (
	"context"
	"testing"
	"time"

	"github.com/midgarden/userd/internal/users/domain"
	"github.com/midgarden/userd/internal/users/store"
	"github.com/midgarden/userd/internal/users/store/drivers/sqlite"
	"github.com/midgarden/userd/pkg/cryptox"
	"github.com/midgarden/userd/pkg/jwtx"
	"github.com/midgarden/userd/pkg/userapi"
	"github.com/stretchr/testify/require"
)

const testIssuer = "userd-test"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestSigner(t *testing.T) *jwtx.HS256 {
	t.Helper()
	h, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), testIssuer)
	require.NoError(t, err)
	return h
}

func newTestServices(t *testing.T) (*AccountService, *AuthService, *jwtx.HS256) {
	t.Helper()

	st := newTestStore(t)
	hasher := cryptox.NewHasher(cryptox.MinCost)
	signer := newTestSigner(t)

	accounts := &AccountService{Store: st, Hasher: hasher}
	auth := &AuthService{
		Store:    st,
		Hasher:   hasher,
		Signer:   signer,
		Issuer:   testIssuer,
		TokenTTL: time.Hour,
	}
	return accounts, auth, signer
}

func registerUser(t *testing.T, accounts *AccountService, username, email, password string) domain.User {
	t.Helper()
	u, err := accounts.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return u
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()
	accounts, auth, verifier := newTestServices(t)
	ctx := context.Background()

	registered := registerUser(t, accounts, "alice", "alice@example.com", "longenough1")

	before := time.Now().UTC()
	user, token, err := auth.Login(ctx, "alice@example.com", "longenough1")
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.Subject)
	require.Equal(t, "user", claims.Role)
	require.Equal(t, "alice", claims.Username)

	require.Equal(t, 0, user.FailedLoginAttempts)
	require.NotNil(t, user.LastLoginAt)
	require.WithinDuration(t, before, *user.LastLoginAt, 5*time.Second)

	// And the bookkeeping actually persisted.
	stored, err := auth.Store.Users().GetByID(ctx, registered.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	require.Equal(t, 0, stored.FailedLoginAttempts)
}

func TestLoginNormalizesEmail(t *testing.T) {
	t.Parallel()
	accounts, auth, _ := newTestServices(t)

	registerUser(t, accounts, "alice", "Alice@Example.COM", "longenough1")

	_, _, err := auth.Login(context.Background(), "  ALICE@example.com ", "longenough1")
	require.NoError(t, err)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	accounts, auth, _ := newTestServices(t)
	ctx := context.Background()

	registerUser(t, accounts, "alice", "alice@example.com", "longenough1")

	_, _, wrongPassword := auth.Login(ctx, "alice@example.com", "not-the-password")
	_, _, unknownEmail := auth.Login(ctx, "nobody@example.com", "whatever123")

	require.ErrorIs(t, wrongPassword, userapi.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, userapi.ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginTracksFailedAttempts(t *testing.T) {
	t.Parallel()
	accounts, auth, _ := newTestServices(t)
	ctx := context.Background()

	registered := registerUser(t, accounts, "alice", "alice@example.com", "longenough1")

	for i := 0; i < 3; i++ {
		_, _, err := auth.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, userapi.ErrInvalidCredentials)
	}

	stored, err := auth.Store.Users().GetByID(ctx, registered.ID)
	require.NoError(t, err)
	require.Equal(t, 3, stored.FailedLoginAttempts)

	// No lockout: the correct password still works and resets the counter.
	_, _, err = auth.Login(ctx, "alice@example.com", "longenough1")
	require.NoError(t, err)

	stored, err = auth.Store.Users().GetByID(ctx, registered.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.FailedLoginAttempts)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	t.Parallel()
	accounts, auth, _ := newTestServices(t)
	ctx := context.Background()

	registered := registerUser(t, accounts, "alice", "alice@example.com", "longenough1")
	deactivate(t, auth.Store, registered.ID)

	t.Run("correct password reveals deactivation, no token", func(t *testing.T) {
		_, token, err := auth.Login(ctx, "alice@example.com", "longenough1")
		require.ErrorIs(t, err, userapi.ErrAccountDeactivated)
		require.Empty(t, token)
	})

	t.Run("wrong password still looks like invalid credentials", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, err, userapi.ErrInvalidCredentials)
	})
}

func TestCheckAccount(t *testing.T) {
	t.Parallel()
	accounts, auth, _ := newTestServices(t)
	ctx := context.Background()

	registered := registerUser(t, accounts, "alice", "alice@example.com", "longenough1")

	require.NoError(t, auth.CheckAccount(ctx, registered.ID))

	deactivate(t, auth.Store, registered.ID)
	require.ErrorIs(t, auth.CheckAccount(ctx, registered.ID), userapi.ErrAccountDeactivated)

	require.ErrorIs(t, auth.CheckAccount(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ"), userapi.ErrInvalidToken)
}

// deactivate flips is_active directly; suspension is an admin/store concern
// with no service operation of its own.
func deactivate(t *testing.T, st store.Store, id string) {
	t.Helper()
	require.NoError(t, st.Users().SetActive(context.Background(), id, false))
}
