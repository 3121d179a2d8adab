package cryptox

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/require"
)

// Tests run at the minimum cost so the suite stays fast.
var testHasher = NewHasher(MinCost)

func TestHashProducesUniqueSaltedHashes(t *testing.T) {
	t.Parallel()

	first, err := testHasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	second, err := testHasher.Hash("correct horse battery staple")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, strings.HasPrefix(first, "$2"))
	require.NotContains(t, first, "correct horse")
}

func TestVerify(t *testing.T) {
	t.Parallel()

	hash, err := testHasher.Hash("longenough1")
	require.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		ok, err := testHasher.Verify("longenough1", hash)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("mismatch is false, not an error", func(t *testing.T) {
		ok, err := testHasher.Verify("wrong password", hash)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("malformed stored hash is an error", func(t *testing.T) {
		ok, err := testHasher.Verify("longenough1", "not-a-bcrypt-hash")
		require.ErrorIs(t, err, ErrMalformedHash)
		require.False(t, ok)
	})
}

func TestNewHasherClampsCost(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultCost, NewHasher(0).Cost)
	require.Equal(t, MinCost, NewHasher(4).Cost)
	require.Equal(t, MaxCost, NewHasher(31).Cost)
	require.Equal(t, 12, NewHasher(12).Cost)
}

func TestHashRespectsConfiguredCost(t *testing.T) {
	t.Parallel()

	hash, err := NewHasher(MinCost).Hash("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, MinCost, cost)
}
