package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashCompareRoundTrip(t *testing.T) {
	hasher := NewArgon2Hasher(nil)

	encoded, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	require.NoError(t, hasher.Compare(encoded, "correct horse battery staple"))
	require.ErrorIs(t, hasher.Compare(encoded, "wrong password"), ErrPasswordMismatch)
}

func TestHashIsSalted(t *testing.T) {
	hasher := NewArgon2Hasher(nil)

	a, err := hasher.Hash("same password")
	require.NoError(t, err)
	b, err := hasher.Hash("same password")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestCompareUsesStoredParams(t *testing.T) {
	// Hash produit avec des paramètres faibles, vérifié par un hasher
	// configuré plus fort : doit quand même matcher.
	weak := NewArgon2Hasher(&Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	encoded, err := weak.Hash("pass")
	require.NoError(t, err)

	strong := NewArgon2Hasher(nil)
	require.NoError(t, strong.Compare(encoded, "pass"))
}

func TestCompareRejectsMalformed(t *testing.T) {
	hasher := NewArgon2Hasher(nil)

	for _, bad := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=2$not-base64!!$aGFzaA",
	} {
		require.Error(t, hasher.Compare(bad, "pass"), "input %q", bad)
	}
}
