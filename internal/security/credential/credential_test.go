package credential_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/clubauth/internal/security/credential"
	"github.com/dropDatabas3/clubauth/internal/security/password"
)

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"equal", []byte("abc"), []byte("abc"), true},
		{"both empty", []byte{}, []byte{}, true},
		{"both nil", nil, nil, true},
		{"different content", []byte("abc"), []byte("abd"), false},
		{"different length", []byte("abc"), []byte("abcd"), false},
		{"prefix", []byte("ab"), []byte("abc"), false},
		{"one empty", []byte{}, []byte("a"), false},
		{"one nil", nil, []byte("a"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// no debe entrar en pánico con longitudes distintas
			require.Equal(t, tc.want, credential.Equal(tc.a, tc.b))
			require.Equal(t, tc.want, credential.Equal(tc.b, tc.a))
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	require.Equal(t, "admin", credential.NormalizeUsername("  Admin  "))
	require.Equal(t, "admin", credential.NormalizeUsername("ADMIN"))
	require.Equal(t, "", credential.NormalizeUsername("   "))
}

func TestUsernameMatches(t *testing.T) {
	require.True(t, credential.UsernameMatches("Admin", "admin"))
	require.True(t, credential.UsernameMatches(" admin ", "ADMIN"))
	require.False(t, credential.UsernameMatches("admin2", "admin"))
}

func TestVerifyPassword_SHA256Hex(t *testing.T) {
	ref := credential.SHA256Hex("correct-pw")

	require.True(t, credential.VerifyPassword("correct-pw", ref))
	require.False(t, credential.VerifyPassword("wrong-pw", ref))
	require.False(t, credential.VerifyPassword("correct-pw", "not-hex!"))
	require.False(t, credential.VerifyPassword("correct-pw", ""))
}

func TestVerifyPassword_Argon2idPHC(t *testing.T) {
	phc, err := password.Hash(password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}, "correct-pw")
	require.NoError(t, err)

	require.True(t, credential.VerifyPassword("correct-pw", phc))
	require.False(t, credential.VerifyPassword("wrong-pw", phc))
	require.False(t, credential.VerifyPassword("correct-pw", "$argon2id$broken"))
}
