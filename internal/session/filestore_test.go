package session_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/clubauth/internal/session"
)

func newFileStore(t *testing.T) *session.FileStore {
	t.Helper()
	return session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestFileStore_LoadAbsent(t *testing.T) {
	fs := newFileStore(t)
	s, err := fs.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestFileStore_SaveLoadClear(t *testing.T) {
	fs := newFileStore(t)
	ctx := context.Background()

	in := &session.StoredSession{Token: "tok", ExpiresAt: 123456789}
	require.NoError(t, fs.Save(ctx, in))

	out, err := fs.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, in, out)

	require.NoError(t, fs.Clear(ctx))
	out, err = fs.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, out)

	// Clear sobre storage ya vacío no falla
	require.NoError(t, fs.Clear(ctx))
}

func TestFileStore_CorruptContentIsAbsent(t *testing.T) {
	// contenido corrupto o estructuralmente inválido => nil, nunca error
	cases := map[string]string{
		"not json":        `{{{not json`,
		"wrong shape":     `[1,2,3]`,
		"empty token":     `{"token":"","expiresAt":123}`,
		"no expiresAt":    `{"token":"tok"}`,
		"string expires":  `{"token":"tok","expiresAt":"soon"}`,
		"empty file":      ``,
		"negative expiry": `{"token":"tok","expiresAt":-5}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			fs := newFileStore(t)
			require.NoError(t, os.WriteFile(fs.Path, []byte(content), 0600))

			s, err := fs.Load(context.Background())
			require.NoError(t, err)
			require.Nil(t, s)
		})
	}
}
