package session

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/dropDatabas3/clubauth/internal/util/atomicwrite"
)

// FileStore persiste la sesión como JSON en un único archivo.
// Escritura atómica: un crash a mitad de un Save nunca deja un registro
// parcial (el par {token, expiresAt} se escribe completo o no se escribe).
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (f *FileStore) Load(ctx context.Context) (*StoredSession, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var s StoredSession
	if err := json.Unmarshal(b, &s); err != nil {
		// contenido corrupto == sesión ausente, nunca un error al caller
		return nil, nil
	}
	if s.Token == "" || s.ExpiresAt <= 0 {
		return nil, nil
	}
	return &s, nil
}

func (f *FileStore) Save(ctx context.Context, s *StoredSession) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return atomicwrite.AtomicWriteFile(f.Path, b, 0600)
}

func (f *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
