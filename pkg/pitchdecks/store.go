package pitchdecks

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore keeps uploaded deck bytes outside the database.
type FileStore interface {
	Save(r io.Reader, ext string) (key string, size int64, err error)
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
}

type diskFileStore struct {
	dir string
}

func NewDiskFileStore(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &diskFileStore{dir: dir}, nil
}

func (s *diskFileStore) path(key string) (string, error) {
	// keys are generated here, anything with a separator came from elsewhere
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

func (s *diskFileStore) Save(r io.Reader, ext string) (string, int64, error) {
	key := uuid.NewString() + ext
	p, err := s.path(key)
	if err != nil {
		return "", 0, err
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	return key, n, nil
}

func (s *diskFileStore) Open(key string) (io.ReadCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileMissing
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (s *diskFileStore) Remove(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}
