package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FS stores artifacts as files under a root directory, one
// subdirectory per kind. Writes go through O_EXCL so a key can never
// be written twice.
type FS struct {
	root string
}

func NewFS(root string) (*FS, error) {
	for _, kind := range []Kind{KindAudio, KindImage, KindChart} {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("error creating storage directory: %w", err)
		}
	}
	return &FS{root: root}, nil
}

func (s *FS) Put(ctx context.Context, kind Kind, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := string(kind) + "/" + uuid.NewString()

	f, err := os.OpenFile(filepath.Join(s.root, filepath.FromSlash(key)),
		os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("error creating artifact file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("error writing artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing artifact file: %w", err)
	}

	return key, nil
}

func (s *FS) Open(key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error opening artifact: %w", err)
	}
	return f, nil
}

// resolve rejects keys that would escape the storage root.
func (s *FS) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", ErrNotFound
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}
