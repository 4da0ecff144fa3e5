package storage

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestFS(t *testing.T) {
	ctx := context.Background()

	t.Run("PutAndOpen", func(t *testing.T) {
		fs, err := NewFS(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		key, err := fs.Put(ctx, KindAudio, []byte("wav bytes"))
		if err != nil {
			t.Fatalf("failed to put artifact: %v", err)
		}

		reader, err := fs.Open(key)
		if err != nil {
			t.Fatalf("failed to open artifact: %v", err)
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("failed to read artifact: %v", err)
		}
		if string(data) != "wav bytes" {
			t.Errorf("expected %q, got %q", "wav bytes", data)
		}
	})

	t.Run("FreshKeys", func(t *testing.T) {
		fs, err := NewFS(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		seen := map[string]bool{}
		for i := 0; i < 10; i++ {
			key, err := fs.Put(ctx, KindChart, []byte("chart"))
			if err != nil {
				t.Fatalf("failed to put artifact: %v", err)
			}
			if seen[key] {
				t.Fatalf("key %q was generated twice", key)
			}
			seen[key] = true
		}
	})

	t.Run("OpenMissing", func(t *testing.T) {
		fs, err := NewFS(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if _, err := fs.Open("audio/no-such-key"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RejectsTraversal", func(t *testing.T) {
		fs, err := NewFS(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if _, err := fs.Open("../etc/passwd"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for traversal key, got %v", err)
		}
		if _, err := fs.Open(""); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for empty key, got %v", err)
		}
	})
}
