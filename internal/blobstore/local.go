package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

var _ Store = (*LocalStore)(nil)

// LocalStore keeps objects as files below a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a local store rooted at root, creating the
// directories in dirs below it.
func NewLocalStore(root string, dirs ...string) (*LocalStore, error) {
	for _, d := range append([]string{""}, dirs...) {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	return &LocalStore{root: root}, nil
}

func (l *LocalStore) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

// Put writes the object through a temporary file so a partial upload never
// becomes visible under its final name.
func (l *LocalStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	path := l.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := atomic.WriteFile(path, r); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Get opens the file stored under key.
func (l *LocalStore) Get(_ context.Context, key string) (*Object, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	f, err := os.Open(l.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Object{
		Body:          f,
		ContentLength: stat.Size(),
		ContentType:   contentType,
		LastModified:  stat.ModTime(),
	}, nil
}
