package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/natefinch/atomic"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps every document in <dir>/<key>.json.
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so readers see either the old or the new document.
type FileStore struct {
	dir string
}

// NewFileStore creates a file backed store rooted at dir, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file a key is stored in.
func (s *FileStore) Path(key Key) string {
	return filepath.Join(s.dir, string(key)+".json")
}

// Get reads the document stored under key.
func (s *FileStore) Get(_ context.Context, key Key) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put atomically replaces the document stored under key.
func (s *FileStore) Put(_ context.Context, key Key, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	path := s.Path(key)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	log.Debug("document written", "key", key, "path", path, "bytes", len(data))
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

func validateKey(key Key) error {
	if key == "" || strings.ContainsAny(string(key), `/\.`) {
		return fmt.Errorf("invalid document key %q", key)
	}
	return nil
}
