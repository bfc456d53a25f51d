// Package blobstore stores uploaded assets under slash separated keys.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrNotFound is returned when no object exists for a key.
var ErrNotFound = errors.New("object not found")

// Object is a stored asset opened for reading. Callers must close Body.
type Object struct {
	Body          io.ReadCloser
	ContentLength int64
	ContentType   string
	LastModified  time.Time
}

// Store persists uploaded assets.
type Store interface {
	// Put stores size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get opens the object stored under key or returns ErrNotFound.
	Get(ctx context.Context, key string) (*Object, error)
}

// validateKey accepts keys of the form "<dir>/<name>" without traversal.
func validateKey(key string) error {
	parts := strings.Split(key, "/")
	if len(parts) != 2 {
		return fmt.Errorf("invalid object key %q", key)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." || strings.Contains(p, `\`) {
			return fmt.Errorf("invalid object key %q", key)
		}
	}
	return nil
}
