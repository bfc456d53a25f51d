// Package docstore persists singleton documents under fixed keys.
//
// Every document is a whole JSON blob: reads return it in full and writes
// replace it in full. Backends guarantee that a reader never observes a
// partially written document.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Key addresses a singleton document.
type Key string

const (
	// KeyPortfolio is the portfolio document.
	KeyPortfolio Key = "portfolio"
	// KeyAdmin is the admin credential document.
	KeyAdmin Key = "admin"
)

// ErrNotFound is returned by Store.Get when no document exists for a key.
var ErrNotFound = errors.New("document not found")

// Store is a key-value store of whole documents.
type Store interface {
	// Get returns the raw document stored under key or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)
	// Put replaces the document stored under key.
	Put(ctx context.Context, key Key, data []byte) error
	// Close releases the resources held by the store.
	Close() error
}

// Load decodes the document stored under key into a value of type T.
// If no document exists, def is returned instead.
func Load[T any](ctx context.Context, s Store, key Key, def T) (T, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to read %s document: %w", key, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return def, fmt.Errorf("failed to decode %s document: %w", key, err)
	}
	return v, nil
}

// Save encodes v as indented JSON and stores it under key.
func Save[T any](ctx context.Context, s Store, key Key, v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", key, err)
	}
	if err := s.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s document: %w", key, err)
	}
	return nil
}
