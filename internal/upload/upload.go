// Package upload validates and stores user supplied assets.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jon4hz/vitrine/internal/blobstore"
	"github.com/jon4hz/vitrine/internal/config"
	"github.com/samber/lo"
)

// Kind is the category of an upload. It doubles as the key prefix in the blob store.
type Kind string

const (
	KindPhoto  Kind = "photos"
	KindResume Kind = "resumes"
)

// Kinds lists every known upload kind.
var Kinds = []Kind{KindPhoto, KindResume}

var (
	// PhotoExtensions are the accepted profile photo extensions.
	PhotoExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	// ResumeExtensions are the accepted resume extensions.
	ResumeExtensions = []string{".pdf", ".doc", ".docx"}
)

var (
	// ErrPayloadTooLarge indicates an upload above the configured ceiling.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrUnsupportedType indicates an upload with a rejected extension or unreadable content.
	ErrUnsupportedType = errors.New("unsupported type")
)

// TooLargeError reports the ceiling an upload exceeded.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("File size exceeds %s limit", formatBytes(e.Limit))
}

func (e *TooLargeError) Unwrap() error { return ErrPayloadTooLarge }

// UnsupportedTypeError reports a rejected upload together with what would have been accepted.
type UnsupportedTypeError struct {
	Extension string
	Allowed   []string
}

func (e *UnsupportedTypeError) Error() string {
	names := lo.Map(e.Allowed, func(ext string, _ int) string {
		return strings.ToUpper(strings.TrimPrefix(ext, "."))
	})
	return "Invalid file type. Allowed: " + strings.Join(names, ", ")
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedType }

// Limits describes what an upload of a given kind may look like.
type Limits struct {
	Kind       Kind
	MaxBytes   int64
	Extensions []string
	// MaxDimension bounds the width and height of images. 0 disables resizing.
	MaxDimension int
}

// PhotoLimits returns the photo limits from the upload configuration.
func PhotoLimits(cfg *config.UploadsConfig) Limits {
	return Limits{
		Kind:         KindPhoto,
		MaxBytes:     cfg.PhotoMaxBytes,
		Extensions:   PhotoExtensions,
		MaxDimension: cfg.PhotoMaxDimension,
	}
}

// ResumeLimits returns the resume limits from the upload configuration.
func ResumeLimits(cfg *config.UploadsConfig) Limits {
	return Limits{
		Kind:       KindResume,
		MaxBytes:   cfg.ResumeMaxBytes,
		Extensions: ResumeExtensions,
	}
}

// Asset is a stored upload.
type Asset struct {
	// Name is the generated file name, "<uuid><ext>".
	Name string
	// Key is the blob store key, "<kind>/<name>".
	Key string
	// URL is the public path the asset is served under.
	URL  string
	Size int64
}

// Handler validates uploads and writes them to a blob store.
type Handler struct {
	store blobstore.Store
}

// New creates an upload handler backed by store.
func New(store blobstore.Store) *Handler {
	return &Handler{store: store}
}

// Accept reads the upload from r and stores it under a fresh name if it
// satisfies limits. Nothing is written when validation fails.
func (h *Handler) Accept(ctx context.Context, r io.Reader, filename string, limits Limits) (Asset, error) {
	data, err := io.ReadAll(io.LimitReader(r, limits.MaxBytes+1))
	if err != nil {
		return Asset{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limits.MaxBytes {
		log.Debug("Rejected upload", "kind", limits.Kind, "filename", filename, "reason", "too large")
		return Asset{}, &TooLargeError{Limit: limits.MaxBytes}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !lo.Contains(limits.Extensions, ext) {
		log.Debug("Rejected upload", "kind", limits.Kind, "filename", filename, "reason", "extension")
		return Asset{}, &UnsupportedTypeError{Extension: ext, Allowed: limits.Extensions}
	}

	if limits.MaxDimension > 0 {
		data, err = fitImage(data, ext, limits.MaxDimension)
		if err != nil {
			log.Debug("Rejected upload", "kind", limits.Kind, "filename", filename, "error", err)
			return Asset{}, &UnsupportedTypeError{Extension: ext, Allowed: limits.Extensions}
		}
	}

	name := uuid.New().String() + ext
	key := string(limits.Kind) + "/" + name
	size := int64(len(data))

	if err := h.store.Put(ctx, key, bytes.NewReader(data), size, contentType(ext)); err != nil {
		return Asset{}, fmt.Errorf("failed to store upload: %w", err)
	}

	log.Info("Stored upload", "kind", limits.Kind, "name", name, "size", formatBytes(size))

	return Asset{
		Name: name,
		Key:  key,
		URL:  "/uploads/" + key,
		Size: size,
	}, nil
}

// Open returns a stored asset by kind and name.
func (h *Handler) Open(ctx context.Context, kind Kind, name string) (*blobstore.Object, error) {
	if !lo.Contains(Kinds, kind) {
		return nil, blobstore.ErrNotFound
	}
	return h.store.Get(ctx, string(kind)+"/"+name)
}

func contentType(ext string) string {
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func formatBytes(n int64) string {
	u, err := safecast.Convert[uint64](n)
	if err != nil {
		return humanize.IBytes(0)
	}
	return humanize.IBytes(u)
}
