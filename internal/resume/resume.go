// Package resume stores uploaded resumes and hands them to an extractor.
package resume

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/vitrine/internal/upload"
)

// ErrNotImplemented is returned by extractors that cannot produce data yet.
var ErrNotImplemented = errors.New("resume extraction is not implemented")

// Extractor turns a stored resume into portfolio data.
type Extractor interface {
	Extract(ctx context.Context, asset upload.Asset, provider string, apiKey *string) (map[string]any, error)
}

// Placeholder is the extractor used until a real one is wired in.
type Placeholder struct{}

// Extract always fails with ErrNotImplemented.
func (Placeholder) Extract(context.Context, upload.Asset, string, *string) (map[string]any, error) {
	return nil, ErrNotImplemented
}

// SettingsSource provides the configured LLM provider and key.
type SettingsSource interface {
	LLMSettings(ctx context.Context) (string, *string, error)
}

// Result is the response to a resume upload.
type Result struct {
	Message       string         `json:"message"`
	Filename      string         `json:"filename,omitempty"`
	Note          string         `json:"note,omitempty"`
	ExtractedData map[string]any `json:"extractedData,omitempty"`
}

// Service handles resume uploads.
type Service struct {
	uploads   *upload.Handler
	limits    upload.Limits
	settings  SettingsSource
	extractor Extractor
}

// NewService creates a resume service.
func NewService(uploads *upload.Handler, limits upload.Limits, settings SettingsSource, extractor Extractor) *Service {
	if extractor == nil {
		extractor = Placeholder{}
	}
	return &Service{
		uploads:   uploads,
		limits:    limits,
		settings:  settings,
		extractor: extractor,
	}
}

// Limits returns the limits resumes are checked against.
func (s *Service) Limits() upload.Limits {
	return s.limits
}

// Upload stores the resume and tries to extract portfolio data from it.
// A missing extractor implementation is reported as a successful upload.
func (s *Service) Upload(ctx context.Context, r io.Reader, filename string) (Result, error) {
	asset, err := s.uploads.Accept(ctx, r, filename, s.limits)
	if err != nil {
		return Result{}, err
	}

	provider, apiKey, err := s.settings.LLMSettings(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load llm settings: %w", err)
	}

	data, err := s.extractor.Extract(ctx, asset, provider, apiKey)
	switch {
	case errors.Is(err, ErrNotImplemented):
		log.Debug("Resume extraction skipped", "name", asset.Name, "provider", provider)
		return Result{
			Message:  "Resume uploaded but AI parsing is not yet implemented",
			Filename: asset.Name,
			Note:     "Please fill in your information manually in the admin panel",
		}, nil
	case err != nil:
		return Result{}, fmt.Errorf("failed to extract resume: %w", err)
	}

	return Result{
		Message:       "Resume uploaded and parsed",
		ExtractedData: data,
	}, nil
}
