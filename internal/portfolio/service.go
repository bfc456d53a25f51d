package portfolio

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/vitrine/internal/docstore"
)

// Service reads and replaces the portfolio document.
type Service struct {
	store docstore.Store
}

// NewService creates a portfolio service on top of store.
func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// Get returns the stored portfolio, or the default one if nothing was saved yet.
// The LLM API key is always removed.
func (s *Service) Get(ctx context.Context) (Document, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return Document{}, err
	}
	return doc.Redacted(), nil
}

// Save replaces the stored portfolio with doc.
func (s *Service) Save(ctx context.Context, doc Document) error {
	doc.normalize()
	if err := docstore.Save(ctx, s.store, docstore.KeyPortfolio, doc); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	log.Info("portfolio saved",
		"skills", len(doc.Skills),
		"experience", len(doc.Experience),
		"projects", len(doc.Projects),
		"education", len(doc.Education),
	)
	return nil
}

// LLMSettings returns the provider and API key configured in the stored settings.
// The key never leaves the server; it is only handed to the resume extractor.
func (s *Service) LLMSettings(ctx context.Context) (provider string, apiKey *string, err error) {
	doc, err := s.load(ctx)
	if err != nil {
		return "", nil, err
	}
	return doc.Settings.LLMProvider, doc.Settings.LLMAPIKey, nil
}

func (s *Service) load(ctx context.Context) (Document, error) {
	doc, err := docstore.Load(ctx, s.store, docstore.KeyPortfolio, Default())
	if err != nil {
		return Document{}, fmt.Errorf("failed to load portfolio: %w", err)
	}
	doc.normalize()
	return doc, nil
}
