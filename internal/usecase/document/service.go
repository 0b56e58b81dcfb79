// Package document orchestrates document CRUD against the remote service:
// input validation, busy guards, re-fetch after mutation, and the user
// notifications each outcome produces.
package document

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdeck/internal/domain"
	"github.com/kailas-cloud/searchdeck/internal/rest"
)

// Service handles the document collection. After create and update it
// re-fetches the full list rather than patching locally; delete is the
// one operation whose result the caller applies locally.
type Service struct {
	api    API
	notes  Notifier
	logger *zap.Logger

	saving   *rest.Lifecycle
	deleting *rest.Lifecycle
}

// New creates a document service.
func New(api API, notes Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:      api,
		notes:    notes,
		logger:   logger,
		saving:   rest.NewLifecycle("document save"),
		deleting: rest.NewLifecycle("document delete"),
	}
}

// Refresh fetches the full document collection.
func (s *Service) Refresh(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh documents: %w", err)
	}
	return docs, nil
}

// Create validates the input, submits it and returns the re-fetched
// collection. Validation errors come back field-scoped for the form;
// no notification is raised for them.
func (s *Service) Create(ctx context.Context, in domain.DocumentInput) ([]domain.Document, error) {
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.saving.Acquire(); err != nil {
		return nil, err
	}
	defer s.saving.Release()

	doc, err := s.api.CreateDocument(ctx, in)
	if err != nil {
		s.notes.Error(domain.UserMessage("Failed to create document", err))
		return nil, err
	}
	s.logger.Debug("document created", zap.String("id", doc.ID))

	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		// The mutation landed; only the re-fetch failed.
		s.notes.Error(domain.UserMessage("Document created, but refreshing the list failed", err))
		return nil, fmt.Errorf("refresh after create: %w", err)
	}

	s.notes.Success("Document created successfully")
	return docs, nil
}

// Update replaces the document with the given id and returns the
// re-fetched collection.
func (s *Service) Update(ctx context.Context, id string, in domain.DocumentInput) ([]domain.Document, error) {
	in = in.Normalized()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if err := s.saving.Acquire(); err != nil {
		return nil, err
	}
	defer s.saving.Release()

	if _, err := s.api.UpdateDocument(ctx, id, in); err != nil {
		s.notes.Error(domain.UserMessage("Failed to update document", err))
		return nil, err
	}
	s.logger.Debug("document updated", zap.String("id", id))

	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		s.notes.Error(domain.UserMessage("Document updated, but refreshing the list failed", err))
		return nil, fmt.Errorf("refresh after update: %w", err)
	}

	s.notes.Success("Document updated successfully")
	return docs, nil
}

// Delete removes the document. On success the caller drops the entry
// from its local copy instead of re-fetching.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.deleting.Acquire(); err != nil {
		return err
	}
	defer s.deleting.Release()

	if err := s.api.DeleteDocument(ctx, id); err != nil {
		s.notes.Error(domain.UserMessage("Failed to delete document", err))
		return err
	}

	s.notes.Success("Document deleted successfully")
	return nil
}

// Saving reports whether a create or update is in flight.
func (s *Service) Saving() bool { return s.saving.Busy() }

// Deleting reports whether a delete is in flight.
func (s *Service) Deleting() bool { return s.deleting.Busy() }
