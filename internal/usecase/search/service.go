// Package search runs queries against the remote service and owns the
// side effects of a completed search: history recording and result
// notifications.
package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdeck/internal/domain"
	"github.com/kailas-cloud/searchdeck/internal/rest"
)

// Service executes searches. A query is recorded in history only after
// the service answered it successfully; failed searches leave history
// untouched.
type Service struct {
	api     API
	history Recorder
	notes   Notifier
	logger  *zap.Logger

	inflight *rest.Lifecycle
}

// New creates a search service.
func New(api API, history Recorder, notes Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:      api,
		history:  history,
		notes:    notes,
		logger:   logger,
		inflight: rest.NewLifecycle("search"),
	}
}

// Search runs a query. Whitespace-only queries fail fast with
// domain.ErrEmptyQuery before any network traffic.
func (s *Service) Search(ctx context.Context, query string, p domain.SearchParams) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	if err := s.inflight.Acquire(); err != nil {
		return nil, err
	}
	defer s.inflight.Release()

	results, err := s.api.SearchDocuments(ctx, query, p)
	if err != nil {
		s.notes.Error(domain.UserMessage("Search failed", err))
		return nil, err
	}

	if err := s.history.Record(ctx, query); err != nil {
		// History is a convenience; a persistence hiccup must not fail the search.
		s.logger.Warn("recording search history failed", zap.String("query", query), zap.Error(err))
	}

	if len(results) == 0 {
		s.notes.Info("No results found")
	} else {
		s.notes.Success(fmt.Sprintf("Found %d results", len(results)))
	}
	return results, nil
}

// Health probes the search subsystem of the remote service.
func (s *Service) Health(ctx context.Context) error {
	if err := s.api.SearchHealth(ctx); err != nil {
		return fmt.Errorf("search health: %w", err)
	}
	return nil
}

// Searching reports whether a query is in flight.
func (s *Service) Searching() bool { return s.inflight.Busy() }
