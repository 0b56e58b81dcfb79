package search

import (
	"context"

	"github.com/kailas-cloud/searchdeck/internal/domain"
)

// API is the slice of the REST client the search service needs.
type API interface {
	SearchDocuments(ctx context.Context, query string, p domain.SearchParams) ([]domain.SearchResult, error)
	SearchHealth(ctx context.Context) error
}

// Recorder persists successful queries for later recall.
type Recorder interface {
	Record(ctx context.Context, query string) error
}

// Notifier publishes transient user-facing messages.
type Notifier interface {
	Info(message string) int64
	Success(message string) int64
	Error(message string) int64
}
