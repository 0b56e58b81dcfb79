package document

import (
	"context"

	"github.com/kailas-cloud/searchdeck/internal/domain"
)

// API is the slice of the REST client the document service needs.
type API interface {
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	CreateDocument(ctx context.Context, in domain.DocumentInput) (domain.Document, error)
	UpdateDocument(ctx context.Context, id string, in domain.DocumentInput) (domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// Notifier publishes transient user-facing messages.
type Notifier interface {
	Success(message string) int64
	Error(message string) int64
}
