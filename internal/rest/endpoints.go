package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/searchdeck/internal/domain"
)

// Consumed REST surface. Paths are owned by the search service; the client
// only issues the documented calls.
const (
	pathSearch       = "/api/v1/search"
	pathDocuments    = "/api/v1/documents"
	pathAuthStatus   = "/api/auth/status"
	pathAuthLogin    = "/api/auth/login"
	pathAuthLogout   = "/api/auth/logout"
	pathSearchHealth = "/api/search/health"
)

// SearchDocuments runs a semantic search.
func (c *Client) SearchDocuments(
	ctx context.Context, query string, p domain.SearchParams,
) ([]domain.SearchResult, error) {
	p = p.Clamp()
	q := url.Values{
		"query":    {query},
		"limit":    {strconv.Itoa(p.Limit)},
		"minScore": {strconv.FormatFloat(p.MinScore, 'f', -1, 64)},
	}

	var results []domain.SearchResult
	if err := c.do(ctx, http.MethodGet, pathSearch, q, nil, &results); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return results, nil
}

// documentsEnvelope covers servers that wrap the collection.
type documentsEnvelope struct {
	Documents []domain.Document `json:"documents"`
}

// ListDocuments fetches the full document collection. The payload may be a
// bare array or wrapped in a {documents: [...]} envelope.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, pathDocuments, nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var docs []domain.Document
	if err := json.Unmarshal(raw, &docs); err == nil {
		return docs, nil
	}
	var env documentsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("list documents: %w: %v", domain.ErrDecode, err)
	}
	return env.Documents, nil
}

// CreateDocument submits a new document. The server assigns the id.
func (c *Client) CreateDocument(
	ctx context.Context, in domain.DocumentInput,
) (domain.Document, error) {
	var doc domain.Document
	if err := c.do(ctx, http.MethodPost, pathDocuments, nil, in, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

// UpdateDocument replaces the document with the given id.
func (c *Client) UpdateDocument(
	ctx context.Context, id string, in domain.DocumentInput,
) (domain.Document, error) {
	var doc domain.Document
	if err := c.do(ctx, http.MethodPut, pathDocuments+"/"+url.PathEscape(id), nil, in, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

// DeleteDocument removes the document with the given id.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, pathDocuments+"/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// AuthStatus probes the server-held session and returns the identity record.
func (c *Client) AuthStatus(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, pathAuthStatus, nil, nil, &user); err != nil {
		return domain.User{}, fmt.Errorf("auth status: %w", err)
	}
	return user, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates and returns the identity record. The session cookie
// lands in the client jar.
func (c *Client) Login(ctx context.Context, username, password string) (domain.User, error) {
	var user domain.User
	body := loginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, pathAuthLogin, nil, body, &user); err != nil {
		return domain.User{}, fmt.Errorf("login: %w", err)
	}
	return user, nil
}

// Logout terminates the server-held session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, pathAuthLogout, nil, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// SearchHealth probes the search service. A classified error means the
// search surface should run in degraded mode.
func (c *Client) SearchHealth(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, pathSearchHealth, nil, nil, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}
