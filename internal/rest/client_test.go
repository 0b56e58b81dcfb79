package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/searchdeck/internal/apitest"
	"github.com/kailas-cloud/searchdeck/internal/domain"
	"github.com/kailas-cloud/searchdeck/internal/logger"
)

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, nil, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient_BadURL(t *testing.T) {
	if _, err := NewClient("not-a-url", nil, nil); err == nil {
		t.Fatal("expected error for relative base url")
	}
}

func TestSearchDocuments(t *testing.T) {
	srv := apitest.New(t)
	srv.SeedDocument("Vector Databases", "An overview of vector search engines", nil)
	srv.SeedDocument("Cooking", "How to bake bread at home", nil)

	c := newClient(t, srv.URL)
	results, err := c.SearchDocuments(context.Background(), "vector search", domain.SearchParams{})
	if err != nil {
		t.Fatalf("SearchDocuments: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].ID != "doc-1" {
		t.Errorf("hit id = %q, want doc-1", results[0].ID)
	}
	if results[0].Score < 0 || results[0].Score > 1 {
		t.Errorf("score %f out of [0,1]", results[0].Score)
	}
}

func TestSearchDocuments_EmptyResult(t *testing.T) {
	srv := apitest.New(t)
	srv.SetSearchResults([]domain.SearchResult{})

	c := newClient(t, srv.URL)
	results, err := c.SearchDocuments(context.Background(), "vector search", domain.SearchParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestSearchDocuments_HTTPError(t *testing.T) {
	srv := apitest.New(t)
	srv.FailSearch(http.StatusInternalServerError, "index offline")

	c := newClient(t, srv.URL)
	_, err := c.SearchDocuments(context.Background(), "anything", domain.SearchParams{})
	he, ok := domain.AsHTTPError(err)
	if !ok {
		t.Fatalf("error %v is not an HTTPError", err)
	}
	if he.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", he.Status)
	}
	if he.Message != "index offline" {
		t.Errorf("message = %q, want index offline", he.Message)
	}
}

func TestNetworkError(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newClient(t, url)
	_, err := c.ListDocuments(context.Background())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("error %v, want ErrNetwork", err)
	}
}

func TestParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	_, err := c.AuthStatus(context.Background())
	if !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("error %v, want ErrDecode", err)
	}
}

func TestListDocuments_BareAndWrapped(t *testing.T) {
	srv := apitest.New(t)
	srv.SeedDocument("First", "some document content", nil)

	c := newClient(t, srv.URL)
	docs, err := c.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("bare list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "doc-1" {
		t.Fatalf("bare docs = %+v", docs)
	}

	srv.WrapDocuments(true)
	docs, err = c.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("wrapped list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "doc-1" {
		t.Fatalf("wrapped docs = %+v", docs)
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	doc, err := c.CreateDocument(ctx, domain.DocumentInput{
		Title: "Valid Title", Content: "fifteen chars!!",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if doc.ID != "doc-1" {
		t.Fatalf("created id = %q, want doc-1", doc.ID)
	}

	updated, err := c.UpdateDocument(ctx, doc.ID, domain.DocumentInput{
		Title: "New Title", Content: "replacement content",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "New Title" {
		t.Errorf("title = %q", updated.Title)
	}

	if err := c.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if docs := srv.Documents(); len(docs) != 0 {
		t.Errorf("server still holds %d documents", len(docs))
	}
}

func TestAuthFlow(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	// no session yet
	if _, err := c.AuthStatus(ctx); err == nil {
		t.Fatal("expected 401 before login")
	}

	user, err := c.Login(ctx, "admin", "admin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "admin" {
		t.Errorf("username = %q", user.Username)
	}

	// cookie session now travels with the client
	user, err = c.AuthStatus(ctx)
	if err != nil {
		t.Fatalf("status after login: %v", err)
	}
	if user.Username != "admin" {
		t.Errorf("status username = %q", user.Username)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := c.AuthStatus(ctx); err == nil {
		t.Fatal("expected 401 after logout")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv.URL)

	_, err := c.Login(context.Background(), "admin", "wrong")
	he, ok := domain.AsHTTPError(err)
	if !ok {
		t.Fatalf("error %v is not an HTTPError", err)
	}
	if he.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", he.Status)
	}
	if he.Message != "invalid credentials" {
		t.Errorf("message = %q", he.Message)
	}
}

func TestSearchHealth(t *testing.T) {
	srv := apitest.New(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	if err := c.SearchHealth(ctx); err != nil {
		t.Fatalf("healthy probe: %v", err)
	}

	srv.SetHealthOK(false)
	err := c.SearchHealth(ctx)
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("error %v, want ErrServiceUnavailable", err)
	}
}

func TestDo_PrefersContextLogger(t *testing.T) {
	srv := apitest.New(t)
	srv.SetSearchResults([]domain.SearchResult{})
	c := newClient(t, srv.URL)

	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.WithContext(context.Background(), zap.New(core))

	if _, err := c.SearchDocuments(ctx, "anything", domain.SearchParams{}); err != nil {
		t.Fatalf("SearchDocuments: %v", err)
	}
	if got := logs.FilterMessage("request completed").Len(); got != 1 {
		t.Fatalf("context logger saw %d completion entries, want 1", got)
	}
}
