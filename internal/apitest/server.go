// Package apitest runs an in-process fake of the document-search service
// for client tests. It implements the consumed REST surface with an
// in-memory document store, cookie sessions, and per-surface failure
// injection.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/searchdeck/internal/domain"
)

const sessionCookie = "sd_session"

// forced is an injected failure response for one surface.
type forced struct {
	status  int
	message string
}

// Server is the fake search service.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	docs    []domain.Document
	nextID  int
	users   map[string]string // username -> password
	results []domain.SearchResult

	healthOK   bool
	failDocs   *forced
	failSearch *forced

	wrapDocuments bool // respond with {documents: [...]} instead of a bare array
}

// New starts a fake service with one known user (admin/admin).
func New(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		nextID:   1,
		users:    map[string]string{"admin": "admin"},
		healthOK: true,
	}

	r := chi.NewRouter()
	r.Get("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/documents", s.handleList)
	r.Post("/api/v1/documents", s.handleCreate)
	r.Put("/api/v1/documents/{id}", s.handleUpdate)
	r.Delete("/api/v1/documents/{id}", s.handleDelete)
	r.Get("/api/auth/status", s.handleStatus)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/logout", s.handleLogout)
	r.Get("/api/search/health", s.handleHealth)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)
	return s
}

// SeedDocument inserts a document directly into the store.
func (s *Server) SeedDocument(title, content string, metadata map[string]string) domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.insertLocked(domain.DocumentInput{Title: title, Content: content, Metadata: metadata})
	return doc
}

// Documents returns a copy of the stored collection.
func (s *Server) Documents() []domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// SetSearchResults fixes the payload of the next search calls.
func (s *Server) SetSearchResults(results []domain.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = results
}

// SetHealthOK toggles the search health probe.
func (s *Server) SetHealthOK(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthOK = ok
}

// FailDocuments makes every document operation answer status/message until
// reset with status 0.
func (s *Server) FailDocuments(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		s.failDocs = nil
		return
	}
	s.failDocs = &forced{status: status, message: message}
}

// FailSearch makes every search answer status/message until reset with 0.
func (s *Server) FailSearch(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		s.failSearch = nil
		return
	}
	s.failSearch = &forced{status: status, message: message}
}

// WrapDocuments switches the list payload to the {documents: [...]} envelope.
func (s *Server) WrapDocuments(wrap bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wrapDocuments = wrap
}

func (s *Server) insertLocked(in domain.DocumentInput) domain.Document {
	now := time.Now().UTC().Truncate(time.Second)
	doc := domain.Document{
		ID:        fmt.Sprintf("doc-%d", s.nextID),
		Title:     in.Title,
		Content:   in.Content,
		Metadata:  in.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.docs = append(s.docs, doc)
	return doc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSearch != nil {
		writeMessage(w, s.failSearch.status, s.failSearch.message)
		return
	}

	if s.results != nil {
		writeJSON(w, http.StatusOK, s.results)
		return
	}

	// naive substring match over stored documents
	query := strings.ToLower(r.URL.Query().Get("query"))
	hits := []domain.SearchResult{}
	for _, d := range s.docs {
		if strings.Contains(strings.ToLower(d.Content), query) ||
			strings.Contains(strings.ToLower(d.Title), query) {
			hits = append(hits, domain.SearchResult{
				ID: d.ID, Title: d.Title, Content: d.Content, Score: 0.9, Metadata: d.Metadata,
			})
		}
	}
	writeJSON(w, http.StatusOK, hits)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDocs != nil {
		writeMessage(w, s.failDocs.status, s.failDocs.message)
		return
	}
	docs := s.docs
	if docs == nil {
		docs = []domain.Document{}
	}
	if s.wrapDocuments {
		writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDocs != nil {
		writeMessage(w, s.failDocs.status, s.failDocs.message)
		return
	}
	var in domain.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusCreated, s.insertLocked(in))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDocs != nil {
		writeMessage(w, s.failDocs.status, s.failDocs.message)
		return
	}
	id := chi.URLParam(r, "id")
	var in domain.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for i := range s.docs {
		if s.docs[i].ID == id {
			s.docs[i].Title = in.Title
			s.docs[i].Content = in.Content
			s.docs[i].Metadata = in.Metadata
			s.docs[i].UpdatedAt = time.Now().UTC().Truncate(time.Second)
			writeJSON(w, http.StatusOK, s.docs[i])
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "document not found")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDocs != nil {
		writeMessage(w, s.failDocs.status, s.failDocs.message)
		return
	}
	id := chi.URLParam(r, "id")
	for i := range s.docs {
		if s.docs[i].ID == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "document not found")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		writeMessage(w, http.StatusUnauthorized, "no active session")
		return
	}
	writeJSON(w, http.StatusOK, domain.User{ID: "u-1", Username: cookie.Value})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	pass, ok := s.users[req.Username]
	s.mu.Unlock()
	if !ok || pass != req.Password {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: req.Username, Path: "/"})
	writeJSON(w, http.StatusOK, domain.User{ID: "u-1", Username: req.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	ok := s.healthOK
	s.mu.Unlock()
	if !ok {
		writeMessage(w, http.StatusServiceUnavailable, "search backend down")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
