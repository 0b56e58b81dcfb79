// Package view keeps the client-side presentation state: active tab,
// document list, selection, editing buffer, search results and theme.
// It is the single writer of that state; services only report outcomes.
package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdeck/internal/domain"
	"github.com/kailas-cloud/searchdeck/internal/kvstore"
)

// Tab identifies the active pane.
type Tab string

const (
	TabSearch    Tab = "search"
	TabDocuments Tab = "documents"
)

// Theme values persisted under kvstore.KeyTheme.
const (
	themeDark  = "dark"
	themeLight = "light"
)

// Searcher runs queries.
type Searcher interface {
	Search(ctx context.Context, query string, p domain.SearchParams) ([]domain.SearchResult, error)
}

// DocumentManager mutates the remote document collection.
type DocumentManager interface {
	Refresh(ctx context.Context) ([]domain.Document, error)
	Create(ctx context.Context, in domain.DocumentInput) ([]domain.Document, error)
	Update(ctx context.Context, id string, in domain.DocumentInput) ([]domain.Document, error)
	Delete(ctx context.Context, id string) error
}

// SessionReader exposes the current session snapshot.
type SessionReader interface {
	Snapshot() domain.Session
}

// State is an immutable copy of the coordinator's state.
type State struct {
	Tab       Tab
	Documents []domain.Document
	Selected  *domain.Document
	Editing   *domain.Document
	Results   []domain.SearchResult
	LastQuery string
	DarkMode  bool
}

// Coordinator owns presentation state. Search responses carry the
// generation they were issued under; a response whose generation is no
// longer current is discarded, so a slow old search can never overwrite
// the results of a newer one.
type Coordinator struct {
	searcher Searcher
	docs     DocumentManager
	session  SessionReader
	kv       kvstore.Store
	logger   *zap.Logger

	gen atomic.Uint64

	mu        sync.Mutex
	tab       Tab
	documents []domain.Document
	selected  *domain.Document
	editing   *domain.Document
	results   []domain.SearchResult
	lastQuery string
	darkMode  bool
}

// New creates a coordinator on the search tab and restores the persisted
// theme preference.
func New(ctx context.Context, searcher Searcher, docs DocumentManager, session SessionReader, kv kvstore.Store, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		searcher: searcher,
		docs:     docs,
		session:  session,
		kv:       kv,
		logger:   logger,
		tab:      TabSearch,
	}
	if v, ok, err := kv.Get(ctx, kvstore.KeyTheme); err != nil {
		logger.Warn("loading theme preference failed", zap.Error(err))
	} else if ok {
		c.darkMode = v == themeDark
	}
	return c
}

// SetTab switches the active pane.
func (c *Coordinator) SetTab(tab Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tab = tab
}

// RunSearch issues a query and commits its results only when no newer
// search started in the meantime. A failed search clears the displayed
// results; a stale response leaves the newer commit untouched.
func (c *Coordinator) RunSearch(ctx context.Context, query string, p domain.SearchParams) ([]domain.SearchResult, error) {
	gen := c.gen.Add(1)

	results, err := c.searcher.Search(ctx, query, p)
	if err != nil {
		if errors.Is(err, domain.ErrBusy) || errors.Is(err, domain.ErrEmptyQuery) {
			// The request was never admitted: it must not count as a
			// newer generation, or the in-flight search it lost to
			// would discard its own response as stale.
			c.gen.CompareAndSwap(gen, gen-1)
			return nil, err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen.Load() == gen {
			c.results = nil
		}
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen.Load() != gen {
		c.logger.Debug("discarding stale search response", zap.String("query", query))
		return results, nil
	}
	c.results = results
	c.lastQuery = query
	return results, nil
}

// LoadDocuments fetches the collection and commits it.
func (c *Coordinator) LoadDocuments(ctx context.Context) error {
	docs, err := c.docs.Refresh(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setDocumentsLocked(docs)
	return nil
}

// Select marks the document with the given id as selected. An unknown id
// clears the selection.
func (c *Coordinator) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = c.findLocked(id)
}

// StartEditing opens the editing buffer on an existing document.
func (c *Coordinator) StartEditing(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc := c.findLocked(id)
	c.editing = doc
	return doc != nil
}

// CancelEditing discards the editing buffer.
func (c *Coordinator) CancelEditing() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
}

// SaveDocument creates a new document, or updates the one being edited
// when the editing buffer is open. A successful save closes the buffer
// and commits the re-fetched collection.
func (c *Coordinator) SaveDocument(ctx context.Context, in domain.DocumentInput) error {
	c.mu.Lock()
	editing := c.editing
	c.mu.Unlock()

	var (
		docs []domain.Document
		err  error
	)
	if editing != nil {
		docs, err = c.docs.Update(ctx, editing.ID, in)
	} else {
		docs, err = c.docs.Create(ctx, in)
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
	c.setDocumentsLocked(docs)
	return nil
}

// DeleteDocument removes a document. It requires an authenticated
// session and an explicit confirmation; without the latter it returns
// domain.ErrConfirmationRequired so the caller can ask. On success the
// entry is dropped from the local copy instead of re-fetching.
func (c *Coordinator) DeleteDocument(ctx context.Context, id string, confirmed bool) error {
	if !c.session.Snapshot().IsAuthenticated {
		return domain.ErrNotAuthenticated
	}
	if !confirmed {
		return domain.ErrConfirmationRequired
	}

	if err := c.docs.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.documents[:0]
	for _, d := range c.documents {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	c.documents = kept
	if c.selected != nil && c.selected.ID == id {
		c.selected = nil
	}
	if c.editing != nil && c.editing.ID == id {
		c.editing = nil
	}
	return nil
}

// ToggleDarkMode flips the theme and persists the preference.
func (c *Coordinator) ToggleDarkMode(ctx context.Context) bool {
	c.mu.Lock()
	c.darkMode = !c.darkMode
	dark := c.darkMode
	c.mu.Unlock()

	theme := themeLight
	if dark {
		theme = themeDark
	}
	if err := c.kv.Set(ctx, kvstore.KeyTheme, theme); err != nil {
		c.logger.Warn("persisting theme preference failed", zap.Error(err))
	}
	return dark
}

// Snapshot returns a copy of the presentation state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		Tab:       c.tab,
		Documents: append([]domain.Document(nil), c.documents...),
		Results:   append([]domain.SearchResult(nil), c.results...),
		LastQuery: c.lastQuery,
		DarkMode:  c.darkMode,
	}
	if c.selected != nil {
		sel := *c.selected
		st.Selected = &sel
	}
	if c.editing != nil {
		ed := *c.editing
		st.Editing = &ed
	}
	return st
}

// setDocumentsLocked replaces the collection and re-resolves selection
// and editing against it, dropping pointers to vanished documents.
func (c *Coordinator) setDocumentsLocked(docs []domain.Document) {
	c.documents = docs
	if c.selected != nil {
		c.selected = c.findLocked(c.selected.ID)
	}
	if c.editing != nil {
		c.editing = c.findLocked(c.editing.ID)
	}
}

func (c *Coordinator) findLocked(id string) *domain.Document {
	for i := range c.documents {
		if c.documents[i].ID == id {
			return &c.documents[i]
		}
	}
	return nil
}
