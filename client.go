package searchdeck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdeck/internal/clock"
	"github.com/kailas-cloud/searchdeck/internal/domain"
	"github.com/kailas-cloud/searchdeck/internal/history"
	"github.com/kailas-cloud/searchdeck/internal/kvstore"
	kvMemory "github.com/kailas-cloud/searchdeck/internal/kvstore/memory"
	kvRedis "github.com/kailas-cloud/searchdeck/internal/kvstore/redis"
	kvSQLite "github.com/kailas-cloud/searchdeck/internal/kvstore/sqlite"
	"github.com/kailas-cloud/searchdeck/internal/notify"
	"github.com/kailas-cloud/searchdeck/internal/rest"
	"github.com/kailas-cloud/searchdeck/internal/session"
	documentuc "github.com/kailas-cloud/searchdeck/internal/usecase/document"
	searchuc "github.com/kailas-cloud/searchdeck/internal/usecase/search"
	"github.com/kailas-cloud/searchdeck/internal/view"
)

const defaultBaseURL = "http://localhost:8080"

// Client is the searchdeck entry point. It owns the REST client, the
// session mirror, the notification bus, persisted state (history and
// preferences) and the presentation coordinator.
type Client struct {
	kv      kvstore.Store
	rest    *rest.Client
	sess    *session.Store
	notes   *notify.Bus
	hist    *history.Store
	search  *searchuc.Service
	docs    *documentuc.Service
	coord   *view.Coordinator
	obs     *observer
	logger  *zap.Logger
}

// New creates a Client. State defaults to the in-memory driver; pass
// WithSQLiteState or WithRedisState to persist across runs.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:     defaultBaseURL,
		stateDriver: "memory",
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	obs, err := newObserver(logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	kv, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.httpClient
	if httpClient != nil {
		cp := *httpClient
		httpClient = &cp
	}
	if cfg.timeout > 0 {
		if httpClient == nil {
			httpClient = &http.Client{}
		}
		httpClient.Timeout = cfg.timeout
	}

	restClient, err := rest.NewClient(cfg.baseURL, httpClient, logger)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("searchdeck: %w", err)
	}

	clk := cfg.clk
	if clk == nil {
		clk = clock.System()
	}
	bus := notify.New(clk, cfg.notifyTTL)

	histOpts := []history.Option{history.WithLogger(logger)}
	if cfg.historyLimit > 0 {
		histOpts = append(histOpts, history.WithLimit(cfg.historyLimit))
	}
	if cfg.historyPolicy != "" {
		histOpts = append(histOpts, history.WithPolicy(cfg.historyPolicy))
	}
	hist := history.New(ctx, kv, histOpts...)

	sess := session.New(restClient, logger)
	searchSvc := searchuc.New(restClient, hist, bus, logger)
	docSvc := documentuc.New(restClient, bus, logger)
	coord := view.New(ctx, searchSvc, docSvc, sess, kv, logger)

	return &Client{
		kv:     kv,
		rest:   restClient,
		sess:   sess,
		notes:  bus,
		hist:   hist,
		search: searchSvc,
		docs:   docSvc,
		coord:  coord,
		obs:    obs,
		logger: logger,
	}, nil
}

func createStore(cfg *clientConfig) (kvstore.Store, error) {
	switch cfg.stateDriver {
	case "memory":
		return kvMemory.New(), nil
	case "sqlite":
		s, err := kvSQLite.Open(cfg.statePath)
		if err != nil {
			return nil, fmt.Errorf("searchdeck: open sqlite state: %w", err)
		}
		return s, nil
	case "redis":
		s, err := kvRedis.NewStore(kvRedis.Config{
			Addrs:    cfg.stateAddrs,
			Password: cfg.statePass,
		})
		if err != nil {
			return nil, fmt.Errorf("searchdeck: create redis state: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("searchdeck: unknown state driver %q", cfg.stateDriver)
	}
}

// Close releases the notification bus and the state store.
func (c *Client) Close() {
	c.notes.Close()
	if err := c.kv.Close(); err != nil {
		c.logger.Warn("closing state store failed", zap.Error(err))
	}
}

// Search runs a query and commits its results to the view state. Stale
// responses, overtaken by a newer search, do not overwrite the state.
func (c *Client) Search(ctx context.Context, query string, p SearchParams) ([]SearchResult, error) {
	start := time.Now()
	results, err := c.coord.RunSearch(ctx, query, p)
	c.obs.observe("search", start, err)
	return results, err
}

// SearchHealth probes the search subsystem of the remote service.
func (c *Client) SearchHealth(ctx context.Context) error {
	start := time.Now()
	err := c.search.Health(ctx)
	c.obs.observe("search_health", start, err)
	return err
}

// LoadDocuments fetches the document collection into the view state.
func (c *Client) LoadDocuments(ctx context.Context) ([]Document, error) {
	start := time.Now()
	err := c.coord.LoadDocuments(ctx)
	c.obs.observe("load_documents", start, err)
	if err != nil {
		return nil, err
	}
	return c.coord.Snapshot().Documents, nil
}

// CreateDocument validates and submits a new document, then re-fetches
// the collection.
func (c *Client) CreateDocument(ctx context.Context, in DocumentInput) error {
	start := time.Now()
	err := c.coord.SaveDocument(ctx, in)
	c.obs.observe("create_document", start, err)
	return err
}

// EditDocument opens the editing buffer on an existing document. The
// next SaveDocument call updates it instead of creating a new one.
func (c *Client) EditDocument(id string) bool {
	return c.coord.StartEditing(id)
}

// SaveDocument saves the editing buffer, or creates a new document when
// no buffer is open.
func (c *Client) SaveDocument(ctx context.Context, in DocumentInput) error {
	start := time.Now()
	err := c.coord.SaveDocument(ctx, in)
	c.obs.observe("save_document", start, err)
	return err
}

// CancelEditing discards the editing buffer.
func (c *Client) CancelEditing() {
	c.coord.CancelEditing()
}

// DeleteDocument removes a document. It requires an authenticated
// session and confirmed=true; otherwise ErrNotAuthenticated or
// ErrConfirmationRequired is returned and nothing is sent.
func (c *Client) DeleteDocument(ctx context.Context, id string, confirmed bool) error {
	start := time.Now()
	err := c.coord.DeleteDocument(ctx, id, confirmed)
	c.obs.observe("delete_document", start, err)
	return err
}

// SelectDocument marks a document as selected in the view state.
func (c *Client) SelectDocument(id string) {
	c.coord.Select(id)
}

// RefreshSession probes the server-held session once.
func (c *Client) RefreshSession(ctx context.Context) Session {
	start := time.Now()
	snap := c.sess.Refresh(ctx)
	c.obs.observe("refresh_session", start, nil)
	return snap
}

// Login attempts authentication. Bad credentials come back as a typed
// result, not an error.
func (c *Client) Login(ctx context.Context, username, password string) LoginResult {
	start := time.Now()
	res := c.sess.Login(ctx, username, password)
	var err error
	if !res.OK {
		err = domain.ErrNotAuthenticated
	}
	c.obs.observe("login", start, err)
	return res
}

// Logout ends the session. Local state becomes anonymous even when the
// network call fails.
func (c *Client) Logout(ctx context.Context) {
	start := time.Now()
	c.sess.Logout(ctx)
	c.obs.observe("logout", start, nil)
}

// Session returns the current session snapshot.
func (c *Client) Session() Session {
	return c.sess.Snapshot()
}

// History returns the recorded queries, most recent first.
func (c *Client) History() []string {
	return c.hist.Entries()
}

// ClearHistory empties the recorded queries and their persisted copy.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.hist.Clear(ctx)
}

// Notifications returns the active notifications in insertion order.
func (c *Client) Notifications() []Notification {
	return c.notes.Active()
}

// DismissNotification removes a notification before its TTL expires.
// Unknown ids are ignored.
func (c *Client) DismissNotification(id int64) {
	c.notes.Dismiss(id)
}

// Notify publishes a notification of the given kind.
func (c *Client) Notify(message string, kind NotificationKind) int64 {
	return c.notes.Enqueue(message, kind)
}

// View returns a copy of the presentation state.
func (c *Client) View() ViewState {
	return c.coord.Snapshot()
}

// SetTab switches the active pane.
func (c *Client) SetTab(tab Tab) {
	c.coord.SetTab(tab)
}

// ToggleDarkMode flips the theme and persists the preference.
func (c *Client) ToggleDarkMode(ctx context.Context) bool {
	return c.coord.ToggleDarkMode(ctx)
}
