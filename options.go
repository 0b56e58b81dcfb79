package searchdeck

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdeck/internal/clock"
	"github.com/kailas-cloud/searchdeck/internal/history"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration

	stateDriver string // "memory", "sqlite" or "redis"
	statePath   string
	stateAddrs  []string
	statePass   string

	historyLimit  int
	historyPolicy history.DuplicatePolicy
	notifyTTL     time.Duration

	clk        clock.Clock
	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithBaseURL sets the document-search service address.
// Defaults to "http://localhost:8080".
func WithBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = u
	})
}

// WithHTTPClient replaces the underlying HTTP client. The client is
// copied so its cookie jar can be installed without mutating the
// caller's instance.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout sets the per-request timeout. Default: 15s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithMemoryState keeps history and preferences in memory only.
// This is the default.
func WithMemoryState() Option {
	return optionFunc(func(c *clientConfig) {
		c.stateDriver = "memory"
	})
}

// WithSQLiteState persists history and preferences to a SQLite file.
func WithSQLiteState(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.stateDriver = "sqlite"
		c.statePath = path
	})
}

// WithRedisState persists history and preferences in Redis.
func WithRedisState(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.stateDriver = "redis"
		c.stateAddrs = []string{addr}
		c.statePass = password
	})
}

// WithHistoryLimit caps the search history length. Default: 10.
func WithHistoryLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.historyLimit = n
	})
}

// WithHistoryPolicy sets how a repeated query is treated.
// Default: MoveToFront.
func WithHistoryPolicy(p history.DuplicatePolicy) Option {
	return optionFunc(func(c *clientConfig) {
		c.historyPolicy = p
	})
}

// WithNotificationTTL sets how long a notification stays active before
// auto-expiring. Default: 5s.
func WithNotificationTTL(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.notifyTTL = d
	})
}

// WithClock replaces the wall clock, for tests.
func WithClock(clk clock.Clock) Option {
	return optionFunc(func(c *clientConfig) {
		c.clk = clk
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and
// durations) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
