// Package session mirrors the server-held authentication session as a
// small client-side state machine.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdeck/internal/domain"
)

// AuthAPI is the slice of the REST client the session store needs.
type AuthAPI interface {
	AuthStatus(ctx context.Context) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, error)
	Logout(ctx context.Context) error
}

// Store holds the display copy of the session. All truth is server-held
// (cookie-based); after any failed call the copy falls back to Anonymous
// rather than assuming it is still valid.
type Store struct {
	api    AuthAPI
	logger *zap.Logger

	mu      sync.Mutex
	state   domain.SessionState
	user    *domain.User
	loading bool
}

// New creates a session store in the Unknown state.
func New(api AuthAPI, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{api: api, logger: logger, state: domain.SessionUnknown}
}

// Refresh probes the session-status endpoint once and settles the state
// into Authenticated or Anonymous. It is caller-triggered and never
// retried automatically.
func (s *Store) Refresh(ctx context.Context) domain.Session {
	s.mu.Lock()
	s.state = domain.SessionChecking
	s.loading = true
	s.mu.Unlock()

	user, err := s.api.AuthStatus(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Debug("session status probe failed", zap.Error(err))
		s.state = domain.SessionAnonymous
		s.user = nil
	} else {
		s.state = domain.SessionAuthenticated
		s.user = &user
	}
	return s.snapshotLocked()
}

// Login attempts authentication. Bad credentials are a typed result, not
// an error: the caller renders Reason inline and decides about
// notifications and navigation itself.
func (s *Store) Login(ctx context.Context, username, password string) domain.LoginResult {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	user, err := s.api.Login(ctx, username, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.state = domain.SessionAnonymous
		s.user = nil
		return domain.LoginResult{OK: false, Reason: loginFailureReason(err)}
	}

	s.state = domain.SessionAuthenticated
	s.user = &user
	return domain.LoginResult{OK: true, User: &user}
}

// Logout ends the session. The network call is best-effort: local state
// becomes Anonymous even when it fails.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn("logout call failed, clearing local session anyway", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.state = domain.SessionAnonymous
	s.user = nil
}

// Snapshot returns the current display copy.
func (s *Store) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Session {
	return domain.Session{
		User:            s.user,
		State:           s.state,
		IsAuthenticated: s.state == domain.SessionAuthenticated,
		IsLoading:       s.loading,
	}
}

// loginFailureReason turns a classified call failure into a human-readable
// reason for the login form.
func loginFailureReason(err error) string {
	if he, ok := domain.AsHTTPError(err); ok {
		if he.Message != "" {
			return he.Message
		}
		return "authentication failed"
	}
	return "could not reach the server"
}
