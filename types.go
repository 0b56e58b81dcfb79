package searchdeck

import (
	"github.com/kailas-cloud/searchdeck/internal/domain"
	"github.com/kailas-cloud/searchdeck/internal/history"
	"github.com/kailas-cloud/searchdeck/internal/view"
)

// Domain types re-exported for callers.
type (
	Document      = domain.Document
	DocumentInput = domain.DocumentInput
	SearchResult  = domain.SearchResult
	SearchParams  = domain.SearchParams
	User          = domain.User
	Session       = domain.Session
	SessionState  = domain.SessionState
	LoginResult   = domain.LoginResult
	Notification  = domain.Notification
)

// NotificationKind is the severity of a notification.
type NotificationKind = domain.NotificationKind

// Notification kinds.
const (
	NotifyInfo    = domain.NotifyInfo
	NotifySuccess = domain.NotifySuccess
	NotifyWarning = domain.NotifyWarning
	NotifyError   = domain.NotifyError
)

// Session states.
const (
	SessionUnknown       = domain.SessionUnknown
	SessionChecking      = domain.SessionChecking
	SessionAuthenticated = domain.SessionAuthenticated
	SessionAnonymous     = domain.SessionAnonymous
)

// Search parameter bounds.
const (
	DefaultSearchLimit = domain.DefaultSearchLimit
	MaxSearchLimit     = domain.MaxSearchLimit
	DefaultMinScore    = domain.DefaultMinScore
)

// DuplicatePolicy decides what a repeated history query does.
type DuplicatePolicy = history.DuplicatePolicy

// Duplicate policies.
const (
	MoveToFront     = history.MoveToFront
	IgnoreDuplicate = history.IgnoreDuplicate
)

// ViewState is a copy of the presentation state.
type ViewState = view.State

// Tab identifies the active pane.
type Tab = view.Tab

// Tabs.
const (
	TabSearch    = view.TabSearch
	TabDocuments = view.TabDocuments
)
