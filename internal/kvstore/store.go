// Package kvstore defines the minimal durable key-value contract used for
// locally persisted client state (search history, theme preference).
package kvstore

import "context"

// Store is the persistence contract. Absent keys are reported via the
// found flag, not an error; a corrupt or missing value is always treated
// by callers as "use the default", never as fatal.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Well-known keys.
const (
	KeySearchHistory = "searchdeck:search_history"
	KeyTheme         = "searchdeck:theme"
)
