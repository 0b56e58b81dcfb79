package rest

import (
	"fmt"
	"sync/atomic"

	"github.com/kailas-cloud/searchdeck/internal/domain"
)

// Lifecycle is the per-surface busy flag. While an operation holds it, a
// second operation from the same surface is rejected with domain.ErrBusy
// rather than queued. The flag only prevents resubmission; it is not a
// server-side single-flight guarantee.
type Lifecycle struct {
	name string
	busy atomic.Bool
}

// NewLifecycle creates a lifecycle guard for the named surface.
func NewLifecycle(name string) *Lifecycle {
	return &Lifecycle{name: name}
}

// Acquire marks the surface busy. Returns domain.ErrBusy when an operation
// is already in flight.
func (l *Lifecycle) Acquire() error {
	if !l.busy.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", l.name, domain.ErrBusy)
	}
	return nil
}

// Release clears the busy flag. Always runs on completion, success or not.
func (l *Lifecycle) Release() {
	l.busy.Store(false)
}

// Busy reports whether an operation is in flight, for disabling UI controls.
func (l *Lifecycle) Busy() bool {
	return l.busy.Load()
}
