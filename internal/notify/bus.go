// Package notify implements the transient user-notification queue. The Bus
// is an explicitly constructed service object (no package globals): the
// application creates one at startup and hands it to every component that
// reports outcomes.
package notify

import (
	"sync"
	"time"

	"github.com/kailas-cloud/searchdeck/internal/clock"
	"github.com/kailas-cloud/searchdeck/internal/domain"
)

// DefaultTTL is how long a notification stays visible unless dismissed.
const DefaultTTL = 5 * time.Second

// EventType distinguishes bus events delivered to subscribers.
type EventType string

// Bus event types.
const (
	EventEnqueued  EventType = "enqueued"
	EventDismissed EventType = "dismissed"
	EventExpired   EventType = "expired"
)

// Event is one change of the visible notification set.
type Event struct {
	Type         EventType
	Notification domain.Notification
}

type entry struct {
	n     domain.Notification
	timer clock.Timer
}

// Bus is the notification queue. Every entry expires on its own timer;
// identical messages are never deduplicated. Safe for concurrent use.
type Bus struct {
	mu      sync.Mutex
	clk     clock.Clock
	ttl     time.Duration
	nextID  int64
	active  []*entry
	subs    map[chan Event]struct{}
	closed  bool
}

// New creates a Bus with the given clock and TTL. A zero ttl selects
// DefaultTTL; a nil clk selects the system clock.
func New(clk clock.Clock, ttl time.Duration) *Bus {
	if clk == nil {
		clk = clock.System()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Bus{
		clk:  clk,
		ttl:  ttl,
		subs: make(map[chan Event]struct{}),
	}
}

// Enqueue appends a notification and schedules its expiry. Returns the
// fresh id; ids increase monotonically for the life of the bus.
func (b *Bus) Enqueue(message string, kind domain.NotificationKind) int64 {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	n := domain.Notification{
		ID:        id,
		Message:   message,
		Kind:      kind,
		CreatedAt: b.clk.Now(),
	}
	e := &entry{n: n}
	e.timer = b.clk.AfterFunc(b.ttl, func() { b.expire(id) })
	b.active = append(b.active, e)
	b.publishLocked(Event{Type: EventEnqueued, Notification: n})
	b.mu.Unlock()
	return id
}

// Info, Success, Warning and Error are kind-specific shorthands.
func (b *Bus) Info(message string) int64    { return b.Enqueue(message, domain.NotifyInfo) }
func (b *Bus) Success(message string) int64 { return b.Enqueue(message, domain.NotifySuccess) }
func (b *Bus) Warning(message string) int64 { return b.Enqueue(message, domain.NotifyWarning) }
func (b *Bus) Error(message string) int64   { return b.Enqueue(message, domain.NotifyError) }

// Dismiss removes the notification immediately and cancels its timer.
// Stale ids (already expired or dismissed) are a no-op.
func (b *Bus) Dismiss(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(id, EventDismissed)
}

func (b *Bus) expire(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(id, EventExpired)
}

func (b *Bus) removeLocked(id int64, ev EventType) {
	for i, e := range b.active {
		if e.n.ID != id {
			continue
		}
		if e.timer != nil {
			e.timer.Stop()
		}
		b.active = append(b.active[:i], b.active[i+1:]...)
		b.publishLocked(Event{Type: ev, Notification: e.n})
		return
	}
}

// Active returns the visible notifications in insertion order.
func (b *Bus) Active() []domain.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Notification, len(b.active))
	for i, e := range b.active {
		out[i] = e.n
	}
	return out
}

// Subscribe returns a channel of bus events. Slow subscribers drop events
// instead of blocking the bus.
func (b *Bus) Subscribe() chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs[ch] = struct{}{}
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Close stops all timers and closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, e := range b.active {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	b.active = nil
	for ch := range b.subs {
		close(ch)
	}
	b.subs = make(map[chan Event]struct{})
}

func (b *Bus) publishLocked(ev Event) {
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber buffer full; skip to avoid blocking the bus.
		}
	}
}
