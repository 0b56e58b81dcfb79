package notify

import (
	"testing"
	"time"

	"github.com/kailas-cloud/searchdeck/internal/clock"
	"github.com/kailas-cloud/searchdeck/internal/domain"
)

func TestEnqueue_IDsIncrease(t *testing.T) {
	b := New(clock.NewFake(), 0)
	defer b.Close()

	first := b.Info("one")
	second := b.Info("two")
	if second <= first {
		t.Errorf("ids %d, %d not increasing", first, second)
	}
}

func TestEnqueue_NoDeduplication(t *testing.T) {
	b := New(clock.NewFake(), 0)
	defer b.Close()

	b.Error("same message")
	b.Error("same message")
	if got := len(b.Active()); got != 2 {
		t.Errorf("active = %d, want 2 (identical messages are separate entries)", got)
	}
}

func TestExpiry_AtTTL(t *testing.T) {
	clk := clock.NewFake()
	b := New(clk, 5*time.Second)
	defer b.Close()

	b.Success("done")
	clk.Advance(4999 * time.Millisecond)
	if got := len(b.Active()); got != 1 {
		t.Fatalf("active before ttl = %d, want 1", got)
	}

	clk.Advance(1 * time.Millisecond)
	if got := len(b.Active()); got != 0 {
		t.Errorf("active at ttl = %d, want 0", got)
	}
}

func TestExpiry_TimersAreIndependent(t *testing.T) {
	clk := clock.NewFake()
	b := New(clk, 5*time.Second)
	defer b.Close()

	b.Info("first")
	clk.Advance(3 * time.Second)
	b.Info("second")

	clk.Advance(2 * time.Second) // first reaches its ttl, second is at 2s
	active := b.Active()
	if len(active) != 1 {
		t.Fatalf("active = %d, want 1", len(active))
	}
	if active[0].Message != "second" {
		t.Errorf("survivor = %q, want second", active[0].Message)
	}
}

func TestDismiss_BeforeExpiry(t *testing.T) {
	clk := clock.NewFake()
	b := New(clk, 5*time.Second)
	defer b.Close()

	id := b.Warning("heads up")
	b.Dismiss(id)
	if got := len(b.Active()); got != 0 {
		t.Fatalf("active after dismiss = %d, want 0", got)
	}

	// The canceled timer must not act on a stale id: a new notification
	// enqueued later keeps its own lifetime.
	fresh := b.Info("fresh")
	clk.Advance(5 * time.Second)
	_ = fresh
	if got := len(b.Active()); got != 0 {
		t.Errorf("fresh notification should expire on its own timer, active = %d", got)
	}
}

func TestDismiss_StaleIDIsNoop(t *testing.T) {
	clk := clock.NewFake()
	b := New(clk, time.Second)
	defer b.Close()

	id := b.Info("gone soon")
	clk.Advance(time.Second)
	b.Dismiss(id) // already expired
	b.Dismiss(999)
	if got := len(b.Active()); got != 0 {
		t.Errorf("active = %d, want 0", got)
	}
}

func TestActive_InsertionOrder(t *testing.T) {
	b := New(clock.NewFake(), 0)
	defer b.Close()

	b.Info("a")
	b.Error("b")
	b.Success("c")

	active := b.Active()
	want := []string{"a", "b", "c"}
	for i, m := range want {
		if active[i].Message != m {
			t.Errorf("active[%d] = %q, want %q", i, active[i].Message, m)
		}
	}
}

func TestSubscribe_ReceivesEvents(t *testing.T) {
	clk := clock.NewFake()
	b := New(clk, time.Second)
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	id := b.Error("boom")
	ev := <-ch
	if ev.Type != EventEnqueued || ev.Notification.ID != id {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Notification.Kind != domain.NotifyError {
		t.Errorf("kind = %q", ev.Notification.Kind)
	}

	clk.Advance(time.Second)
	ev = <-ch
	if ev.Type != EventExpired || ev.Notification.ID != id {
		t.Fatalf("event = %+v, want expired", ev)
	}
}
