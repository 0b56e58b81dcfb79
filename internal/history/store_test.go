package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/kailas-cloud/searchdeck/internal/kvstore"
	"github.com/kailas-cloud/searchdeck/internal/kvstore/memory"
)

func newStore(t *testing.T, kv kvstore.Store, opts ...Option) *Store {
	t.Helper()
	return New(context.Background(), kv, opts...)
}

func TestRecord_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, memory.New())

	for _, q := range []string{"alpha", "beta", "gamma"} {
		if err := s.Record(ctx, q); err != nil {
			t.Fatalf("record %q: %v", q, err)
		}
	}

	got := s.Entries()
	want := []string{"gamma", "beta", "alpha"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}
}

func TestRecord_CapAndNoDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, memory.New())

	for i := 0; i < 25; i++ {
		q := fmt.Sprintf("query-%d", i%12)
		if err := s.Record(ctx, q); err != nil {
			t.Fatalf("record: %v", err)
		}
		entries := s.Entries()
		if len(entries) > DefaultLimit {
			t.Fatalf("history grew to %d, cap is %d", len(entries), DefaultLimit)
		}
		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			if seen[e] {
				t.Fatalf("duplicate %q in %v", e, entries)
			}
			seen[e] = true
		}
	}
}

func TestRecord_DuplicateMovesToFront(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, memory.New())

	for _, q := range []string{"alpha", "beta", "gamma"} {
		_ = s.Record(ctx, q)
	}
	if err := s.Record(ctx, "alpha"); err != nil {
		t.Fatalf("re-record: %v", err)
	}

	got := s.Entries()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3 (duplicate must not grow history)", len(got))
	}
	if got[0] != "alpha" {
		t.Errorf("front = %q, want alpha", got[0])
	}
}

func TestRecord_DuplicateIgnoredUnderPolicy(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, memory.New(), WithPolicy(IgnoreDuplicate))

	for _, q := range []string{"alpha", "beta"} {
		_ = s.Record(ctx, q)
	}
	if err := s.Record(ctx, "alpha"); err != nil {
		t.Fatalf("re-record: %v", err)
	}

	got := s.Entries()
	if got[0] != "beta" || got[1] != "alpha" {
		t.Errorf("entries = %v, want [beta alpha] (order unchanged)", got)
	}
}

func TestClear_RemovesPersistedRecord(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := newStore(t, kv)

	_ = s.Record(ctx, "alpha")
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s.Entries(); len(got) != 0 {
		t.Errorf("entries = %v, want empty", got)
	}
	if _, found, _ := kv.Get(ctx, kvstore.KeySearchHistory); found {
		t.Error("persisted record still present after clear")
	}
}

func TestRehydrate_FromPersisted(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	s := newStore(t, kv)
	_ = s.Record(ctx, "alpha")
	_ = s.Record(ctx, "beta")

	again := newStore(t, kv)
	got := again.Entries()
	if len(got) != 2 || got[0] != "beta" || got[1] != "alpha" {
		t.Errorf("rehydrated = %v, want [beta alpha]", got)
	}
}

func TestRehydrate_MalformedValue(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	_ = kv.Set(ctx, kvstore.KeySearchHistory, "{not json")

	s := newStore(t, kv)
	if got := s.Entries(); len(got) != 0 {
		t.Errorf("entries = %v, want empty for malformed value", got)
	}
}

func TestRehydrate_TruncatesOverLimit(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	_ = kv.Set(ctx, kvstore.KeySearchHistory,
		`["a","b","c","d","e","f","g","h","i","j","k","l"]`)

	s := newStore(t, kv)
	if got := len(s.Entries()); got != DefaultLimit {
		t.Errorf("len = %d, want %d", got, DefaultLimit)
	}
}
