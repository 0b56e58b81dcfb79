package memory

import (
	"context"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, found, err := s.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("get missing: found=%v err=%v", found, err)
	}

	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, found, err := s.Get(ctx, "k")
	if err != nil || !found || v != "v1" {
		t.Fatalf("get: v=%q found=%v err=%v", v, found, err)
	}

	if err := s.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _, _ := s.Get(ctx, "k"); v != "v2" {
		t.Errorf("after overwrite v = %q, want v2", v)
	}

	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, found, _ := s.Get(ctx, "k"); found {
		t.Error("key still present after remove")
	}

	// removing an absent key is not an error
	if err := s.Remove(ctx, "k"); err != nil {
		t.Errorf("remove absent: %v", err)
	}
}
