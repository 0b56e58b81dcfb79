package rest

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/searchdeck/internal/domain"
)

func TestLifecycle_RejectsOverlap(t *testing.T) {
	lc := NewLifecycle("search")

	if err := lc.Acquire(); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if !lc.Busy() {
		t.Error("expected busy while held")
	}

	err := lc.Acquire()
	if !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("second acquire err = %v, want ErrBusy", err)
	}

	lc.Release()
	if lc.Busy() {
		t.Error("expected not busy after release")
	}
	if err := lc.Acquire(); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
}
