package worker

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewGroupRejectsNonPositiveLimit(t *testing.T) {
	g, err := NewGroup(0, WithLogger(quietLogger()))
	if g != nil {
		t.Error("expected nil group")
	}
	if !errors.Is(err, ErrPoolCreation) {
		t.Errorf("expected ErrPoolCreation, got %v", err)
	}
}

func TestGroupRunsAllJobs(t *testing.T) {
	g, err := NewGroup(3, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}

	var counter atomic.Int32
	for range 30 {
		if err := g.Submit(func() {
			time.Sleep(time.Millisecond)
			counter.Add(1)
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	g.Shutdown()

	if counter.Load() != 30 {
		t.Errorf("expected 30 jobs completed, got %d", counter.Load())
	}
	if stats := g.Stats(); !stats.Closed || stats.Size != 3 || stats.Busy != 0 {
		t.Errorf("unexpected stats after shutdown: %+v", stats)
	}
}

func TestGroupLimitsConcurrency(t *testing.T) {
	g, err := NewGroup(2, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	defer g.Shutdown()

	var running, peak atomic.Int32
	for range 10 {
		_ = g.Submit(func() {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			running.Add(-1)
		})
	}
	g.Shutdown()

	if peak.Load() > 2 {
		t.Errorf("expected at most 2 concurrent jobs, saw %d", peak.Load())
	}
}

func TestGroupSubmitAfterShutdown(t *testing.T) {
	g, err := NewGroup(1, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	g.Shutdown()

	if err := g.Submit(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
	if err := g.Submit(nil); !errors.Is(err, ErrNilJob) {
		t.Errorf("expected ErrNilJob, got %v", err)
	}
}

func TestGroupRecoversPanics(t *testing.T) {
	var handled atomic.Int32
	g, err := NewGroup(1,
		WithLogger(quietLogger()),
		WithPanicHandler(func(int, any) { handled.Add(1) }),
	)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}

	_ = g.Submit(func() { panic("boom") })
	if err := g.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	if handled.Load() != 1 {
		t.Errorf("expected 1 handled panic, got %d", handled.Load())
	}
}
