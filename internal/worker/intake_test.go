package worker

import (
	"errors"
	"testing"
	"time"
)

func TestIntakeFIFO(t *testing.T) {
	in := newIntake()
	var got []int

	for i := range 3 {
		if _, err := in.send(func() { got = append(got, i) }); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if in.len() != 3 {
		t.Fatalf("expected 3 queued jobs, got %d", in.len())
	}

	for range 3 {
		job, _, ok := in.recv()
		if !ok {
			t.Fatal("expected a job")
		}
		job()
	}

	for i, v := range got {
		if v != i {
			t.Errorf("position %d: expected %d, got %d", i, i, v)
		}
	}
}

func TestIntakeCloseDeliversPending(t *testing.T) {
	in := newIntake()
	_, _ = in.send(func() {})
	_, _ = in.send(func() {})
	in.close()

	if _, err := in.send(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}

	for i := range 2 {
		if _, _, ok := in.recv(); !ok {
			t.Fatalf("pending job %d should still be delivered after close", i)
		}
	}
	if _, _, ok := in.recv(); ok {
		t.Error("expected closed-and-empty intake to report closure")
	}
}

func TestIntakeCloseWakesReceivers(t *testing.T) {
	in := newIntake()
	done := make(chan bool, 3)

	for range 3 {
		go func() {
			_, _, ok := in.recv()
			done <- ok
		}()
	}

	time.Sleep(10 * time.Millisecond)
	in.close()
	in.close()

	for range 3 {
		select {
		case ok := <-done:
			if ok {
				t.Error("expected receiver to observe closure")
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for blocked receiver to wake")
		}
	}
}

func TestIntakeSendNeverBlocks(t *testing.T) {
	in := newIntake()
	done := make(chan struct{})

	go func() {
		for range 10000 {
			_, _ = in.send(func() {})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send blocked without any receiver")
	}
	if in.len() != 10000 {
		t.Errorf("expected 10000 queued jobs, got %d", in.len())
	}
}
