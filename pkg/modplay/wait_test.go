// ABOUTME: Tests for the completion waiter
// ABOUTME: Verifies wake-up latency, polling fallback, ticks and cancellation
package modplay

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSignal struct {
	ended atomic.Bool
	done  chan struct{}
}

func (s *fakeSignal) Ended() bool           { return s.ended.Load() }
func (s *fakeSignal) Done() <-chan struct{} { return s.done }

func (s *fakeSignal) finish(closeDone bool) {
	s.ended.Store(true)
	if closeDone {
		close(s.done)
	}
}

func TestWait_AlreadyEnded(t *testing.T) {
	sig := &fakeSignal{done: make(chan struct{})}
	sig.finish(true)

	if err := Wait(context.Background(), sig, time.Hour, nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestWait_WakesOnDone(t *testing.T) {
	sig := &fakeSignal{done: make(chan struct{})}

	go func() {
		time.Sleep(20 * time.Millisecond)
		sig.finish(true)
	}()

	start := time.Now()
	if err := Wait(context.Background(), sig, DefaultPollInterval, nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if elapsed := time.Since(start); elapsed >= DefaultPollInterval {
		t.Errorf("expected wake-up before the poll interval, took %v", elapsed)
	}
}

func TestWait_PollsWithinInterval(t *testing.T) {
	// Done never closes: completion is only visible through Ended
	sig := &fakeSignal{}
	interval := 50 * time.Millisecond

	var endedAt atomic.Int64
	go func() {
		time.Sleep(20 * time.Millisecond)
		endedAt.Store(time.Now().UnixNano())
		sig.finish(false)
	}()

	if err := Wait(context.Background(), sig, interval, nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	latency := time.Duration(time.Now().UnixNano() - endedAt.Load())
	if latency > interval+50*time.Millisecond {
		t.Errorf("expected return within one interval of the flag, took %v", latency)
	}
}

func TestWait_Ticks(t *testing.T) {
	sig := &fakeSignal{done: make(chan struct{})}

	var ticks atomic.Int32
	go func() {
		time.Sleep(55 * time.Millisecond)
		sig.finish(true)
	}()

	if err := Wait(context.Background(), sig, 10*time.Millisecond, func() { ticks.Add(1) }); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if ticks.Load() == 0 {
		t.Error("expected at least one tick")
	}
}

func TestWait_Cancelled(t *testing.T) {
	sig := &fakeSignal{done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Wait(ctx, sig, time.Hour, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
