package sched

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestAfterFires(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan struct{})
	s.After("test", 10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for callback")
	}
}

func TestCancelOwnerBeforeFire(t *testing.T) {
	s := New()
	defer s.Stop()

	var fired atomic.Bool
	s.After("call", 30*time.Millisecond, func() { fired.Store(true) })
	s.Cancel("call")

	time.Sleep(80 * time.Millisecond)
	if fired.Load() {
		t.Error("callback fired after owner was cancelled")
	}
}

func TestCancelIsScopedToOwner(t *testing.T) {
	s := New()
	defer s.Stop()

	var callFired atomic.Bool
	storyFired := make(chan struct{})
	s.After("call", 20*time.Millisecond, func() { callFired.Store(true) })
	s.After("story", 20*time.Millisecond, func() { close(storyFired) })
	s.Cancel("call")

	select {
	case <-storyFired:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for surviving owner")
	}
	if callFired.Load() {
		t.Error("cancelled owner's callback fired")
	}
}

func TestEveryTicksUntilCancel(t *testing.T) {
	s := New()
	defer s.Stop()

	var ticks atomic.Int32
	s.Every("call", 10*time.Millisecond, func() { ticks.Add(1) })

	time.Sleep(60 * time.Millisecond)
	s.Cancel("call")
	n := ticks.Load()
	if n < 2 {
		t.Errorf("ticks = %d, want at least 2", n)
	}

	time.Sleep(40 * time.Millisecond)
	if got := ticks.Load(); got != n {
		t.Errorf("ticker advanced after cancel: %d -> %d", n, got)
	}
}

func TestIndividualCancel(t *testing.T) {
	s := New()
	defer s.Stop()

	var fired atomic.Bool
	cancel := s.After("story", 30*time.Millisecond, func() { fired.Store(true) })
	cancel()

	time.Sleep(80 * time.Millisecond)
	if fired.Load() {
		t.Error("callback fired after its cancel func was called")
	}
}

func TestStopRejectsNewWork(t *testing.T) {
	s := New()
	s.Stop()

	var fired atomic.Bool
	s.After("test", time.Millisecond, func() { fired.Store(true) })
	s.Every("test", time.Millisecond, func() { fired.Store(true) })

	time.Sleep(30 * time.Millisecond)
	if fired.Load() {
		t.Error("stopped scheduler ran a callback")
	}
}
