// Package sched runs cancellable timers keyed by an owner string. Owners
// map to screens (or background workers); tearing a screen down cancels
// every timer it scheduled, and a cancelled owner's callbacks are
// guaranteed not to fire afterwards.
package sched

import (
	"sync"
	"time"
)

// Owner names used across the app. Free-form strings are accepted; these
// constants exist so screens and tests agree on spelling.
const (
	OwnerCall  = "call"
	OwnerStory = "story"
	OwnerReply = "reply"
)

type task struct {
	timer *time.Timer
	done  chan struct{}
}

// Scheduler owns all scheduled tasks.
type Scheduler struct {
	mu      sync.Mutex
	tasks   map[string]map[int]*task
	next    int
	stopped bool
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]map[int]*task)}
}

// After schedules fn to run once after d, attributed to owner.
// Returns a cancel func for this one task.
func (s *Scheduler) After(owner string, d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return func() {}
	}
	id := s.next
	s.next++
	tk := &task{}
	tk.timer = time.AfterFunc(d, func() {
		// Only run if the task is still registered; Cancel and Stop remove
		// tasks under the same lock, so a torn-down owner never fires.
		if s.take(owner, id) {
			fn()
		}
	})
	if s.tasks[owner] == nil {
		s.tasks[owner] = make(map[int]*task)
	}
	s.tasks[owner][id] = tk
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.remove(owner, id)
	}
}

// Every schedules fn to run on every tick of period d, attributed to owner,
// until the owner is cancelled or the scheduler stops.
func (s *Scheduler) Every(owner string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	id := s.next
	s.next++
	tk := &task{done: make(chan struct{})}
	if s.tasks[owner] == nil {
		s.tasks[owner] = make(map[int]*task)
	}
	s.tasks[owner][id] = tk

	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !s.alive(owner, id) {
					return
				}
				fn()
			case <-tk.done:
				return
			}
		}
	}()
}

// Cancel removes every task belonging to owner. Callbacks that have not yet
// started will not run; a ticking task stops after its current iteration.
func (s *Scheduler) Cancel(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.tasks[owner] {
		s.remove(owner, id)
	}
	delete(s.tasks, owner)
}

// Stop cancels everything and rejects future scheduling.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for owner, set := range s.tasks {
		for id := range set {
			s.remove(owner, id)
		}
		delete(s.tasks, owner)
	}
}

// take removes the task and reports whether it was still registered.
func (s *Scheduler) take(owner string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[owner][id]; !ok {
		return false
	}
	delete(s.tasks[owner], id)
	return true
}

// alive reports whether the task is still registered.
func (s *Scheduler) alive(owner string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[owner][id]
	return ok
}

// remove must be called with s.mu held.
func (s *Scheduler) remove(owner string, id int) {
	tk, ok := s.tasks[owner][id]
	if !ok {
		return
	}
	if tk.timer != nil {
		tk.timer.Stop()
	}
	if tk.done != nil {
		close(tk.done)
	}
	delete(s.tasks[owner], id)
}
