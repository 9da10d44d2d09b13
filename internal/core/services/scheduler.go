package services

import (
	"sync"
	"time"
)

// Scheduler tracks pending one-shot timers keyed by owner and slot so they
// can be cancelled when the owner disconnects or a newer action supersedes
// them. A second Schedule on the same (owner, slot) replaces the first.
type Scheduler struct {
	mu     sync.Mutex
	timers map[timerKey]*time.Timer
}

type timerKey struct {
	owner string
	slot  string
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[timerKey]*time.Timer)}
}

// Schedule fires fn once after delay. The timer deregisters itself before
// running fn, so a callback can schedule a successor under the same slot.
func (s *Scheduler) Schedule(owner, slot string, delay time.Duration, fn func()) {
	key := timerKey{owner: owner, slot: slot}

	s.mu.Lock()
	if old, ok := s.timers[key]; ok {
		old.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.timers[key] == t {
			delete(s.timers, key)
		}
		s.mu.Unlock()
		fn()
	})
	s.timers[key] = t
	s.mu.Unlock()
}

// Cancel stops a single pending timer. Cancelling an absent or already-fired
// timer is a no-op.
func (s *Scheduler) Cancel(owner, slot string) {
	key := timerKey{owner: owner, slot: slot}

	s.mu.Lock()
	if t, ok := s.timers[key]; ok {
		t.Stop()
		delete(s.timers, key)
	}
	s.mu.Unlock()
}

// CancelOwner stops every pending timer registered under owner.
func (s *Scheduler) CancelOwner(owner string) {
	s.mu.Lock()
	for key, t := range s.timers {
		if key.owner == owner {
			t.Stop()
			delete(s.timers, key)
		}
	}
	s.mu.Unlock()
}

// Pending reports how many timers are currently armed. Used by tests and the
// health endpoint.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
