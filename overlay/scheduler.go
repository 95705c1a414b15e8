package overlay

import "sync/atomic"

// Scheduler coalesces reposition requests to at most one per animation
// frame. Request marks work pending; Tick, driven by the host's frame
// callback, runs it once no matter how many requests arrived in between.
// Never more than one recomputation is queued.
type Scheduler struct {
	pending atomic.Bool
	run     func()
}

// NewScheduler creates a Scheduler invoking run on each serviced frame.
func NewScheduler(run func()) *Scheduler {
	return &Scheduler{run: run}
}

// Request marks a reposition as pending. Safe to call from any goroutine.
func (s *Scheduler) Request() {
	s.pending.Store(true)
}

// Tick services a pending request, if any. Returns whether work ran.
func (s *Scheduler) Tick() bool {
	if !s.pending.Swap(false) {
		return false
	}
	if s.run != nil {
		s.run()
	}
	return true
}
