// Package timer provides the rest countdown used between sets.
package timer

import "time"

// Clock returns the current wall-clock time. Tests substitute a fake.
type Clock func() time.Time

// RestTimer is a deadline-driven countdown. Start records a wall-clock
// deadline; every observation derives the remaining time from that deadline,
// so the timer stays correct across process suspension (screen lock, app
// backgrounding) where a tick-accumulating timer would drift.
//
// A RestTimer is driven by a single cooperative observation loop (one Observe
// call per UI interval) and is not safe for concurrent use.
type RestTimer struct {
	clock      Clock
	onComplete func()
	deadline   time.Time
	running    bool
	fired      bool
}

// New creates a stopped timer. onComplete may be nil; clock defaults to
// time.Now.
func New(onComplete func(), clock Clock) *RestTimer {
	if clock == nil {
		clock = time.Now
	}
	return &RestTimer{clock: clock, onComplete: onComplete}
}

// Start arms the timer with deadline = now + d, replacing any previous run.
func (t *RestTimer) Start(d time.Duration) {
	t.deadline = t.clock().Add(d)
	t.running = true
	t.fired = false
}

// Running reports whether the timer is armed and has not yet completed.
func (t *RestTimer) Running() bool {
	return t.running
}

// Remaining returns the time left until the deadline, floored at zero.
func (t *RestTimer) Remaining() time.Duration {
	if !t.running {
		return 0
	}
	r := t.deadline.Sub(t.clock())
	if r < 0 {
		return 0
	}
	return r
}

// Observe is the per-tick entry point of the observation loop. It returns the
// remaining duration and fires the completion callback exactly once when the
// countdown reaches zero.
func (t *RestTimer) Observe() time.Duration {
	if !t.running {
		return 0
	}
	r := t.Remaining()
	if r == 0 {
		t.complete()
	}
	return r
}

// Extend pushes the deadline forward by d. Elapsed progress is preserved:
// extending a 90s timer by 30s immediately after start leaves ~120s remaining,
// not 30s. Extending a finished or stopped timer has no effect.
func (t *RestTimer) Extend(d time.Duration) {
	if !t.running {
		return
	}
	t.deadline = t.deadline.Add(d)
}

// Skip ends the countdown now, firing the completion callback immediately.
// Subsequent observations produce no further completion events.
func (t *RestTimer) Skip() {
	if !t.running {
		return
	}
	t.complete()
}

// Cancel stops the timer without firing completion. Idempotent.
func (t *RestTimer) Cancel() {
	t.running = false
}

func (t *RestTimer) complete() {
	t.running = false
	if t.fired {
		return
	}
	t.fired = true
	if t.onComplete != nil {
		t.onComplete()
	}
}
