// Event pacing for the update loop. Both helpers are pure bookkeeping
// against an injected "now": the model schedules its own wake-up ticks, so
// nothing here starts timers or goroutines, and a stale wake-up is detected
// by its sequence number instead of being raced against a cancellation.
package ui

import "time"

// Debouncer tracks a quiet period for bursty events like window resizes.
// Each Touch supersedes the previous one by bumping a sequence number; the
// wake-up scheduled for an old Touch identifies itself with a stale sequence
// and is discarded.
type Debouncer struct {
	quiet    time.Duration
	seq      int
	deadline time.Time
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Touch records an event at now and returns the sequence number the caller
// should stamp on the wake-up it schedules for Quiet() from now.
func (d *Debouncer) Touch(now time.Time) int {
	d.seq++
	d.deadline = now.Add(d.quiet)
	return d.seq
}

// Settled reports whether the wake-up carrying seq is the live one. Stale
// wake-ups (superseded by a later Touch) return false and must be ignored.
func (d *Debouncer) Settled(seq int) bool {
	return seq == d.seq && d.seq != 0
}

// Quiet returns the configured quiet period.
func (d *Debouncer) Quiet() time.Duration { return d.quiet }

// Reset forgets any pending wake-up, so a stale one can never settle.
func (d *Debouncer) Reset() {
	d.seq++
}

// Throttler admits at most one action per interval, remembering whether a
// burst left work behind so the trailing edge can be flushed on the next
// frame.
type Throttler struct {
	interval time.Duration
	last     time.Time
	primed   bool
	pending  bool
}

// NewThrottler creates a throttler with the given minimum interval.
func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{interval: interval}
}

// Ready reports whether an action may run at now. When the interval has not
// elapsed the event is remembered as pending instead.
func (t *Throttler) Ready(now time.Time) bool {
	if !t.primed || now.Sub(t.last) >= t.interval {
		t.primed = true
		t.last = now
		t.pending = false
		return true
	}
	t.pending = true
	return false
}

// FlushDue reports whether a pending trailing action should run at now,
// consuming it. Frame handlers call this so the last event of a burst is
// never lost.
func (t *Throttler) FlushDue(now time.Time) bool {
	if !t.pending || now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	t.pending = false
	return true
}

// Pending reports whether a trailing action is waiting.
func (t *Throttler) Pending() bool { return t.pending }
