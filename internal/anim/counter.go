// Package anim holds the page's animation arithmetic: counter tweens,
// parallax displacement, the partner marquee, scroll easing, and card tilt.
// Everything here is pure frame-count math; the page model owns the frame
// cadence and calls Tick once per frame.
package anim

// Counter climbs from zero to a target over a fixed number of frames. The
// displayed value never decreases, and the final frame lands exactly on the
// target regardless of rounding drift along the way.
type Counter struct {
	target  int
	step    float64
	current float64
	done    bool
}

// NewCounter sizes the per-frame step so the climb spans the given number
// of frames. Callers derive frames from their animation duration and frame
// interval; a count below one is clamped to one.
func NewCounter(target int, frames int) *Counter {
	if frames < 1 {
		frames = 1
	}
	c := &Counter{
		target: target,
		step:   float64(target) / float64(frames),
	}
	if target <= 0 {
		c.done = true
	}
	return c
}

// Tick advances one frame. Ticking a finished counter does nothing.
func (c *Counter) Tick() {
	if c.done {
		return
	}
	c.current += c.step
	if c.current >= float64(c.target) {
		c.current = float64(c.target)
		c.done = true
	}
}

// Value returns the integer to display: the floor of the climb while
// running, the exact target once done.
func (c *Counter) Value() int {
	if c.done {
		return c.target
	}
	return int(c.current)
}

// Done reports whether the counter has reached its target.
func (c *Counter) Done() bool { return c.done }

// Finish jumps straight to the target. Used under reduced motion and when a
// counter section re-enters view after completing.
func (c *Counter) Finish() {
	c.current = float64(c.target)
	c.done = true
}
