package anim

import "math"

// EaseOutCubic maps linear progress t in [0, 1] to a curve that starts fast
// and settles gently.
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(1-t, 3)
}

// ScrollTween animates a scroll position between two offsets over a fixed
// number of frames with ease-out. Zero or negative frames snap to the end,
// which is how reduced motion rides the same code path.
type ScrollTween struct {
	from, to int
	frames   int
	at       int
}

// NewScrollTween starts a tween. frames <= 0 finishes immediately.
func NewScrollTween(from, to, frames int) *ScrollTween {
	if frames < 0 {
		frames = 0
	}
	return &ScrollTween{from: from, to: to, frames: frames, at: 0}
}

// Tick advances one frame.
func (s *ScrollTween) Tick() {
	if s.at < s.frames {
		s.at++
	}
}

// Pos returns the current scroll offset.
func (s *ScrollTween) Pos() int {
	if s.frames == 0 || s.at >= s.frames {
		return s.to
	}
	t := EaseOutCubic(float64(s.at) / float64(s.frames))
	return s.from + int(math.Round(t*float64(s.to-s.from)))
}

// Done reports whether the tween has landed.
func (s *ScrollTween) Done() bool { return s.at >= s.frames }
