package anim

import "strings"

// Marquee scrolls a ring of text one cell per frame. Hovering or focusing
// the strip pauses it; reduced motion freezes it at offset zero.
type Marquee struct {
	ring   []rune
	offset int
	paused bool
}

// Separator joins marquee entries.
const marqueeSeparator = "   ·   "

// NewMarquee builds the repeating ring from the entries.
func NewMarquee(entries []string) *Marquee {
	joined := strings.Join(entries, marqueeSeparator)
	if joined != "" {
		joined += marqueeSeparator
	}
	return &Marquee{ring: []rune(joined)}
}

// Advance moves the strip one cell unless paused. An empty ring never moves.
func (m *Marquee) Advance() {
	if m.paused || len(m.ring) == 0 {
		return
	}
	m.offset = (m.offset + 1) % len(m.ring)
}

// SetPaused pauses or resumes the strip.
func (m *Marquee) SetPaused(p bool) { m.paused = p }

// Paused reports whether the strip is holding still.
func (m *Marquee) Paused() bool { return m.paused }

// Window returns the width-cell slice of the ring starting at the current
// offset, wrapping around as needed.
func (m *Marquee) Window(width int) string {
	if width <= 0 || len(m.ring) == 0 {
		return ""
	}
	out := make([]rune, width)
	for i := 0; i < width; i++ {
		out[i] = m.ring[(m.offset+i)%len(m.ring)]
	}
	return string(out)
}
