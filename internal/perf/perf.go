// Package perf measures startup: config load, content load, model build,
// first frame. The tracker records marks against an injected clock and logs
// a single timing line once the first frame lands.
package perf

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"atrium/internal/clock"
)

// Canonical mark names used across the binary.
const (
	MarkConfigLoaded  = "config_loaded"
	MarkContentLoaded = "content_loaded"
	MarkModelReady    = "model_ready"
	MarkFirstFrame    = "first_frame"
)

// Mark is one recorded instant, as an offset from tracker start.
type Mark struct {
	Name string
	At   time.Duration
}

// Tracker accumulates marks. Marks arrive from both the CLI bootstrap and
// the update loop, so it locks.
type Tracker struct {
	clk   clock.Clock
	start time.Time

	mu       sync.Mutex
	marks    []Mark
	reported bool
}

// NewTracker starts the measurement at the clock's current time.
func NewTracker(clk clock.Clock) *Tracker {
	return &Tracker{clk: clk, start: clk.Now()}
}

// Mark records a named instant. Re-marking a name records another instant;
// the report keeps the first.
func (t *Tracker) Mark(name string) {
	at := t.clk.Now().Sub(t.start)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.marks = append(t.marks, Mark{Name: name, At: at})
}

// Since returns the time elapsed since tracker start.
func (t *Tracker) Since() time.Duration {
	return t.clk.Now().Sub(t.start)
}

// Marks returns a copy of the recorded marks in arrival order.
func (t *Tracker) Marks() []Mark {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Mark, len(t.marks))
	copy(out, t.marks)
	return out
}

// Lookup returns the first mark with the given name.
func (t *Tracker) Lookup(name string) (Mark, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range t.marks {
		if m.Name == name {
			return m, true
		}
	}
	return Mark{}, false
}

// Report logs one structured timing line with a field per distinct mark.
// Only the first call logs; later calls do nothing, so the first-frame
// handler can call it unconditionally.
func (t *Tracker) Report(log *zap.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reported {
		return
	}
	t.reported = true

	fields := make([]zap.Field, 0, len(t.marks))
	seen := make(map[string]bool, len(t.marks))
	for _, m := range t.marks {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		fields = append(fields, zap.Duration(m.Name, m.At))
	}
	log.Info("startup timing", fields...)
}
