// Package clock provides the time source used by animation and scheduling.
// Components never read the wall clock directly; they hold a Clock so tests
// can drive time explicitly instead of sleeping.
package clock

import (
	"sync"
	"time"
)

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

// System provides the real system time with monotonic clock readings.
type System struct{}

// NewSystem creates the production time source.
func NewSystem() System {
	return System{}
}

// Now returns the current time with monotonic clock reading.
func (System) Now() time.Time {
	return time.Now()
}

// Mock provides a controllable time source for testing.
type Mock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMock creates a mock clock starting at the given time.
func NewMock(start time.Time) *Mock {
	return &Mock{current: start}
}

// Now returns the current mocked time.
func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SetTime sets the current time for the mock.
func (m *Mock) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance advances the current time by the given duration.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
