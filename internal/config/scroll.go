package config

import (
	"fmt"
	"time"
)

// ScrollConfig tunes scroll-driven behavior.
type ScrollConfig struct {
	// Throttle caps how often scroll-position work runs.
	Throttle string `yaml:"throttle"`

	// ResizeDebounce is the quiet period after the last resize before
	// layout recomputes.
	ResizeDebounce string `yaml:"resize_debounce"`

	// CondensedAfter is the scroll depth, in rows, past which the header
	// switches to its condensed treatment.
	CondensedAfter int `yaml:"condensed_after" env:"ATRIUM_CONDENSED_AFTER"`

	// WheelLines is how many rows one wheel notch scrolls.
	WheelLines int `yaml:"wheel_lines"`
}

// ThrottleInterval returns the scroll throttle interval.
func (s *ScrollConfig) ThrottleInterval() time.Duration {
	return durationOr(s.Throttle, 100*time.Millisecond)
}

// Debounce returns the resize debounce quiet period.
func (s *ScrollConfig) Debounce() time.Duration {
	return durationOr(s.ResizeDebounce, 250*time.Millisecond)
}

func (s *ScrollConfig) validate() error {
	for field, raw := range map[string]string{
		"scroll.throttle":        s.Throttle,
		"scroll.resize_debounce": s.ResizeDebounce,
	} {
		if raw == "" {
			continue
		}
		if _, err := parseDuration(field, raw); err != nil {
			return err
		}
	}
	if s.CondensedAfter < 0 {
		return fmt.Errorf("scroll.condensed_after must not be negative, got %d", s.CondensedAfter)
	}
	if s.WheelLines < 1 {
		return fmt.Errorf("scroll.wheel_lines must be at least 1, got %d", s.WheelLines)
	}
	return nil
}
