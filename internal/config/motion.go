package config

import "time"

// MotionConfig holds the animation timings and the reduced-motion
// preference. Durations are strings ("16ms", "2s"); use the getter methods
// for parsed values.
type MotionConfig struct {
	// Reduce disables decorative animation: reveals apply instantly,
	// counters jump to their targets, the backdrop holds still, and the
	// partner strip does not advance.
	Reduce bool `yaml:"reduce" env:"ATRIUM_REDUCE_MOTION"`

	// FrameInterval is the animation frame cadence.
	FrameInterval string `yaml:"frame_interval" env:"ATRIUM_FRAME_INTERVAL"`

	// CounterDuration is how long a stat counter takes to reach its target.
	CounterDuration string `yaml:"counter_duration"`

	// SubmitDelay simulates the contact form's round trip.
	SubmitDelay string `yaml:"submit_delay"`

	// SuccessVisible is how long the form's success note stays up.
	SuccessVisible string `yaml:"success_visible"`

	// ScrollDuration is the smooth-scroll travel time for nav jumps.
	ScrollDuration string `yaml:"scroll_duration"`
}

// Frame returns the animation frame cadence.
func (m *MotionConfig) Frame() time.Duration {
	return durationOr(m.FrameInterval, 16*time.Millisecond)
}

// Counter returns the counter tween duration.
func (m *MotionConfig) Counter() time.Duration {
	return durationOr(m.CounterDuration, 2*time.Second)
}

// Submit returns the simulated submission delay.
func (m *MotionConfig) Submit() time.Duration {
	return durationOr(m.SubmitDelay, 2*time.Second)
}

// Success returns how long the success note stays visible.
func (m *MotionConfig) Success() time.Duration {
	return durationOr(m.SuccessVisible, 5*time.Second)
}

// Scroll returns the smooth-scroll travel time.
func (m *MotionConfig) Scroll() time.Duration {
	return durationOr(m.ScrollDuration, 400*time.Millisecond)
}

func (m *MotionConfig) validate() error {
	for field, raw := range map[string]string{
		"motion.frame_interval":   m.FrameInterval,
		"motion.counter_duration": m.CounterDuration,
		"motion.submit_delay":     m.SubmitDelay,
		"motion.success_visible":  m.SuccessVisible,
		"motion.scroll_duration":  m.ScrollDuration,
	} {
		if raw == "" {
			continue
		}
		if _, err := parseDuration(field, raw); err != nil {
			return err
		}
	}
	return nil
}
