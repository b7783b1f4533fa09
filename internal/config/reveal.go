package config

import "fmt"

// RevealConfig tunes when a section counts as visible for reveal purposes.
type RevealConfig struct {
	// Threshold is the fraction of a section's rows that must be inside
	// the viewport before it reveals.
	Threshold float64 `yaml:"threshold"`

	// MarginRows shrinks the viewport by this many rows at the bottom, so
	// sections reveal slightly after they enter rather than at the very
	// edge.
	MarginRows int `yaml:"margin_rows"`
}

func (r *RevealConfig) validate() error {
	if r.Threshold <= 0 || r.Threshold > 1 {
		return fmt.Errorf("reveal.threshold must be in (0, 1], got %g", r.Threshold)
	}
	if r.MarginRows < 0 {
		return fmt.Errorf("reveal.margin_rows must not be negative, got %d", r.MarginRows)
	}
	return nil
}
