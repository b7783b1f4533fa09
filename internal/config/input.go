package config

// InputConfig declares which input capabilities the page may use. Pointer
// effects (card tilt, hover states) only run when Mouse is on; keyboard
// behavior is unconditional.
type InputConfig struct {
	Mouse bool `yaml:"mouse" env:"ATRIUM_MOUSE"`
}
