package config

import "fmt"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"ATRIUM_LOG_LEVEL"` // debug, info, warn, error
	Format string `yaml:"format"`                       // json, text
	File   string `yaml:"file" env:"ATRIUM_LOG_FILE"`
}

func (l *LoggingConfig) validate() error {
	switch l.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q (valid: debug, info, warn, error)", l.Level)
	}
	switch l.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid logging.format: %q (valid: json, text)", l.Format)
	}
	return nil
}
