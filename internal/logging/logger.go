// Package logging builds zap loggers from the atrium configuration. The
// interactive page owns the terminal, so its logger writes to the configured
// file and is a no-op when none is set; subcommands log to stderr like any
// other CLI tool.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"atrium/internal/config"
)

// ForPage returns the logger the interactive page uses. The renderer draws
// every cell of the terminal, so a stderr logger would paint over the page;
// without a configured file this is zap.NewNop.
func ForPage(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	if cfg.File == "" {
		return zap.NewNop(), nil
	}
	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	zc := baseConfig(cfg, verbose)
	zc.OutputPaths = []string{cfg.File}
	zc.ErrorOutputPaths = []string{cfg.File}

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// ForCLI returns a stderr logger for the non-interactive subcommands.
func ForCLI(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zc := baseConfig(cfg, verbose)
	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

func baseConfig(cfg config.LoggingConfig, verbose bool) zap.Config {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(Level(cfg.Level, verbose))
	if cfg.Format == "text" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return zc
}

// Level resolves a configured level name; --verbose wins over the config.
func Level(name string, verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	switch name {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
