// Package logging builds the zap loggers used by the CLI and the viewer
// server.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger at level. Development loggers write console output
// with caller and stack traces; production loggers write JSON to stderr.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// NewOrNop returns New(level, development) when enabled, and a no-op
// logger otherwise.
func NewOrNop(enabled bool, level string, development bool) (*zap.Logger, error) {
	if !enabled {
		return zap.NewNop(), nil
	}
	return New(level, development)
}
