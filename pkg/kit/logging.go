package kit

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the production JSON logger for a binary. Unknown levels
// fall back to info.
func NewLogger(service, level string) (*zap.Logger, error) {
	return build(zap.NewProductionConfig(), service, level)
}

// NewFileLogger is NewLogger writing to path instead of stderr, for
// binaries that own the terminal.
func NewFileLogger(service, level, path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return build(cfg, service, level)
}

func build(cfg zap.Config, service, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.InitialFields = map[string]any{"service": service}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
