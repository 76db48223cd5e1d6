// Package logging builds the zap loggers used by tally commands.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stderr is the output path used by non-interactive commands.
const Stderr = "stderr"

// New builds a production JSON logger at level writing to output, which is
// either Stderr or a file path. Parent directories of a file are created.
func New(level, output string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	output = strings.TrimSpace(output)
	if output == "" {
		output = Stderr
	}
	if output != Stderr && output != "stdout" {
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{Stderr}

	return cfg.Build()
}
