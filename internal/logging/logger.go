// Package logging builds the zap logger used across a run.
//
// Every run writes two sinks: a human-readable console stream and an
// append-only JSON log file under the log directory, one file per run.
// The log file always records at debug level regardless of console
// verbosity; quiet mode raises the console threshold to errors but
// never silences them. The built logger is an explicit handle: callers
// pass it into the execution engine, there is no package-global logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultDir is the per-run log file directory.
const DefaultDir = "log"

// Options selects console verbosity and the log file location.
type Options struct {
	// Quiet raises the console threshold to error level
	Quiet bool

	// Verbose lowers the console threshold to debug level
	Verbose bool

	// Dir is the log file directory; empty means DefaultDir
	Dir string

	// Name is the log file prefix, typically the command name
	Name string
}

// New creates a logger writing to the console and to a fresh
// append-only log file. It returns the logger and the log file path.
// The caller owns the logger and should Sync it before exit.
func New(opts Options) (*zap.Logger, string, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir
	}
	name := opts.Name
	if name == "" {
		name = "espcfg"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", name, time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file: %w", err)
	}

	consoleLevel := zapcore.InfoLevel
	switch {
	case opts.Quiet:
		consoleLevel = zapcore.ErrorLevel
	case opts.Verbose:
		consoleLevel = zapcore.DebugLevel
	}

	consoleEncoder := zapcore.NewConsoleEncoder(consoleEncoderConfig())
	fileEncoder := zapcore.NewJSONEncoder(fileEncoderConfig())

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), consoleLevel),
		zapcore.NewCore(fileEncoder, zapcore.Lock(file), zapcore.DebugLevel),
	)

	return zap.New(core), path, nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

func fileEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
