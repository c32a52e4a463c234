// Package logging builds the zap loggers used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects where log records go and which are kept.
type Config struct {
	Level    string `toml:"level"`    // debug, info, warn or error
	File     string `toml:"file"`     // append to this file; empty means the fallback writer
	Encoding string `toml:"encoding"` // console or json
}

// DefaultConfig returns info-level console logging.
func DefaultConfig() Config {
	return Config{Level: "info", Encoding: "console"}
}

// ParseLevel converts a level name to a zap level. An empty name is info.
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	l, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// New builds a logger from cfg. Records go to cfg.File when set, otherwise to
// fallback; with neither the logger discards everything. The returned func flushes
// the logger and closes any file it opened.
func New(cfg Config, fallback io.Writer) (*zap.Logger, func(), error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		sink    zapcore.WriteSyncer
		closeFn = func() {}
	)
	switch {
	case cfg.File != "":
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sink = zapcore.AddSync(f)
		closeFn = func() { _ = f.Close() }
	case fallback != nil:
		sink = zapcore.AddSync(fallback)
	default:
		return zap.NewNop(), func() {}, nil
	}

	core := zapcore.NewCore(encoder(cfg.Encoding), zapcore.Lock(sink), level)
	logger := zap.New(core)
	return logger, func() {
		_ = logger.Sync()
		closeFn()
	}, nil
}

func encoder(name string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(name, "json") {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}
