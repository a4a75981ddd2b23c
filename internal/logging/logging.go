// Package logging builds the structured logger shared by consent components.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger output.
type Config struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`   // debug|info|warn|error
	Format     string `json:"format,omitempty" yaml:"format,omitempty"` // text|json
	File       string `json:"file,omitempty" yaml:"file,omitempty"`     // empty writes to stderr
	MaxSizeMB  int    `json:"maxSizeMB,omitempty" yaml:"maxSizeMB,omitempty"`
	MaxBackups int    `json:"maxBackups,omitempty" yaml:"maxBackups,omitempty"`
	MaxAgeDays int    `json:"maxAgeDays,omitempty" yaml:"maxAgeDays,omitempty"`
	Compress   bool   `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// New returns a logger for cfg together with the writer it logs to. The
// writer is an io.Closer when output goes to a rotating file.
func New(cfg Config) (*slog.Logger, io.Writer) {
	w := Writer(cfg)
	return NewWithWriter(cfg, w), w
}

// NewWithWriter returns a logger writing to w using the cfg level and format.
func NewWithWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// Writer returns stderr, or a size-rotated file when cfg.File is set.
func Writer(cfg Config) io.Writer {
	if strings.TrimSpace(cfg.File) == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
