// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the CLI's zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the log level and destination.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", ...). Empty means info.
	Level string

	// File, when set, sends JSON logs to a size-rotated file instead of stderr.
	File string

	// MaxSizeMB is the rotation threshold for File (default 10).
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept (default 3).
	MaxBackups int
}

// New returns a logger for cfg. Without a file, logs go to stderr through a
// console writer.
func New(cfg Config, stderr io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var out io.Writer
	if cfg.File != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
		}
	} else {
		if stderr == nil {
			stderr = os.Stderr
		}
		out = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
