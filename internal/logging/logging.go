// Package logging builds the zerolog loggers used across the scanner.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls how the root logger is constructed.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Empty means info.
	Level string
	// NoColor disables ANSI colors on the console writer.
	NoColor bool
	// File, when non-empty, adds a rotating file sink alongside the console.
	File string
	// MaxSizeMB bounds a single log file before rotation. Zero means 10.
	MaxSizeMB int
	// MaxBackups bounds how many rotated files are kept. Zero means 3.
	MaxBackups int
}

// New constructs the root logger. Console output goes to stderr so stdout
// stays clean for report output.
func New(opts Options) zerolog.Logger {
	level := parseLevel(opts.Level)

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    opts.NoColor,
		TimeFormat: "15:04:05",
	}

	var out io.Writer = console
	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		maxBackups := opts.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(console, rotating)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Component returns a child logger tagged with a component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "", "info":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}
