// Package logging provides structured logging with file output support.
// It uses environment variables for configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerCloser wraps a logger and provides a Close method for cleanup
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// ParseLevel maps a level name to a log level. Unknown names mean info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewLoggerWithWriter creates a new logger with the provided writer. level
// is used when WOBJ_LOG_LEVEL is unset.
func NewLoggerWithWriter(w io.Writer, level string) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	if env := os.Getenv("WOBJ_LOG_LEVEL"); env != "" {
		level = env
	}
	lg.SetLevel(ParseLevel(level))

	prefix := os.Getenv("WOBJ_LOG_PREFIX")
	if prefix == "" {
		prefix = "wobj "
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a new logger based on environment variables
// WOBJ_LOG_LEVEL: debug, info, warn, error (default: level argument, then info)
// WOBJ_LOG_PREFIX: prefix for log messages (default: "wobj ")
// WOBJ_LOG_TO_FILE: when set to "1", logs to a timestamped file instead of stderr
func NewLogger(level string) *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv("WOBJ_LOG_TO_FILE") == "1" {
		timestamp := time.Now().Format("20060102-150405")
		logFile := fmt.Sprintf("wobj-%s-debug.log", timestamp)

		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err == nil {
			output = f
		}
		// If file creation fails, fall back to stderr
	}

	return NewLoggerWithWriter(output, level)
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return os.Getenv("WOBJ_LOG_LEVEL") == "debug"
}
