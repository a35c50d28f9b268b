// Package logging builds the charmbracelet logger used for per-run
// diagnostics such as skipped words and decoder disagreements. It is
// configured entirely from the environment.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

const (
	envLevel  = "ARMDIS_LOG_LEVEL"
	envPrefix = "ARMDIS_LOG_PREFIX"
	envToFile = "ARMDIS_LOG_TO_FILE"
)

// LoggerCloser is a logger that may own its output file.
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if the logger opened one.
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// ParseLevel maps ARMDIS_LOG_LEVEL values onto logger levels. Unknown values
// mean info.
func ParseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	}
	return log.InfoLevel
}

// NewLoggerWithWriter creates a logger writing to w.
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           ParseLevel(os.Getenv(envLevel)),
	})

	prefix := os.Getenv(envPrefix)
	if prefix == "" {
		prefix = "armdis "
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

// NewLogger creates a logger from the environment:
//
//	ARMDIS_LOG_LEVEL    debug, info, warn, error (default info)
//	ARMDIS_LOG_PREFIX   message prefix (default "armdis ")
//	ARMDIS_LOG_TO_FILE  "1" writes to armdis-<timestamp>-debug.log instead of stderr
func NewLogger() *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv(envToFile) == "1" {
		logFile := fmt.Sprintf("armdis-%s-debug.log", time.Now().Format("20060102-150405"))
		// Falls back to stderr when the file cannot be created.
		if f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644); err == nil {
			output = f
		}
	}

	return NewLoggerWithWriter(output)
}

// IsDebug reports whether debug logging is enabled.
func IsDebug() bool {
	return os.Getenv(envLevel) == "debug"
}
