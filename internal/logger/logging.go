// Package logger provides prefixed charmbracelet/log loggers for the packages
// that should not share the global logger.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a charm log with timestamps on stderr. Stdout is left to
// protocol output such as the IPC stream.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
