// Package logger configures the application loggers: a console logger for
// operator-facing diagnostics and a file-backed audit logger that records
// every tool invocation of a session.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger at the given level. Unknown levels fall back
// to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// NewAudit opens the audit log at path, truncating any previous run, and
// returns a JSON logger writing to it. The caller owns closing the file.
func NewAudit(path string) (zerolog.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open audit log %s: %w", path, err)
	}
	log := zerolog.New(f).With().Timestamp().Logger()
	return log, f, nil
}
