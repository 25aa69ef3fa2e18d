// Package logutils constructs zerolog loggers for CLI applications.
package logutils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON lines to the given file, creating parent
// directories as needed. An empty file path logs to stderr instead; a TUI
// caller should always pass a file so log output cannot tear the screen.
//
// The level is parsed by zerolog (debug, info, warn, error, fatal, panic).
// The returned closer closes the log file.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("parse log level: %w", err)
	}

	writer := os.Stderr
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create log dir: %w", err)
		}

		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = f.Close() }
		writer = f
	}

	logger := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return logger, closer, nil
}
