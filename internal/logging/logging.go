// Package logging builds the structured logger used for a scan run.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("invalid log level")

// Options configures New.
type Options struct {
	Level slog.Level
	// Console receives log lines; nil discards them.
	Console io.Writer
	// FilePath, when set, also writes every line to this file,
	// framed by a header and a footer.
	FilePath string
	// Root is written to the file header.
	Root string
	// Now is used for header and footer timestamps (default: time.Now).
	Now func() time.Time
}

// Logger is a slog.Logger tagged with a run id, plus its optional log file.
type Logger struct {
	*slog.Logger

	// Entries writes to the same outputs but never filters above info, so
	// per-entry scan output survives --log-level warn.
	Entries *slog.Logger

	RunID string

	file *os.File
	now  func() time.Time
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q (valid: debug, info, warn, error)", ErrInvalidLevel, s)
	}
}

// New creates the run logger. Every line carries run_id.
func New(opts Options) (*Logger, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	console := opts.Console
	if console == nil {
		console = io.Discard
	}

	logger := &Logger{
		RunID: uuid.NewString(),
		now:   now,
	}

	out := console

	if opts.FilePath != "" {
		f, err := os.Create(opts.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}

		logger.file = f
		logger.writeFile(fmt.Sprintf("=== Scan Log Started: %s ===", now().Format(time.RFC3339)))
		logger.writeFile("Root: " + opts.Root)
		logger.writeFile("Run: " + logger.RunID)
		logger.writeFile("")

		out = io.MultiWriter(console, f)
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: opts.Level})
	logger.Logger = slog.New(handler).With("run_id", logger.RunID)

	entries := slog.NewTextHandler(out, &slog.HandlerOptions{Level: min(opts.Level, slog.LevelInfo)})
	logger.Entries = slog.New(entries).With("run_id", logger.RunID)

	return logger, nil
}

// Close writes the footer and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}

	l.writeFile(fmt.Sprintf("\n=== Scan Log Ended: %s ===", l.now().Format(time.RFC3339)))

	err := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}

	return nil
}

func (l *Logger) writeFile(line string) {
	_, _ = fmt.Fprintln(l.file, line)
}
