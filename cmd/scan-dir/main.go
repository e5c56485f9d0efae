// Package main is the entry point for the scan-dir application.
package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/scan-dir/internal/config"
	"github.com/joe/scan-dir/internal/logging"
	"github.com/joe/scan-dir/internal/report"
	"github.com/joe/scan-dir/internal/scan"
	"github.com/joe/scan-dir/internal/tui"
	"github.com/joe/scan-dir/internal/tui/shared"
	pkgerrors "github.com/joe/scan-dir/pkg/errors"
	"github.com/joe/scan-dir/pkg/filesystem"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, shared.RenderError("Error: "+err.Error()))
		os.Exit(1)
	}

	os.Exit(run(cfg, os.Stdout, os.Stderr, term.IsTerminal(int(os.Stdout.Fd()))))
}

// run performs one scan and returns the process exit code.
func run(cfg *config.Config, stdout, stderr io.Writer, tty bool) int {
	progress := cfg.Progress && tty
	if cfg.Progress && !tty {
		fmt.Fprintln(stderr, shared.RenderWarning("--progress needs a terminal; printing entries instead"))
	}

	console := stdout
	if progress {
		console = io.Discard
	}

	logger, err := logging.New(logging.Options{
		Level:    cfg.Level(),
		Console:  console,
		FilePath: cfg.LogFile,
		Root:     cfg.Root,
	})
	if err != nil {
		printError(stderr, err, cfg.LogFile)
		return 1
	}

	defer func() {
		_ = logger.Close()
	}()

	lookup, path, closeLookup, err := filesystem.OpenLookup(cfg.Root, cfg.LookupOptions())
	if err != nil {
		logger.Error("failed to open root", "root", cfg.Root, "error", err)
		printError(stderr, err, cfg.Root)

		return 1
	}

	defer func() {
		if closeErr := closeLookup(); closeErr != nil {
			logger.Warn("failed to close connection", "error", closeErr)
		}
	}()

	engine := scan.NewEngine(lookup)
	engine.Strict = cfg.Strict
	engine.Allocator = scan.NewRecordPool(cfg.MaxEntries)
	engine.Logger = logger.Logger

	reporter := report.NewLogReporter(logger.Entries, report.NewGlobFilter(cfg.Match))

	var result *scan.Result

	if progress {
		result, err = tui.Run(engine, path, reporter, tea.WithOutput(stdout))
	} else {
		engine.SetEventEmitter(reporter)
		result, err = engine.Run(path)
	}

	if err != nil {
		// The message names the directory that failed, which may be below the root.
		printError(stderr, err, "")
	}

	if result == nil {
		return 1
	}

	if result.Status != scan.StatusOK {
		fmt.Fprintln(stderr, shared.RenderError(fmt.Sprintf("Scan failed with status %d", result.Status)))
		return 1
	}

	return 0
}

func printError(w io.Writer, err error, path string) {
	enriched := pkgerrors.NewEnricher().Enrich(err, path)

	fmt.Fprintln(w, shared.RenderError("Error: "+enriched.Error()))

	if suggestions := pkgerrors.FormatSuggestions(enriched); suggestions != "" {
		fmt.Fprintln(w, suggestions)
	}
}
