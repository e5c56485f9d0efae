// Package report turns scan engine events into the per-entry log output.
package report

import (
	"log/slog"

	"github.com/joe/scan-dir/internal/scan"
)

// LogReporter writes one log line per visited entry that passes its filter.
// It implements scan.EventEmitter.
type LogReporter struct {
	logger   *slog.Logger
	filter   EntryFilter
	root     string
	reported int
	filtered int
}

// NewLogReporter creates a reporter. A nil filter reports everything.
func NewLogReporter(logger *slog.Logger, filter EntryFilter) *LogReporter {
	if filter == nil {
		filter = NewGlobFilter("")
	}

	return &LogReporter{logger: logger, filter: filter}
}

// Emit handles one engine event.
func (r *LogReporter) Emit(event scan.Event) {
	switch e := event.(type) {
	case scan.ScanStarted:
		r.root = e.Root
		r.reported = 0
		r.filtered = 0
	case scan.EntryVisited:
		if !r.filter.ShouldReport(RelativePath(r.root, e.Path)) {
			r.filtered++
			return
		}

		r.reported++
		r.logger.Info("fill dir ent", "path", e.Path)
	case scan.DirectoryFailed:
		r.logger.Debug("directory yielded no entries", "path", e.Path)
	case scan.ScanComplete:
		r.logger.Info("report complete", "reported", r.reported, "filtered", r.filtered)
	}
}

// Reported returns how many entries were logged.
func (r *LogReporter) Reported() int {
	return r.reported
}

// Filtered returns how many visited entries the filter suppressed.
func (r *LogReporter) Filtered() int {
	return r.filtered
}
