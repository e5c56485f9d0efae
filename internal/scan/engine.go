package scan

import (
	"fmt"
	"log/slog"

	"github.com/joe/scan-dir/pkg/filesystem"
)

// State is the engine's traversal state.
type State int

// Engine states.
const (
	StateIdle State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result summarizes one run.
type Result struct {
	Root        string
	Visited     int
	Directories int
	Files       int
	FailedDirs  []string
	Status      int
	Pool        PoolStats
}

// Engine walks a directory tree breadth first.
type Engine struct {
	// Strict aborts the run on the first directory that cannot be listed.
	// By default such a directory yields no children and the run continues.
	Strict bool
	// Allocator creates and releases records (default: unlimited RecordPool).
	Allocator Allocator
	// Logger receives diagnostics (default: slog.Default()).
	Logger *slog.Logger

	lookup  filesystem.LookupService
	emitter EventEmitter
	state   State
}

// NewEngine creates an engine that lists through lookup.
func NewEngine(lookup filesystem.LookupService) *Engine {
	return &Engine{
		Allocator: NewRecordPool(0),
		Logger:    slog.Default(),
		lookup:    lookup,
	}
}

// SetEventEmitter sets the event emitter.
// The emitter is optional - if nil, no events will be emitted.
func (e *Engine) SetEventEmitter(emitter EventEmitter) {
	e.emitter = emitter
}

// State returns the current traversal state.
func (e *Engine) State() State {
	return e.state
}

// Run validates root and visits every directory and regular file beneath it,
// emitting EntryVisited for each in breadth-first order.
//
// The returned Result is never nil. Its Status is 0 on success. A root that
// does not resolve, is not a directory, or whose record cannot be allocated
// fails the run before anything is visited. Directories that fail to list
// mid-run are recorded in FailedDirs and skipped unless Strict is set.
func (e *Engine) Run(root string) (*Result, error) {
	result := &Result{Root: root}

	e.state = StateRunning
	e.emit(ScanStarted{Root: root})
	e.Logger.Info("scan start", "root", root, "strict", e.Strict)

	err := ValidateIsDirectory(e.lookup, root)
	if err != nil {
		return e.finish(result, err)
	}

	// The root is seeded as a directory; validation already checked it.
	rootRecord, err := e.Allocator.New(root, filesystem.KindDirectory)
	if err != nil {
		return e.finish(result, fmt.Errorf("failed to allocate root entry: %w", err))
	}

	worklist := NewEntryList()
	worklist.PushBack(rootRecord)

	collector := NewCollector(e.lookup, e.Allocator)

	for err == nil {
		record, ok := worklist.PopFront()
		if !ok {
			break
		}

		err = e.visit(record, worklist, collector, result)
	}

	if pending := worklist.Drain(e.Allocator); pending > 0 {
		e.Logger.Debug("released pending entries", "count", pending)
	}

	return e.finish(result, err)
}

// visit reports record, expands it if it is a directory, and releases it.
func (e *Engine) visit(record *EntryRecord, worklist *EntryList, collector *Collector, result *Result) error {
	defer e.Allocator.Free(record)

	result.Visited++
	e.emit(EntryVisited{Path: record.Path(), Kind: record.Kind(), Seq: result.Visited})

	if !record.IsDir() {
		result.Files++
		return nil
	}

	result.Directories++

	count, err := collector.Collect(record.Path(), worklist)
	if err != nil {
		result.FailedDirs = append(result.FailedDirs, record.Path())
		e.Logger.Warn("failed to list directory", "path", record.Path(), "error", err)
		e.emit(DirectoryFailed{Path: record.Path(), Err: err})

		if e.Strict {
			return err
		}

		return nil
	}

	e.Logger.Debug("listed directory", "path", record.Path(), "children", count, "queued", worklist.Len())

	return nil
}

func (e *Engine) finish(result *Result, err error) (*Result, error) {
	e.state = StateDone
	result.Status = StatusCode(err)
	result.Pool = e.Allocator.Stats()

	e.Logger.Info("scan exit",
		"status", result.Status,
		"visited", result.Visited,
		"directories", result.Directories,
		"files", result.Files,
		"failed", len(result.FailedDirs))

	e.emit(ScanComplete{Result: result, Err: err})

	return result, err
}

func (e *Engine) emit(event Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}
