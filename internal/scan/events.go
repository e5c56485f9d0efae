package scan

import (
	"github.com/joe/scan-dir/pkg/filesystem"
)

// Event is the interface implemented by all scan engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// EmitterFunc adapts a function to EventEmitter.
type EmitterFunc func(Event)

// Emit calls f(event).
func (f EmitterFunc) Emit(event Event) {
	f(event)
}

// Emitters fans every event out to each non-nil emitter in order.
type Emitters []EventEmitter

// Emit forwards event.
func (e Emitters) Emit(event Event) {
	for _, emitter := range e {
		if emitter != nil {
			emitter.Emit(event)
		}
	}
}

// ScanStarted is emitted once before the root is validated.
type ScanStarted struct {
	Root string
}

func (ScanStarted) isEvent() {}

// EntryVisited is emitted for every entry popped from the worklist, root first.
type EntryVisited struct {
	Path string
	Kind filesystem.Kind
	Seq  int // 1-based visit order
}

func (EntryVisited) isEvent() {}

// DirectoryFailed is emitted when a directory could not be listed.
type DirectoryFailed struct {
	Path string
	Err  error
}

func (DirectoryFailed) isEvent() {}

// ScanComplete is emitted once when the engine reaches Done, including after
// a failed root validation.
type ScanComplete struct {
	Result *Result
	Err    error
}

func (ScanComplete) isEvent() {}
