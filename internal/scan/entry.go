// Package scan implements breadth-first enumeration of a directory tree.
//
// An Engine validates the root, seeds a worklist with it and expands every
// directory it pops through a Collector. Records are created and released
// through an Allocator, so every record is accounted for even when a
// collection fails halfway.
package scan

import (
	"github.com/joe/scan-dir/pkg/filesystem"
)

// EntryRecord is one visited entry: its full path and kind.
// Records are created by an Allocator and are immutable afterwards.
type EntryRecord struct {
	path     string
	kind     filesystem.Kind
	released bool
}

// Path returns the full path of the entry.
func (r *EntryRecord) Path() string {
	return r.path
}

// PathLen returns the length of Path in bytes.
func (r *EntryRecord) PathLen() int {
	return len(r.path)
}

// Kind returns the kind the entry had when it was listed.
func (r *EntryRecord) Kind() filesystem.Kind {
	return r.kind
}

// IsDir reports whether the entry is a directory.
func (r *EntryRecord) IsDir() bool {
	return r.kind == filesystem.KindDirectory
}
