// Package filesystem provides the lookup layer the scanner runs on: path
// resolution, kind metadata and raw child enumeration of a single directory.
//
// Several backends implement LookupService:
//   - RealLookup: the local filesystem (getdents64 on Linux, ReadDir elsewhere)
//   - FSLookup: any github.com/kr/fs FileSystem, including *sftp.Client
//   - MemoryLookup: an in-memory tree with fault injection, for tests
package filesystem

import (
	"errors"
)

// Exported variables.
var (
	ErrClosed   = errors.New("enumeration session already closed")
	ErrNotDir   = errors.New("not a directory")
	ErrReleased = errors.New("handle already released")
)

// Pseudo entries some backends report alongside real children.
const (
	SelfEntry   = "."
	ParentEntry = ".."
)

// DirEntry is one child reported by an enumeration session.
type DirEntry struct {
	Name string
	Kind Kind
}

// Handle is a resolved path. It must be released exactly once.
type Handle interface {
	// Kind reports what the resolved path is.
	Kind() (Kind, error)

	// Release gives the handle back. A second call returns ErrReleased.
	Release() error
}

// EntryScanner is an enumeration session over the direct children of one
// directory. It is a finite, non-restartable pull iterator.
type EntryScanner interface {
	// Next advances to the next child and returns it.
	// Returns (DirEntry{}, false) when done or on error.
	// Check Err() after Next() returns false to distinguish between end-of-listing and error.
	Next() (DirEntry, bool)

	// Err returns any error that occurred during enumeration.
	Err() error

	// Close ends the session. A second call returns ErrClosed.
	Close() error
}

// LookupService is the capability set the scanner needs from a filesystem.
type LookupService interface {
	// Resolve looks up path, following symlinks, and returns a handle to it.
	Resolve(path string) (Handle, error)

	// OpenDir opens path for enumeration only.
	OpenDir(path string) (EntryScanner, error)
}

// IsPseudoEntry reports whether name is the self or parent reference.
func IsPseudoEntry(name string) bool {
	return name == SelfEntry || name == ParentEntry
}

// Enumerate drives scanner and calls fn once per child, in delivery order.
// A non-nil error from fn stops the enumeration and is returned as is.
// Otherwise the scanner's own error (if any) is returned.
func Enumerate(scanner EntryScanner, fn func(DirEntry) error) error {
	for {
		entry, ok := scanner.Next()
		if !ok {
			break
		}

		if err := fn(entry); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// staticHandle is a handle whose kind was captured at resolve time.
type staticHandle struct {
	kind     Kind
	released bool
}

func (h *staticHandle) Kind() (Kind, error) {
	if h.released {
		return KindOther, ErrReleased
	}

	return h.kind, nil
}

func (h *staticHandle) Release() error {
	if h.released {
		return ErrReleased
	}
	h.released = true

	return nil
}

// sliceScanner serves an already materialized listing.
type sliceScanner struct {
	entries []DirEntry
	index   int
	closed  bool
}

func newSliceScanner(entries []DirEntry) *sliceScanner {
	return &sliceScanner{
		entries: entries,
		index:   -1,
	}
}

func (s *sliceScanner) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	return nil
}

func (s *sliceScanner) Err() error {
	return nil
}

func (s *sliceScanner) Next() (DirEntry, bool) {
	if s.closed {
		return DirEntry{}, false
	}

	s.index++
	if s.index >= len(s.entries) {
		return DirEntry{}, false
	}

	return s.entries[s.index], true
}
