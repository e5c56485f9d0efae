package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// maxLinkHops bounds symlink resolution in MemoryLookup.
const maxLinkHops = 8

// ErrTooManyLinks is returned when resolving a symlink chain exceeds maxLinkHops.
var ErrTooManyLinks = errors.New("too many levels of symbolic links")

// MemoryLookup is an in-memory LookupService for testing.
// Children are listed in insertion order, preceded by "." and "..", and
// every handle and session it hands out is counted until released.
type MemoryLookup struct {
	mu           sync.Mutex
	nodes        map[string]*memNode
	resolveErrs  map[string]error
	openErrs     map[string]error
	listFaults   map[string]listFault
	openHandles  int
	openSessions int
	opened       []string
}

// memNode is one entry of the in-memory tree.
type memNode struct {
	kind     Kind
	target   string // symlinks only
	children []string
}

// listFault fails a listing after a number of real children were delivered.
type listFault struct {
	after int
	err   error
}

// NewMemoryLookup creates an in-memory tree containing only "/".
func NewMemoryLookup() *MemoryLookup {
	return &MemoryLookup{
		nodes:       map[string]*memNode{"/": {kind: KindDirectory}},
		resolveErrs: make(map[string]error),
		openErrs:    make(map[string]error),
		listFaults:  make(map[string]listFault),
	}
}

// Helper methods for building trees

// AddDir adds a directory and any missing parents.
func (l *MemoryLookup) AddDir(p string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.addLocked(cleanPath(p), &memNode{kind: KindDirectory})
}

// AddFile adds a regular file and any missing parents.
func (l *MemoryLookup) AddFile(p string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.addLocked(cleanPath(p), &memNode{kind: KindRegular})
}

// AddOther adds an entry that is neither a file nor a directory (socket, device, fifo).
func (l *MemoryLookup) AddOther(p string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.addLocked(cleanPath(p), &memNode{kind: KindOther})
}

// AddSymlink adds a symlink to target. Listings report it as KindOther;
// Resolve follows it.
func (l *MemoryLookup) AddSymlink(p, target string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.addLocked(cleanPath(p), &memNode{kind: KindOther, target: target})
}

// FailResolve makes Resolve(p) fail with err.
func (l *MemoryLookup) FailResolve(p string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resolveErrs[cleanPath(p)] = err
}

// FailOpen makes OpenDir(p) fail with err.
func (l *MemoryLookup) FailOpen(p string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.openErrs[cleanPath(p)] = err
}

// FailListing makes the listing of p fail with err after delivering `after` real children.
func (l *MemoryLookup) FailListing(p string, after int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.listFaults[cleanPath(p)] = listFault{after: after, err: err}
}

// OpenHandles returns the number of resolved handles not yet released.
func (l *MemoryLookup) OpenHandles() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.openHandles
}

// OpenSessions returns the number of enumeration sessions not yet closed.
func (l *MemoryLookup) OpenSessions() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.openSessions
}

// Opened returns every path passed to a successful OpenDir, in call order.
func (l *MemoryLookup) Opened() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.opened...)
}

// OpenDir starts an enumeration session over p, following symlinks.
func (l *MemoryLookup) OpenDir(p string) (EntryScanner, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	clean := cleanPath(p)

	if err, ok := l.openErrs[clean]; ok {
		return nil, fmt.Errorf("failed to open directory %s: %w", p, err)
	}

	resolved, node, err := l.walkLocked(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", p, err)
	}

	if node.kind != KindDirectory {
		return nil, fmt.Errorf("failed to open directory %s: %w", p, ErrNotDir)
	}

	entries := []DirEntry{
		{Name: SelfEntry, Kind: KindDirectory},
		{Name: ParentEntry, Kind: KindDirectory},
	}
	for _, name := range node.children {
		entries = append(entries, DirEntry{Name: name, Kind: l.nodes[path.Join(resolved, name)].kind})
	}

	scanner := &memoryScanner{lookup: l, entries: entries, index: -1, failAfter: -1}
	if fault, ok := l.listFaults[clean]; ok {
		// Two pseudo entries precede the real children.
		scanner.failAfter = fault.after + 2 //nolint:mnd // "." and ".."
		scanner.failErr = fmt.Errorf("failed to read directory %s: %w", p, fault.err)
	}

	l.openSessions++
	l.opened = append(l.opened, p)

	return scanner, nil
}

// Resolve looks p up, following symlinks.
func (l *MemoryLookup) Resolve(p string) (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	clean := cleanPath(p)

	if err, ok := l.resolveErrs[clean]; ok {
		return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
	}

	_, node, err := l.walkLocked(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
	}

	l.openHandles++

	return &memoryHandle{lookup: l, kind: node.kind}, nil
}

// walkLocked resolves clean one component at a time, following every
// symlink on the way. Returns the link-free path and its node.
func (l *MemoryLookup) walkLocked(clean string) (string, *memNode, error) {
	resolved := "/"
	pending := splitPath(clean)

	for hops := 0; len(pending) > 0; {
		next := path.Join(resolved, pending[0])
		pending = pending[1:]

		node, exists := l.nodes[next]
		if !exists {
			return "", nil, fs.ErrNotExist
		}

		if node.target == "" {
			resolved = next
			continue
		}

		hops++
		if hops > maxLinkHops {
			return "", nil, ErrTooManyLinks
		}

		target := node.target
		if !path.IsAbs(target) {
			target = path.Join(resolved, target)
		}

		pending = append(splitPath(cleanPath(target)), pending...)
		resolved = "/"
	}

	return resolved, l.nodes[resolved], nil
}

// addLocked inserts node at p, creating parents. The lock must be held.
func (l *MemoryLookup) addLocked(p string, node *memNode) {
	if p == "/" {
		return
	}

	parent := path.Dir(p)
	if _, exists := l.nodes[parent]; !exists {
		l.addLocked(parent, &memNode{kind: KindDirectory})
	}

	if existing, exists := l.nodes[p]; exists {
		node.children = existing.children
	} else {
		l.nodes[parent].children = append(l.nodes[parent].children, path.Base(p))
	}

	l.nodes[p] = node
}

// memoryHandle is a handle handed out by MemoryLookup.
type memoryHandle struct {
	lookup   *MemoryLookup
	kind     Kind
	released bool
}

func (h *memoryHandle) Kind() (Kind, error) {
	if h.released {
		return KindOther, ErrReleased
	}

	return h.kind, nil
}

func (h *memoryHandle) Release() error {
	if h.released {
		return ErrReleased
	}
	h.released = true

	h.lookup.mu.Lock()
	h.lookup.openHandles--
	h.lookup.mu.Unlock()

	return nil
}

// memoryScanner serves a snapshot of one directory listing.
type memoryScanner struct {
	lookup    *MemoryLookup
	entries   []DirEntry
	index     int
	failAfter int
	failErr   error
	err       error
	closed    bool
}

func (s *memoryScanner) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	s.lookup.mu.Lock()
	s.lookup.openSessions--
	s.lookup.mu.Unlock()

	return nil
}

func (s *memoryScanner) Err() error {
	return s.err
}

func (s *memoryScanner) Next() (DirEntry, bool) {
	if s.closed || s.err != nil {
		return DirEntry{}, false
	}

	s.index++
	if s.failAfter >= 0 && (s.index >= s.failAfter || s.index >= len(s.entries)) {
		s.err = s.failErr
		return DirEntry{}, false
	}

	if s.index >= len(s.entries) {
		return DirEntry{}, false
	}

	return s.entries[s.index], true
}

// splitPath splits an absolute clean path into its components.
func splitPath(clean string) []string {
	if clean == "/" {
		return nil
	}

	return strings.Split(clean[1:], "/")
}

// cleanPath cleans p and anchors it at "/".
func cleanPath(p string) string {
	return path.Clean("/" + p)
}
