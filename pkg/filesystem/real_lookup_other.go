//go:build !linux

package filesystem

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// readDirBatch is the number of entries requested per ReadDir call.
const readDirBatch = 256

// OpenDir opens path and returns a scanner that reads entries in batches.
func (l *RealLookup) OpenDir(path string) (EntryScanner, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", path, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("failed to open directory %s: %w", path, ErrNotDir)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", path, err)
	}

	return &readDirScanner{file: file, path: path}, nil
}

// Resolve stats path, following symlinks.
func (l *RealLookup) Resolve(path string) (Handle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	return &staticHandle{kind: KindFromMode(info.Mode())}, nil
}

// readDirScanner yields children from batched (*os.File).ReadDir calls.
type readDirScanner struct {
	file    *os.File
	path    string
	pending []os.DirEntry
	err     error
	eof     bool
	closed  bool
}

func (s *readDirScanner) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	err := s.file.Close()
	if err != nil {
		return fmt.Errorf("failed to close directory %s: %w", s.path, err)
	}

	return nil
}

func (s *readDirScanner) Err() error {
	return s.err
}

func (s *readDirScanner) Next() (DirEntry, bool) {
	for len(s.pending) == 0 {
		if s.closed || s.eof || s.err != nil {
			return DirEntry{}, false
		}

		batch, err := s.file.ReadDir(readDirBatch)
		s.pending = batch

		if errors.Is(err, io.EOF) {
			s.eof = true
		} else if err != nil {
			s.err = fmt.Errorf("failed to read directory %s: %w", s.path, err)
			s.pending = nil
		}
	}

	entry := s.pending[0]
	s.pending = s.pending[1:]

	return DirEntry{Name: entry.Name(), Kind: KindFromMode(entry.Type())}, true
}
