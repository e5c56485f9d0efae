package scan

import (
	"fmt"

	"github.com/joe/scan-dir/pkg/filesystem"
)

// ValidationError reports a root that cannot be scanned.
// It wraps ErrLookup or ErrNotDirectory.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid root %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateIsDirectory checks that path resolves to a directory.
// Symlinks are followed. The resolved handle is always released.
func ValidateIsDirectory(lookup filesystem.LookupService, path string) error {
	handle, err := lookup.Resolve(path)
	if err != nil {
		return &ValidationError{Path: path, Err: fmt.Errorf("%w: %w", ErrLookup, err)}
	}

	kind, err := handle.Kind()
	_ = handle.Release()

	if err != nil {
		return &ValidationError{Path: path, Err: fmt.Errorf("%w: %w", ErrLookup, err)}
	}

	if kind != filesystem.KindDirectory {
		return &ValidationError{Path: path, Err: fmt.Errorf("%w: found %s", ErrNotDirectory, kind)}
	}

	return nil
}
