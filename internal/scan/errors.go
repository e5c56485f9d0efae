package scan

import (
	"errors"
	"io/fs"
	"syscall"
)

// Exported variables.
var (
	ErrEnumeration       = errors.New("directory enumeration failed")
	ErrLookup            = errors.New("lookup failed")
	ErrNotDirectory      = errors.New("not a directory")
	ErrResourceExhausted = errors.New("entry allocation failed")
)

// Run status codes. Failures are negative errno values.
const (
	StatusOK           = 0
	StatusNotFound     = -2  // ENOENT
	StatusIO           = -5  // EIO
	StatusNoMemory     = -12 // ENOMEM
	StatusPermission   = -13 // EACCES
	StatusNotDirectory = -20 // ENOTDIR
	StatusInvalid      = -22 // EINVAL
)

// StatusCode maps a run error to its status code.
func StatusCode(err error) int {
	if err == nil {
		return StatusOK
	}

	switch {
	case errors.Is(err, ErrResourceExhausted):
		return StatusNoMemory
	case errors.Is(err, ErrNotDirectory):
		return StatusNotDirectory
	case errors.Is(err, ErrEnumeration):
		return StatusIO
	case errors.Is(err, ErrLookup):
		return lookupStatus(err)
	default:
		return StatusInvalid
	}
}

func lookupStatus(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		return StatusPermission
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return -int(errno)
	}

	return StatusNotFound
}
