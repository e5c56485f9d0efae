package filesystem

import (
	"fmt"
)

// Options configures OpenLookup.
type Options struct {
	// BufferSize is the local directory read buffer in bytes.
	BufferSize int
	SSH        SSHOptions
}

// OpenLookup creates the LookupService for root.
// Returns (lookup, path, closer, error).
// - lookup: the LookupService to scan with
// - path: the path to pass to it (stripped of any sftp:// prefix)
// - closer: releases connections; never nil
func OpenLookup(root string, opts Options) (LookupService, string, func() error, error) {
	target, err := ParseRoot(root)
	if err != nil {
		return nil, "", nil, err
	}

	if !target.Remote {
		return &RealLookup{BufferSize: opts.BufferSize}, target.Path, func() error { return nil }, nil
	}

	conn, err := Connect(target, opts.SSH)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to connect to %s@%s:%d: %w",
			target.User, target.Host, target.Port, err)
	}

	lookup := NewSFTPLookup(conn)

	return lookup, target.Path, lookup.Close, nil
}
