package scan

import (
	"fmt"
	"strings"

	"github.com/joe/scan-dir/pkg/filesystem"
)

// Collector lists one directory at a time into an EntryList.
type Collector struct {
	lookup filesystem.LookupService
	alloc  Allocator
}

// NewCollector creates a collector that lists through lookup and allocates from alloc.
func NewCollector(lookup filesystem.LookupService, alloc Allocator) *Collector {
	return &Collector{lookup: lookup, alloc: alloc}
}

// Collect appends a record for every directory and regular file directly
// under dirPath to the tail of out, in the order the lookup delivers them,
// and returns how many were appended.
//
// dirPath is not checked to be a directory. On any failure every record this
// call appended is released, leaving out as it was.
func (c *Collector) Collect(dirPath string, out *EntryList) (int, error) {
	scanner, err := c.lookup.OpenDir(dirPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrEnumeration, dirPath, err)
	}
	defer func() { _ = scanner.Close() }()

	mark := out.Mark()
	count := 0

	// sticky holds an allocation failure from inside the callback.
	var sticky error

	err = filesystem.Enumerate(scanner, func(entry filesystem.DirEntry) error {
		if filesystem.IsPseudoEntry(entry.Name) {
			return nil
		}

		if entry.Kind != filesystem.KindDirectory && entry.Kind != filesystem.KindRegular {
			return nil
		}

		record, err := c.alloc.New(childPath(dirPath, entry.Name), entry.Kind)
		if err != nil {
			sticky = err
			return err
		}

		out.PushBack(record)
		count++

		return nil
	})

	if sticky != nil || err != nil {
		out.ReleaseSince(mark, c.alloc)

		if sticky != nil {
			return 0, fmt.Errorf("failed to collect %s: %w", dirPath, sticky)
		}

		return 0, fmt.Errorf("%w: %s: %w", ErrEnumeration, dirPath, err)
	}

	return count, nil
}

// childPath joins dir and name with exactly one separator.
func childPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}

	return dir + "/" + name
}
