package scan

import (
	"fmt"

	"github.com/joe/scan-dir/pkg/filesystem"
)

// Allocator creates and releases EntryRecords.
// Every record from New must be passed to Free exactly once.
type Allocator interface {
	New(path string, kind filesystem.Kind) (*EntryRecord, error)
	Free(record *EntryRecord)
	Stats() PoolStats
}

// PoolStats counts record allocations.
type PoolStats struct {
	Allocated   int
	Released    int
	Live        int
	PeakLive    int
	DoubleFrees int
}

// RecordPool is the default Allocator.
// With MaxLive > 0 it refuses to hold more than MaxLive live records.
// Not safe for concurrent use.
type RecordPool struct {
	MaxLive int

	stats PoolStats
}

// NewRecordPool creates a pool. maxLive <= 0 means unlimited.
func NewRecordPool(maxLive int) *RecordPool {
	return &RecordPool{MaxLive: maxLive}
}

// New allocates a record for path.
func (p *RecordPool) New(path string, kind filesystem.Kind) (*EntryRecord, error) {
	if p.MaxLive > 0 && p.stats.Live >= p.MaxLive {
		return nil, fmt.Errorf("%w: %d live entries (limit %d)", ErrResourceExhausted, p.stats.Live, p.MaxLive)
	}

	p.stats.Allocated++
	p.stats.Live++
	p.stats.PeakLive = max(p.stats.PeakLive, p.stats.Live)

	return &EntryRecord{path: path, kind: kind}, nil
}

// Free releases record. A second release of the same record is only counted.
func (p *RecordPool) Free(record *EntryRecord) {
	if record == nil {
		return
	}

	if record.released {
		p.stats.DoubleFrees++
		return
	}

	record.released = true
	p.stats.Released++
	p.stats.Live--
}

// Stats returns a snapshot of the counters.
func (p *RecordPool) Stats() PoolStats {
	return p.stats
}
