package filesystem

// Exported constants.
const (
	// DefaultBufferSize is the directory read buffer used when none is configured.
	DefaultBufferSize = 32 * 1024
	// MinBufferSize fits the largest possible single directory record.
	MinBufferSize = 512
)

// RealLookup implements LookupService on the local filesystem.
type RealLookup struct {
	// BufferSize is the size of the raw directory read buffer in bytes.
	BufferSize int
}

// NewRealLookup creates a RealLookup with the default buffer size.
func NewRealLookup() *RealLookup {
	return &RealLookup{BufferSize: DefaultBufferSize}
}

func (l *RealLookup) bufferSize() int {
	switch {
	case l.BufferSize <= 0:
		return DefaultBufferSize
	case l.BufferSize < MinBufferSize:
		return MinBufferSize
	default:
		return l.BufferSize
	}
}
