package filesystem

import "io/fs"

// Kind classifies a directory entry.
type Kind uint8

// Entry kinds reported by a LookupService. Anything that is neither a
// directory nor a regular file (symlinks, sockets, devices, fifos) is KindOther.
const (
	KindOther Kind = iota
	KindDirectory
	KindRegular
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindRegular:
		return "regular"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// KindFromMode maps file mode type bits to a Kind. Symlinks are not followed.
func KindFromMode(mode fs.FileMode) Kind {
	switch {
	case mode.IsDir():
		return KindDirectory
	case mode.IsRegular():
		return KindRegular
	default:
		return KindOther
	}
}
