//go:build linux

package filesystem

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// linux_dirent64 layout:
//
//	struct linux_dirent64 {
//	    ino64_t        d_ino;    /* offset 0  */
//	    off64_t        d_off;    /* offset 8  */
//	    unsigned short d_reclen; /* offset 16 */
//	    unsigned char  d_type;   /* offset 18 */
//	    char           d_name[]; /* offset 19, NUL terminated */
//	};
const (
	direntInoOffset    = 0
	direntReclenOffset = 16
	direntTypeOffset   = 18
	direntNameOffset   = 19
)

// OpenDir opens path read-only, non-blocking and directory-only, and returns
// a scanner that reads raw records with getdents64.
func (l *RealLookup) OpenDir(path string) (EntryScanner, error) {
	fd, err := openRetry(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_DIRECTORY|unix.O_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", path, err)
	}

	return &getdentsScanner{
		fd:   fd,
		path: path,
		buf:  make([]byte, l.bufferSize()),
	}, nil
}

// Resolve opens an O_PATH descriptor for path, following symlinks.
func (l *RealLookup) Resolve(path string) (Handle, error) {
	fd, err := openRetry(path, unix.O_PATH|unix.O_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	return &fdHandle{fd: fd, path: path}, nil
}

// fdHandle is an O_PATH descriptor.
type fdHandle struct {
	fd       int
	path     string
	released bool
}

func (h *fdHandle) Kind() (Kind, error) {
	if h.released {
		return KindOther, ErrReleased
	}

	var st unix.Stat_t

	err := unix.Fstat(h.fd, &st)
	if err != nil {
		return KindOther, fmt.Errorf("failed to stat %s: %w", h.path, err)
	}

	return kindFromStatMode(st.Mode), nil
}

func (h *fdHandle) Release() error {
	if h.released {
		return ErrReleased
	}
	h.released = true

	err := unix.Close(h.fd)
	if err != nil {
		return fmt.Errorf("failed to release %s: %w", h.path, err)
	}

	return nil
}

// getdentsScanner yields children straight from getdents64 records.
type getdentsScanner struct {
	fd     int
	path   string
	buf    []byte
	n      int
	offset int
	err    error
	eof    bool
	closed bool
}

func (s *getdentsScanner) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	err := unix.Close(s.fd)
	if err != nil {
		return fmt.Errorf("failed to close directory %s: %w", s.path, err)
	}

	return nil
}

func (s *getdentsScanner) Err() error {
	return s.err
}

func (s *getdentsScanner) Next() (DirEntry, bool) {
	for !s.closed && s.err == nil {
		if s.offset >= s.n {
			if s.eof || !s.fill() {
				return DirEntry{}, false
			}

			continue
		}

		rec, err := parseDirent(s.buf[s.offset:s.n])
		if err != nil {
			s.err = fmt.Errorf("failed to parse entries of %s: %w", s.path, err)
			return DirEntry{}, false
		}
		s.offset += rec.reclen

		if rec.ino == 0 {
			continue
		}

		return DirEntry{Name: rec.name, Kind: s.kindOf(rec)}, true
	}

	return DirEntry{}, false
}

// fill reads the next batch of records. Returns false at end of directory or on error.
func (s *getdentsScanner) fill() bool {
	for {
		n, err := unix.Getdents(s.fd, s.buf)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		if err != nil {
			s.err = fmt.Errorf("failed to read directory %s: %w", s.path, err)
			return false
		}

		if n <= 0 {
			s.eof = true
			return false
		}

		s.n = n
		s.offset = 0

		return true
	}
}

// kindOf classifies a record. DT_UNKNOWN falls back to fstatat without following links.
func (s *getdentsScanner) kindOf(rec dirent) Kind {
	if rec.dtype != unix.DT_UNKNOWN {
		return kindFromDType(rec.dtype)
	}

	if IsPseudoEntry(rec.name) {
		return KindDirectory
	}

	var st unix.Stat_t

	err := unix.Fstatat(s.fd, rec.name, &st, unix.AT_SYMLINK_NOFOLLOW)
	if err != nil {
		// Vanished between listing and stat.
		return KindOther
	}

	return kindFromStatMode(st.Mode)
}

// dirent is one decoded linux_dirent64 record.
type dirent struct {
	ino    uint64
	reclen int
	dtype  uint8
	name   string
}

var errShortDirent = errors.New("truncated directory record")

// parseDirent decodes the record at the start of buf.
func parseDirent(buf []byte) (dirent, error) {
	if len(buf) < direntNameOffset {
		return dirent{}, errShortDirent
	}

	reclen := int(binary.NativeEndian.Uint16(buf[direntReclenOffset:]))
	if reclen < direntNameOffset || reclen > len(buf) {
		return dirent{}, errShortDirent
	}

	name := buf[direntNameOffset:reclen]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}

	return dirent{
		ino:    binary.NativeEndian.Uint64(buf[direntInoOffset:]),
		reclen: reclen,
		dtype:  buf[direntTypeOffset],
		name:   string(name),
	}, nil
}

func kindFromDType(dtype uint8) Kind {
	switch dtype {
	case unix.DT_DIR:
		return KindDirectory
	case unix.DT_REG:
		return KindRegular
	default:
		return KindOther
	}
}

func kindFromStatMode(mode uint32) Kind {
	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		return KindDirectory
	case unix.S_IFREG:
		return KindRegular
	default:
		return KindOther
	}
}

func openRetry(path string, flags int) (int, error) {
	for {
		fd, err := unix.Open(path, flags, 0)
		if errors.Is(err, unix.EINTR) {
			continue
		}

		return fd, err //nolint:wrapcheck // Callers wrap with the path
	}
}
