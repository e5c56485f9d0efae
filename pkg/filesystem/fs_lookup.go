package filesystem

import (
	"fmt"
	"os"

	krfs "github.com/kr/fs"
)

// statFileSystem is implemented by kr/fs filesystems that can follow symlinks.
type statFileSystem interface {
	Stat(name string) (os.FileInfo, error)
}

// FSLookup implements LookupService on top of a github.com/kr/fs FileSystem.
// Listings are read in one ReadDir call and served from memory.
type FSLookup struct {
	fsys krfs.FileSystem
}

// NewFSLookup wraps fsys.
func NewFSLookup(fsys krfs.FileSystem) *FSLookup {
	return &FSLookup{fsys: fsys}
}

// OpenDir lists path and returns a scanner over its children.
func (l *FSLookup) OpenDir(path string) (EntryScanner, error) {
	infos, err := l.fsys.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", path, err)
	}

	entries := make([]DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, DirEntry{
			Name: info.Name(),
			Kind: KindFromMode(info.Mode()),
		})
	}

	return newSliceScanner(entries), nil
}

// Resolve stats path. Symlinks are followed when the filesystem supports Stat.
func (l *FSLookup) Resolve(path string) (Handle, error) {
	var (
		info os.FileInfo
		err  error
	)

	if statter, ok := l.fsys.(statFileSystem); ok {
		info, err = statter.Stat(path)
	} else {
		info, err = l.fsys.Lstat(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	return &staticHandle{kind: KindFromMode(info.Mode())}, nil
}
