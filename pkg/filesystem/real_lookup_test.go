//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package filesystem_test

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/scan-dir/pkg/filesystem"
)

func resolveKind(g *WithT, lookup filesystem.LookupService, path string) filesystem.Kind {
	handle, err := lookup.Resolve(path)
	g.Expect(err).ShouldNot(HaveOccurred())

	kind, err := handle.Kind()
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(handle.Release()).To(Succeed())

	return kind
}

// realChildren lists dir with the real lookup, dropping pseudo entries.
func realChildren(g *WithT, lookup filesystem.LookupService, dir string) map[string]filesystem.Kind {
	children := make(map[string]filesystem.Kind)

	for _, entry := range listAll(g, lookup, dir) {
		if filesystem.IsPseudoEntry(entry.Name) {
			continue
		}

		g.Expect(children).ShouldNot(HaveKey(entry.Name), "entry listed twice")
		children[entry.Name] = entry.Kind
	}

	return children
}

// TestRealLookup_Resolve verifies kinds for directories, files and links,
// and that the root link is followed.
func TestRealLookup_Resolve(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "file.txt")
	g.Expect(os.WriteFile(filePath, []byte("content"), 0o644)).To(Succeed())
	g.Expect(os.Symlink(tmpDir, filepath.Join(tmpDir, "self-link"))).To(Succeed())

	lookup := filesystem.NewRealLookup()

	g.Expect(resolveKind(g, lookup, tmpDir)).To(Equal(filesystem.KindDirectory))
	g.Expect(resolveKind(g, lookup, filePath)).To(Equal(filesystem.KindRegular))
	g.Expect(resolveKind(g, lookup, filepath.Join(tmpDir, "self-link"))).To(Equal(filesystem.KindDirectory))

	_, err := lookup.Resolve(filepath.Join(tmpDir, "missing"))
	g.Expect(err).Should(MatchError(fs.ErrNotExist))
}

// TestRealLookup_OpenDirListsChildren verifies every child is listed once with
// its own kind; symlinks are not followed.
func TestRealLookup_OpenDirListsChildren(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tmpDir := t.TempDir()
	g.Expect(os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("a"), 0o644)).To(Succeed())
	g.Expect(os.Mkdir(filepath.Join(tmpDir, "sub"), 0o755)).To(Succeed())
	g.Expect(os.Symlink("sub", filepath.Join(tmpDir, "link"))).To(Succeed())

	children := realChildren(g, filesystem.NewRealLookup(), tmpDir)

	g.Expect(children).Should(Equal(map[string]filesystem.Kind{
		"a.txt": filesystem.KindRegular,
		"sub":   filesystem.KindDirectory,
		"link":  filesystem.KindOther,
	}))
}

// TestRealLookup_SmallBufferRefills verifies listings larger than one read
// buffer are delivered completely.
func TestRealLookup_SmallBufferRefills(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tmpDir := t.TempDir()
	expected := make(map[string]filesystem.Kind)

	for i := range 200 {
		name := fmt.Sprintf("%03d-%s", i, strings.Repeat("x", 100))
		g.Expect(os.WriteFile(filepath.Join(tmpDir, name), nil, 0o644)).To(Succeed())
		expected[name] = filesystem.KindRegular
	}

	lookup := &filesystem.RealLookup{BufferSize: filesystem.MinBufferSize}

	g.Expect(realChildren(g, lookup, tmpDir)).Should(Equal(expected))
}

// TestRealLookup_OpenDirErrors verifies opening a file or a missing path fails.
func TestRealLookup_OpenDirErrors(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "file.txt")
	g.Expect(os.WriteFile(filePath, nil, 0o644)).To(Succeed())

	lookup := filesystem.NewRealLookup()

	_, err := lookup.OpenDir(filePath)
	g.Expect(err).Should(HaveOccurred())

	_, err = lookup.OpenDir(filepath.Join(tmpDir, "missing"))
	g.Expect(err).Should(MatchError(fs.ErrNotExist))
}

// TestRealLookup_CloseTwice verifies sessions and handles refuse a second release.
func TestRealLookup_CloseTwice(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	tmpDir := t.TempDir()
	lookup := filesystem.NewRealLookup()

	scanner, err := lookup.OpenDir(tmpDir)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(scanner.Close()).To(Succeed())
	g.Expect(scanner.Close()).To(MatchError(filesystem.ErrClosed))

	_, ok := scanner.Next()
	g.Expect(ok).To(BeFalse())

	handle, err := lookup.Resolve(tmpDir)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(handle.Release()).To(Succeed())
	g.Expect(handle.Release()).To(MatchError(filesystem.ErrReleased))
}
