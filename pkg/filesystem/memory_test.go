package filesystem_test

import (
	"io/fs"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/scan-dir/pkg/filesystem"
)

func listAll(g *WithT, lookup filesystem.LookupService, dir string) []filesystem.DirEntry {
	scanner, err := lookup.OpenDir(dir)
	g.Expect(err).ShouldNot(HaveOccurred())

	var entries []filesystem.DirEntry

	g.Expect(filesystem.Enumerate(scanner, func(entry filesystem.DirEntry) error {
		entries = append(entries, entry)
		return nil
	})).To(Succeed())
	g.Expect(scanner.Close()).To(Succeed())

	return entries
}

// TestMemoryLookup_ListsInInsertionOrder verifies children come back in the
// order they were added, after the pseudo entries, with their kinds.
func TestMemoryLookup_ListsInInsertionOrder(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	lookup := filesystem.NewMemoryLookup()
	lookup.AddFile("/root/zeta")
	lookup.AddDir("/root/alpha")
	lookup.AddOther("/root/sock")
	lookup.AddSymlink("/root/link", "alpha")

	g.Expect(listAll(g, lookup, "/root")).Should(Equal([]filesystem.DirEntry{
		{Name: ".", Kind: filesystem.KindDirectory},
		{Name: "..", Kind: filesystem.KindDirectory},
		{Name: "zeta", Kind: filesystem.KindRegular},
		{Name: "alpha", Kind: filesystem.KindDirectory},
		{Name: "sock", Kind: filesystem.KindOther},
		{Name: "link", Kind: filesystem.KindOther},
	}))
}

// TestMemoryLookup_AddCreatesParents verifies intermediate directories appear once.
func TestMemoryLookup_AddCreatesParents(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	lookup := filesystem.NewMemoryLookup()
	lookup.AddFile("/a/b/c.txt")
	lookup.AddFile("/a/b/d.txt")
	lookup.AddDir("/a/b")

	g.Expect(listAll(g, lookup, "/a")).Should(HaveLen(3))
	g.Expect(listAll(g, lookup, "/a/b")).Should(ContainElements(
		filesystem.DirEntry{Name: "c.txt", Kind: filesystem.KindRegular},
		filesystem.DirEntry{Name: "d.txt", Kind: filesystem.KindRegular},
	))
}

// TestMemoryLookup_ResolveFollowsSymlinks verifies root-style resolution follows links.
func TestMemoryLookup_ResolveFollowsSymlinks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	lookup := filesystem.NewMemoryLookup()
	lookup.AddDir("/data/real")
	lookup.AddSymlink("/data/rel", "real")
	lookup.AddSymlink("/data/abs", "/data/rel")
	lookup.AddSymlink("/loop/a", "/loop/b")
	lookup.AddSymlink("/loop/b", "/loop/a")

	handle, err := lookup.Resolve("/data/abs")
	g.Expect(err).ShouldNot(HaveOccurred())

	kind, err := handle.Kind()
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(kind).To(Equal(filesystem.KindDirectory))
	g.Expect(handle.Release()).To(Succeed())

	_, err = lookup.Resolve("/loop/a")
	g.Expect(err).Should(MatchError(filesystem.ErrTooManyLinks))
}

// TestMemoryLookup_TracksHandlesAndSessions verifies the accounting used by
// scanner tests to detect leaks and double releases.
func TestMemoryLookup_TracksHandlesAndSessions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	lookup := filesystem.NewMemoryLookup()
	lookup.AddDir("/dir")

	handle, err := lookup.Resolve("/dir")
	g.Expect(err).ShouldNot(HaveOccurred())
	scanner, err := lookup.OpenDir("/dir")
	g.Expect(err).ShouldNot(HaveOccurred())

	g.Expect(lookup.OpenHandles()).To(Equal(1))
	g.Expect(lookup.OpenSessions()).To(Equal(1))

	g.Expect(handle.Release()).To(Succeed())
	g.Expect(handle.Release()).To(MatchError(filesystem.ErrReleased))
	_, err = handle.Kind()
	g.Expect(err).To(MatchError(filesystem.ErrReleased))

	g.Expect(scanner.Close()).To(Succeed())
	g.Expect(scanner.Close()).To(MatchError(filesystem.ErrClosed))

	_, ok := scanner.Next()
	g.Expect(ok).To(BeFalse())

	g.Expect(lookup.OpenHandles()).To(BeZero())
	g.Expect(lookup.OpenSessions()).To(BeZero())
	g.Expect(lookup.Opened()).To(Equal([]string{"/dir"}))
}

// TestMemoryLookup_InjectedFailures verifies each failure hook.
func TestMemoryLookup_InjectedFailures(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	lookup := filesystem.NewMemoryLookup()
	lookup.AddDir("/dir")
	lookup.AddFile("/dir/file")
	lookup.AddDir("/locked")
	lookup.FailResolve("/dir", fs.ErrPermission)
	lookup.FailOpen("/locked", fs.ErrPermission)

	_, err := lookup.Resolve("/dir")
	g.Expect(err).Should(MatchError(fs.ErrPermission))

	_, err = lookup.Resolve("/missing")
	g.Expect(err).Should(MatchError(fs.ErrNotExist))

	_, err = lookup.OpenDir("/locked")
	g.Expect(err).Should(MatchError(fs.ErrPermission))

	_, err = lookup.OpenDir("/dir/file")
	g.Expect(err).Should(MatchError(filesystem.ErrNotDir))

	_, err = lookup.OpenDir("/missing")
	g.Expect(err).Should(MatchError(fs.ErrNotExist))

	g.Expect(lookup.OpenHandles()).To(BeZero())
	g.Expect(lookup.OpenSessions()).To(BeZero())
}

// TestMemoryLookup_FailListingPastEnd verifies a fault placed beyond the last
// child still fails the listing once every child was delivered.
func TestMemoryLookup_FailListingPastEnd(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	lookup := filesystem.NewMemoryLookup()
	lookup.AddFile("/dir/only")
	lookup.FailListing("/dir", 10, fs.ErrInvalid)

	scanner, err := lookup.OpenDir("/dir")
	g.Expect(err).ShouldNot(HaveOccurred())
	defer func() { _ = scanner.Close() }()

	count := 0
	err = filesystem.Enumerate(scanner, func(filesystem.DirEntry) error {
		count++
		return nil
	})

	g.Expect(err).Should(MatchError(fs.ErrInvalid))
	g.Expect(count).To(Equal(3))
}

// TestMemoryLookup_OpenDirFollowsSymlinks verifies listings through links in
// any component of the path.
func TestMemoryLookup_OpenDirFollowsSymlinks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	lookup := filesystem.NewMemoryLookup()
	lookup.AddFile("/data/sub/leaf")
	lookup.AddSymlink("/link", "/data")

	g.Expect(listAll(g, lookup, "/link")).Should(ContainElement(
		filesystem.DirEntry{Name: "sub", Kind: filesystem.KindDirectory}))
	g.Expect(listAll(g, lookup, "/link/sub")).Should(ContainElement(
		filesystem.DirEntry{Name: "leaf", Kind: filesystem.KindRegular}))

	_, err := lookup.OpenDir("/link/sub/leaf")
	g.Expect(err).Should(MatchError(filesystem.ErrNotDir))
}
