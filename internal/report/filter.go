package report

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// EntryFilter decides which visited entries are reported.
type EntryFilter interface {
	// ShouldReport returns true if the entry at the given root-relative path should be reported
	ShouldReport(relativePath string) bool
}

// GlobFilter implements EntryFilter using glob patterns
type GlobFilter struct {
	normalizedPattern string
	isEmpty           bool
}

// NewGlobFilter creates a new GlobFilter with the given pattern
// Empty pattern matches every entry
func NewGlobFilter(pattern string) *GlobFilter {
	return &GlobFilter{
		normalizedPattern: strings.ToLower(pattern),
		isEmpty:           pattern == "",
	}
}

// ValidatePattern reports whether pattern is a well-formed glob.
func ValidatePattern(pattern string) bool {
	return pattern == "" || doublestar.ValidatePattern(pattern)
}

// ShouldReport returns true if the entry should be reported based on the glob pattern
// Case-insensitive matching
func (f *GlobFilter) ShouldReport(relativePath string) bool {
	if f.isEmpty {
		return true
	}

	matched, err := doublestar.Match(f.normalizedPattern, strings.ToLower(relativePath))
	if err != nil {
		// If pattern is invalid, don't match
		return false
	}

	return matched
}

// RelativePath returns path relative to root, or "." for the root itself.
// path must have been built by appending to root.
func RelativePath(root, path string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(path, root), "/")
	if rel == "" {
		return "."
	}

	return rel
}
