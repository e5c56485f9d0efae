package errors_test

import (
	"testing"

	"github.com/joe/scan-dir/pkg/errors"
)

//nolint:funlen // Table-driven test covering every category
func TestPatternMatcher_Match(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		errorMsg string
		expected errors.ErrorCategory
	}{
		{
			name:     "root is a file",
			errorMsg: "invalid root /etc/hosts: not a directory: found regular",
			expected: errors.CategoryNotDirectory,
		},
		{
			name:     "permission denied on open",
			errorMsg: "directory enumeration failed: /root: failed to open directory /root: permission denied",
			expected: errors.CategoryPermission,
		},
		{
			name:     "uppercase permission denied",
			errorMsg: "PERMISSION DENIED",
			expected: errors.CategoryPermission,
		},
		{
			name:     "missing root",
			errorMsg: "invalid root /nope: lookup failed: failed to resolve /nope: no such file or directory",
			expected: errors.CategoryPath,
		},
		{
			name:     "missing file under .ssh is still a path problem",
			errorMsg: "open /home/joe/.ssh/config: no such file or directory",
			expected: errors.CategoryPath,
		},
		{
			name:     "symlink loop",
			errorMsg: "failed to resolve /a: too many levels of symbolic links",
			expected: errors.CategoryPath,
		},
		{
			name:     "unknown host key",
			errorMsg: "SSH connection to files:22 failed: ssh: handshake failed: knownhosts: key is unknown",
			expected: errors.CategoryConnection,
		},
		{
			name:     "connection refused",
			errorMsg: "dial tcp 10.0.0.1:22: connect: connection refused",
			expected: errors.CategoryConnection,
		},
		{
			name:     "entry limit",
			errorMsg: "failed to allocate root entry: entry allocation failed: 10 live entries (limit 10)",
			expected: errors.CategoryResources,
		},
		{
			name:     "fd limit",
			errorMsg: "open /srv: too many open files",
			expected: errors.CategoryResources,
		},
		{
			name:     "read failure",
			errorMsg: "directory enumeration failed: /mnt/nfs: failed to read directory /mnt/nfs: input/output error",
			expected: errors.CategoryIO,
		},
		{
			name:     "unmatched",
			errorMsg: "something odd happened",
			expected: errors.CategoryUnknown,
		},
	}

	matcher := errors.NewPatternMatcher()

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			category := matcher.Match(testCase.errorMsg)
			if category != testCase.expected {
				t.Errorf("expected category %q, got %q for error: %q",
					testCase.expected, category, testCase.errorMsg)
			}
		})
	}
}
