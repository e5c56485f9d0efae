package errors

import "strings"

// PatternMatcher matches error messages to categories using string patterns.
type PatternMatcher interface {
	Match(errorMsg string) ErrorCategory
}

// NewPatternMatcher creates a new PatternMatcher with predefined patterns.
// Rules are checked in order; the first category with a matching pattern wins.
func NewPatternMatcher() PatternMatcher {
	return &patternMatcher{
		rules: []matchRule{
			{CategoryNotDirectory, []string{
				"not a directory",
			}},
			{CategoryPermission, []string{
				"permission denied",
				"access denied",
				"operation not permitted",
			}},
			{CategoryPath, []string{
				"no such file or directory",
				"file does not exist",
				"path does not exist",
				"too many levels of symbolic links",
				"root path is empty",
			}},
			{CategoryConnection, []string{
				"ssh",
				"known_hosts",
				"knownhosts",
				"connection refused",
				"no route to host",
				"i/o timeout",
				"unable to authenticate",
			}},
			{CategoryResources, []string{
				"entry allocation failed",
				"cannot allocate memory",
				"too many open files",
			}},
			{CategoryIO, []string{
				"input/output error",
				"i/o error",
				"directory enumeration failed",
			}},
		},
	}
}

// matchRule maps patterns to one category.
type matchRule struct {
	category ErrorCategory
	patterns []string
}

// patternMatcher is the concrete implementation of PatternMatcher.
type patternMatcher struct {
	rules []matchRule
}

// Match returns the error category based on pattern matching.
func (m *patternMatcher) Match(errorMsg string) ErrorCategory {
	lowerMsg := strings.ToLower(errorMsg)

	for _, rule := range m.rules {
		for _, pattern := range rule.patterns {
			if strings.Contains(lowerMsg, pattern) {
				return rule.category
			}
		}
	}

	// No match found
	return CategoryUnknown
}
