package errors

import (
	"errors"
	"regexp"
	"strings"
)

// Enricher enriches standard errors with actionable suggestions.
type Enricher interface {
	Enrich(err error, affectedPath string) error
}

// NewEnricher creates a new Enricher with default pattern matcher and suggestion generator.
func NewEnricher() Enricher {
	return &enricher{
		matcher:   NewPatternMatcher(),
		generator: NewSuggestionGenerator(),
	}
}

// pathToken matches a local path (absolute, ./ or ~/ relative) or an sftp:// root.
const pathToken = `(sftp://[^\s/]+(?:/[^\s:]*)?|[./~][^\s:]*)`

// unexported variables.
var (
	// Outermost wrappers first, so the path the user passed wins over inner ones.
	//nolint:gochecknoglobals // Compiled regexes shared across all enricher instances for performance
	pathExtractionPatterns = []*regexp.Regexp{
		// scan.ValidationError: "invalid root /srv: ..."
		regexp.MustCompile(`invalid root ` + pathToken + `:`),
		// Collector failures: "directory enumeration failed: /srv/a: ..." and "failed to collect /srv/a: ..."
		regexp.MustCompile(`directory enumeration failed: ` + pathToken + `:`),
		regexp.MustCompile(`failed to collect ` + pathToken + `:`),
		// Lookup adapters: "failed to open directory /srv/a: ...", "failed to resolve /srv: ...",
		// "failed to parse entries of /srv/a: ..."
		regexp.MustCompile(`failed to (?:open|read|close) directory ` + pathToken + `:`),
		regexp.MustCompile(`failed to (?:resolve|stat|release|load) ` + pathToken + `:`),
		regexp.MustCompile(`failed to parse (?:entries of|config file) ` + pathToken + `:`),
		// Plain os errors: "open /srv/a: permission denied"
		regexp.MustCompile(`\b(?:open|openat|stat|lstat|readdirent) ` + pathToken + `:`),
		// Any sftp:// root mentioned elsewhere
		regexp.MustCompile(`(sftp://[^\s/]+(?:/[^\s:]*)?)`),
	}
)

// enricher is the concrete implementation of Enricher.
type enricher struct {
	matcher   PatternMatcher
	generator SuggestionGenerator
}

// Enrich takes a standard error and enriches it with category and actionable suggestions.
// If the error is already an ActionableError, it is returned unchanged.
// If affectedPath is empty, attempts to extract a path from the error message.
func (e *enricher) Enrich(err error, affectedPath string) error {
	// If already actionable, return as-is
	var actionableErr ActionableError
	if errors.As(err, &actionableErr) {
		return actionableErr
	}

	errMsg := err.Error()

	// If no path provided, try to extract from error message
	if affectedPath == "" {
		affectedPath = extractPath(errMsg)
	}

	// Match error message to category
	category := e.matcher.Match(errMsg)

	// Generate suggestions for the category
	suggestions := e.generator.Generate(category, affectedPath)

	return newActionableError(
		errMsg,
		category,
		suggestions,
		affectedPath,
		err,
	)
}

// extractPath attempts to extract a path from common Go error message formats
// such as "open /path/to/dir: permission denied".
// Returns empty string if no path is found.
func extractPath(errorMsg string) string {
	for _, pattern := range pathExtractionPatterns {
		if matches := pattern.FindStringSubmatch(errorMsg); len(matches) > 1 {
			path := strings.TrimSpace(matches[1])
			if path != "" {
				return path
			}
		}
	}

	return ""
}
