// Package errors provides actionable error handling with context-aware suggestions.
//
// This package enriches the errors a scan can end with (bad root, permissions,
// SSH connection problems, entry limits) with a category and suggestions the
// user can act on.
//
// Basic Usage:
//
//	enricher := errors.NewEnricher()
//	_, err := engine.Run(root)
//	if err != nil {
//	    enriched := enricher.Enrich(err, root)
//	    fmt.Println(enriched.Error())
//	    fmt.Println(errors.FormatSuggestions(enriched))
//	}
//
// The enricher extracts a path from the error message when none is given:
//
//	err := fmt.Errorf("open /home/user/data: permission denied")
//	enriched := enricher.Enrich(err, "") // Path will be extracted from error message
package errors

import (
	stderrors "errors"
	"strings"
)

// Exported constants.
const (
	CategoryConnection   ErrorCategory = "connection"
	CategoryIO           ErrorCategory = "io"
	CategoryNotDirectory ErrorCategory = "not_directory"
	CategoryPath         ErrorCategory = "path"
	CategoryPermission   ErrorCategory = "permission"
	CategoryResources    ErrorCategory = "resources"
	CategoryUnknown      ErrorCategory = "unknown"
)

// ActionableError represents an error with actionable suggestions for the user.
type ActionableError interface {
	error
	OriginalError() string
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// NewActionableError creates a new ActionableError with the given details.
func NewActionableError(
	originalError string,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return newActionableError(originalError, category, suggestions, affectedPath, nil)
}

func newActionableError(
	originalError string,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
	cause error,
) *actionableError {
	return &actionableError{
		cause:         cause,
		originalError: originalError,
		category:      category,
		suggestions:   suggestions,
		affectedPath:  affectedPath,
	}
}

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// FormatSuggestions formats the suggestions from an ActionableError as a bulleted list
// for display. Returns empty string if the error is nil or has no suggestions.
func FormatSuggestions(err error) string {
	if err == nil {
		return ""
	}

	var actionable ActionableError
	if !stderrors.As(err, &actionable) {
		return ""
	}

	suggestions := actionable.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	// Bulleted list with two-space indent
	var builder strings.Builder
	for i, suggestion := range suggestions {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

// actionableError is the concrete implementation of ActionableError.
type actionableError struct {
	cause         error
	originalError string
	category      ErrorCategory
	suggestions   []string
	affectedPath  string
}

// AffectedPath returns the file path affected by this error.
func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

// Category returns the error category.
func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Error implements the error interface.
func (e *actionableError) Error() string {
	return e.originalError
}

// OriginalError returns the original error message.
func (e *actionableError) OriginalError() string {
	return e.originalError
}

// Suggestions returns the list of actionable suggestions.
func (e *actionableError) Suggestions() []string {
	return e.suggestions
}

// Unwrap returns the enriched error, if any.
func (e *actionableError) Unwrap() error {
	return e.cause
}
