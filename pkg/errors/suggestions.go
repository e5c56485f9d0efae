package errors

import (
	"fmt"
	"path"
)

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns actionable suggestions based on the error category and affected path.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryPermission:
		return g.generatePermissionSuggestions(affectedPath)
	case CategoryPath:
		return g.generatePathSuggestions(affectedPath)
	case CategoryNotDirectory:
		return g.generateNotDirectorySuggestions(affectedPath)
	case CategoryResources:
		return g.generateResourceSuggestions(affectedPath)
	case CategoryConnection:
		return g.generateConnectionSuggestions(affectedPath)
	case CategoryIO:
		return g.generateIOSuggestions(affectedPath)
	case CategoryUnknown:
		return g.generateUnknownSuggestions(affectedPath)
	default:
		return g.generateUnknownSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) generateConnectionSuggestions(_ string) []string {
	return []string{
		"Check the host is reachable and the SSH port is correct (sftp://user@host:port/path)",
		"Make sure the host key is in ~/.ssh/known_hosts, e.g. with 'ssh user@host' once",
		"Load a key into ssh-agent or place an unencrypted key in ~/.ssh/id_ed25519",
		"Use --known-hosts to point at a different known_hosts file",
	}
}

func (g *suggestionGenerator) generateIOSuggestions(path string) []string {
	suggestions := []string{
		"A directory listing failed partway through; try the scan again",
		"Check system logs for disk or network filesystem errors",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("List the directory directly with 'ls -f %s'", path))
	}

	return suggestions
}

func (g *suggestionGenerator) generateNotDirectorySuggestions(p string) []string {
	suggestions := []string{
		"The scan root must be a directory (a symlink to a directory also works)",
	}

	if p != "" {
		suggestions = append(suggestions, "Scan the containing directory instead: "+path.Dir(p))
	}

	return suggestions
}

func (g *suggestionGenerator) generatePathSuggestions(path string) []string {
	suggestions := []string{
		"Verify the path exists and is spelled correctly",
	}

	if path != "" {
		suggestions = append(suggestions, "Check if the path exists: "+path)
		suggestions = append(suggestions, "Ensure all parent directories exist for "+path)
	} else {
		suggestions = append(suggestions, "Ensure all parent directories exist")
	}

	return suggestions
}

func (g *suggestionGenerator) generatePermissionSuggestions(path string) []string {
	suggestions := []string{
		"Ensure you have read and execute permission on every directory to scan",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -ld %s'", path))
	} else {
		suggestions = append(suggestions, "Check permissions with 'ls -ld' on the affected path")
	}

	suggestions = append(suggestions, "Try running with appropriate permissions or as a privileged user")

	return suggestions
}

func (g *suggestionGenerator) generateResourceSuggestions(_ string) []string {
	return []string{
		"Raise --max-entries or set it to 0 for no limit",
		"Check the open file limit with 'ulimit -n'",
		"Scan a smaller subtree",
	}
}

func (g *suggestionGenerator) generateUnknownSuggestions(path string) []string {
	suggestions := []string{
		"Check the error message for more details",
		"Run again with --log-level debug",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}
