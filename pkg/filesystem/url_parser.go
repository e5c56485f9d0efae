package filesystem

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Exported constants.
const (
	// DefaultSSHPort is used when an sftp:// root has no port.
	DefaultSSHPort = 22
)

// Exported variables.
var (
	ErrEmptyRoot   = errors.New("root path is empty")
	ErrInvalidRoot = errors.New("invalid sftp root")
)

// Target is a parsed scan root: either a local path or a remote SFTP location.
type Target struct {
	Remote bool
	// Path is the local path, or the path on the remote server.
	Path string

	// SFTP only.
	Host string
	Port int
	User string
}

// ParseRoot parses a scan root.
// SFTP roots have the format sftp://user@host[:port]/path; anything else is local.
// Examples:
//   - /srv/data (local)
//   - sftp://joe@files.example.com/backups (relative to the remote home)
//   - sftp://joe@files.example.com:2222//var/log (absolute remote path)
func ParseRoot(root string) (*Target, error) {
	if root == "" {
		return nil, ErrEmptyRoot
	}

	if !strings.HasPrefix(root, "sftp://") {
		return &Target{Path: root}, nil
	}

	u, err := url.Parse(root) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("%w: missing username (sftp://user@host/path)", ErrInvalidRoot)
	}

	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidRoot)
	}

	port := DefaultSSHPort
	if raw := u.Port(); raw != "" {
		port, err = strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("%w: bad port %q", ErrInvalidRoot, raw)
		}
	}

	return &Target{
		Remote: true,
		Path:   remotePath(u.Path),
		Host:   u.Hostname(),
		Port:   port,
		User:   u.User.Username(),
	}, nil
}

// remotePath applies the scp-like convention: a single leading slash is
// relative to the remote home, a double slash is absolute.
func remotePath(p string) string {
	switch {
	case p == "" || p == "/":
		return "."
	case strings.HasPrefix(p, "//"):
		return p[1:]
	default:
		return strings.TrimPrefix(p, "/")
	}
}
