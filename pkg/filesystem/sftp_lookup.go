package filesystem

import (
	krfs "github.com/kr/fs"
	"github.com/pkg/sftp"
)

var _ krfs.FileSystem = (*sftp.Client)(nil)

// SFTPLookup is an FSLookup over an SFTP session.
type SFTPLookup struct {
	*FSLookup

	conn *SFTPConnection
}

// NewSFTPLookup creates a lookup that lists directories over conn.
func NewSFTPLookup(conn *SFTPConnection) *SFTPLookup {
	return &SFTPLookup{
		FSLookup: NewFSLookup(conn.Client()),
		conn:     conn,
	}
}

// Close closes the underlying connection.
func (l *SFTPLookup) Close() error {
	return l.conn.Close()
}
