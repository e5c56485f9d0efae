package filesystem

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Exported variables.
var (
	ErrNoAuthMethods = errors.New("no SSH authentication methods available (tried SSH agent and default keys)")
	ErrNoKnownHosts  = errors.New("no known_hosts file for host key verification")
)

// SSHOptions controls how an SFTP connection authenticates the server.
type SSHOptions struct {
	// InsecureHostKey skips host key verification entirely.
	InsecureHostKey bool
	// KnownHostsPath overrides ~/.ssh/known_hosts.
	KnownHostsPath string
}

// SFTPConnection holds an active SSH connection and its SFTP session.
type SFTPConnection struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	agentConn  net.Conn // nil when no agent was reachable
}

// Connect dials target over SSH and opens an SFTP session.
// Authentication uses the SSH agent and the default key files.
func Connect(target *Target, opts SSHOptions) (*SFTPConnection, error) {
	auth, agentConn := sshAuthMethods()
	if len(auth) == 0 {
		return nil, ErrNoAuthMethods
	}

	closeAgent := func() {
		if agentConn != nil {
			_ = agentConn.Close()
		}
	}

	hostKeyCallback, err := hostKeyCallback(opts)
	if err != nil {
		closeAgent()
		return nil, err
	}

	addr := net.JoinHostPort(target.Host, strconv.Itoa(target.Port))

	sshClient, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            target.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
	})
	if err != nil {
		closeAgent()
		return nil, fmt.Errorf("SSH connection to %s failed: %w", addr, err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		closeAgent()

		return nil, fmt.Errorf("SFTP session creation failed: %w", err)
	}

	return &SFTPConnection{
		sshClient:  sshClient,
		sftpClient: sftpClient,
		agentConn:  agentConn,
	}, nil
}

// Client returns the SFTP client.
func (c *SFTPConnection) Client() *sftp.Client {
	return c.sftpClient
}

// Close closes the SFTP session, the SSH connection and the agent socket.
func (c *SFTPConnection) Close() error {
	var errs []error

	if c.sftpClient != nil {
		errs = append(errs, c.sftpClient.Close())
	}

	if c.sshClient != nil {
		errs = append(errs, c.sshClient.Close())
	}

	if c.agentConn != nil {
		errs = append(errs, c.agentConn.Close())
		c.agentConn = nil
	}

	return errors.Join(errs...)
}

func hostKeyCallback(opts SSHOptions) (ssh.HostKeyCallback, error) {
	if opts.InsecureHostKey {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // Explicitly requested with --insecure-host-key
	}

	path := opts.KnownHostsPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory: %w", err)
		}

		path = filepath.Join(home, ".ssh", "known_hosts")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoKnownHosts, path)
	}

	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return callback, nil
}

// sshAuthMethods returns the agent first, then any unencrypted default keys.
// The agent connection, if any, is returned so the caller can close it.
func sshAuthMethods() ([]ssh.AuthMethod, net.Conn) {
	var (
		methods   []ssh.AuthMethod
		agentConn net.Conn
	)

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		if conn, err := net.Dial("unix", socket); err == nil {
			agentConn = conn
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return methods, agentConn
	}

	var signers []ssh.Signer

	for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
		keyData, err := os.ReadFile(filepath.Join(home, ".ssh", name))
		if err != nil {
			continue
		}

		// Passphrase-protected keys are skipped.
		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			continue
		}

		signers = append(signers, signer)
	}

	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}

	return methods, agentConn
}
