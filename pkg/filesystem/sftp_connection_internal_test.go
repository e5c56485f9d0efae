//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package filesystem

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

func newHostKey(g *WithT) ssh.PublicKey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	g.Expect(err).ShouldNot(HaveOccurred())

	key, err := ssh.NewPublicKey(pub)
	g.Expect(err).ShouldNot(HaveOccurred())

	return key
}

func TestSFTPConnection_CloseWithoutClients(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	conn := &SFTPConnection{}
	g.Expect(conn.Client()).To(BeNil())
	g.Expect(conn.Close()).To(Succeed())
}

func TestHostKeyCallback_Insecure(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	callback, err := hostKeyCallback(SSHOptions{InsecureHostKey: true})
	g.Expect(err).ShouldNot(HaveOccurred())

	addr := &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 22}
	g.Expect(callback("anything:22", addr, newHostKey(g))).To(Succeed())
}

func TestHostKeyCallback_MissingKnownHosts(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := hostKeyCallback(SSHOptions{KnownHostsPath: filepath.Join(t.TempDir(), "known_hosts")})
	g.Expect(err).To(MatchError(ErrNoKnownHosts))
}

func TestHostKeyCallback_KnownHosts(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	trusted := newHostKey(g)
	path := filepath.Join(t.TempDir(), "known_hosts")
	line := knownhosts.Line([]string{"files.example.com"}, trusted) + "\n"
	g.Expect(os.WriteFile(path, []byte(line), 0o600)).To(Succeed())

	callback, err := hostKeyCallback(SSHOptions{KnownHostsPath: path})
	g.Expect(err).ShouldNot(HaveOccurred())

	addr := &net.TCPAddr{IP: net.ParseIP("192.0.2.10"), Port: 22}
	g.Expect(callback("files.example.com:22", addr, trusted)).To(Succeed())

	err = callback("files.example.com:22", addr, newHostKey(g))

	var keyErr *knownhosts.KeyError
	g.Expect(errors.As(err, &keyErr)).To(BeTrue())
}

// Not parallel: changes HOME and SSH_AUTH_SOCK.
func TestSSHAuthMethods_DefaultKeys(t *testing.T) {
	g := NewWithT(t)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SSH_AUTH_SOCK", "")

	methods, agentConn := sshAuthMethods()
	g.Expect(methods).To(BeEmpty())
	g.Expect(agentConn).To(BeNil())

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	g.Expect(err).ShouldNot(HaveOccurred())

	block, err := ssh.MarshalPrivateKey(priv, "")
	g.Expect(err).ShouldNot(HaveOccurred())

	g.Expect(os.MkdirAll(filepath.Join(home, ".ssh"), 0o700)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(home, ".ssh", "id_ed25519"), pem.EncodeToMemory(block), 0o600)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(home, ".ssh", "id_rsa"), []byte("not a key"), 0o600)).To(Succeed())

	methods, _ = sshAuthMethods()
	g.Expect(methods).To(HaveLen(1))
}

// Not parallel: changes HOME and SSH_AUTH_SOCK.
func TestSSHAuthMethods_AgentConnectionIsClosed(t *testing.T) {
	g := NewWithT(t)

	// Unix socket paths are length limited, so stay out of t.TempDir().
	dir, err := os.MkdirTemp("", "agent")
	g.Expect(err).ShouldNot(HaveOccurred())

	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	socket := filepath.Join(dir, "sock")
	listener, err := net.Listen("unix", socket)
	g.Expect(err).ShouldNot(HaveOccurred())

	t.Cleanup(func() { _ = listener.Close() })

	served := make(chan error, 1)

	go func() {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			served <- acceptErr
			return
		}

		// Returns once the client side is closed.
		served <- agent.ServeAgent(agent.NewKeyring(), conn)
	}()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("SSH_AUTH_SOCK", socket)

	methods, agentConn := sshAuthMethods()
	g.Expect(methods).To(HaveLen(1))
	g.Expect(agentConn).NotTo(BeNil())

	conn := &SFTPConnection{agentConn: agentConn}
	g.Expect(conn.Close()).To(Succeed())
	g.Expect(conn.Close()).To(Succeed())

	g.Eventually(served, 5*time.Second).Should(Receive())

	_, err = agentConn.Write([]byte{0})
	g.Expect(err).To(MatchError(net.ErrClosed))
}
