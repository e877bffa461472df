package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/projecteru2/core/log"
	gossh "golang.org/x/crypto/ssh"

	"github.com/rohitnair11/Virtualization/config"
	"github.com/rohitnair11/Virtualization/remote"
	"github.com/rohitnair11/Virtualization/utils"
)

const dialTimeout = 10 * time.Second

// compile-time interface check.
var _ remote.Shell = (*Client)(nil)

// Client implements remote.Shell over golang.org/x/crypto/ssh.
// The connection is dialed lazily and reused for every command.
type Client struct {
	addr    string
	user    string
	keyPath string
	out     io.Writer

	mu   sync.Mutex
	conn *gossh.Client
}

// New creates a Client for the guest described by conf. Remote command
// output is copied to out as it arrives; pass io.Discard to silence it.
func New(conf *config.Config, out io.Writer) *Client {
	if out == nil {
		out = io.Discard
	}
	return &Client{
		addr:    conf.SSHAddr(),
		user:    conf.SSHUser,
		keyPath: conf.SSHKey,
		out:     out,
	}
}

// Run executes command in a fresh session and returns its combined output.
func (c *Client) Run(ctx context.Context, command string) (string, error) {
	log.WithFunc("ssh.Run").Infof(ctx, "%s@%s: %s", c.user, c.addr, command)
	return c.exec(ctx, command, c.out)
}

// Ping dials (or reuses) the connection and runs a no-op command. It gives up
// when ctx is done even if the guest accepted the session but never answers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.exec(ctx, "true", io.Discard)
	return err
}

func (c *Client) exec(ctx context.Context, command string, echo io.Writer) (string, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return "", c.execErr(command, -1, "", err)
	}
	sess, err := conn.NewSession()
	if err != nil {
		// A dead connection is dropped so the next call redials.
		c.reset()
		return "", c.execErr(command, -1, "", fmt.Errorf("open session: %w", err))
	}
	defer sess.Close() //nolint:errcheck

	// stdout and stderr are copied from separate goroutines.
	var combined, stderr lockedBuffer
	sess.Stdout = io.MultiWriter(&combined, echo)
	sess.Stderr = io.MultiWriter(&combined, &stderr, echo)

	done := make(chan error, 1)
	go func() { done <- sess.Run(command) }()

	select {
	case <-ctx.Done():
		_ = sess.Signal(gossh.SIGKILL)
		_ = sess.Close()
		return combined.String(), c.execErr(command, -1, stderr.String(), ctx.Err())
	case err := <-done:
		if err == nil {
			return combined.String(), nil
		}
		code := -1
		var exitErr *gossh.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitStatus()
		}
		return combined.String(), c.execErr(command, code, stderr.String(), err)
	}
}

// Close tears down the cached connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) connect(ctx context.Context) (*gossh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn, nil
	}

	signer, err := loadSigner(c.keyPath)
	if err != nil {
		return nil, err
	}
	cfg := &gossh.ClientConfig{
		User: c.user,
		Auth: []gossh.AuthMethod{gossh.PublicKeys(signer)},
		// The guest is a freshly imported local VM whose host key changes on every rebuild.
		HostKeyCallback: gossh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         dialTimeout,
	}

	d := net.Dialer{Timeout: dialTimeout}
	raw, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.addr, err)
	}
	// A guest that is still booting may accept TCP and then stall the handshake.
	_ = raw.SetDeadline(time.Now().Add(dialTimeout))
	sshConn, chans, reqs, err := gossh.NewClientConn(raw, c.addr, cfg)
	if err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("handshake %s: %w", c.addr, err)
	}
	_ = raw.SetDeadline(time.Time{})
	c.conn = gossh.NewClient(sshConn, chans, reqs)
	return c.conn, nil
}

func (c *Client) reset() {
	_ = c.Close()
}

func (c *Client) execErr(command string, code int, stderr string, err error) *utils.ExecutionError {
	return &utils.ExecutionError{
		Command:  "ssh " + c.user + "@" + c.addr,
		Args:     []string{command},
		ExitCode: code,
		Stderr:   stderr,
		Err:      err,
	}
}

func loadSigner(path string) (gossh.Signer, error) {
	pem, err := os.ReadFile(path) //nolint:gosec // key path from config
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}
	signer, err := gossh.ParsePrivateKey(pem)
	if err != nil {
		return nil, fmt.Errorf("parse ssh key %s: %w", path, err)
	}
	return signer, nil
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
