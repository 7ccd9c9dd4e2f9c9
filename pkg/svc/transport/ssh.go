package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// ErrNoSSHAuth is returned when neither a password nor a key is configured.
var ErrNoSSHAuth = errors.New("no SSH authentication method configured")

// SSHConfig contains SSH connection parameters.
type SSHConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	KeyPath  string
}

// SSH runs commands on a host node over SSH. The connection is opened lazily and reused.
type SSH struct {
	config SSHConfig
	dial   func(ctx context.Context, network, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error)
	client *ssh.Client
	logger logrus.FieldLogger
	stdout io.Writer
	stderr io.Writer
}

// NewSSH creates an SSH transport. No connection is made until the first Run.
func NewSSH(config SSHConfig, logger logrus.FieldLogger, stdout, stderr io.Writer) *SSH {
	if config.Port == 0 {
		config.Port = 22
	}

	return &SSH{
		config: config,
		dial:   dialContext,
		logger: logger.WithField("transport", "ssh").WithField("host", config.Host),
		stdout: stdout,
		stderr: stderr,
	}
}

// Name implements Transport.
func (s *SSH) Name() string {
	return "ssh-" + s.config.Host
}

// Close closes the SSH connection if one was opened.
func (s *SSH) Close() error {
	if s.client == nil {
		return nil
	}

	err := s.client.Close()
	s.client = nil

	if err != nil {
		return fmt.Errorf("close ssh connection to %s: %w", s.config.Host, err)
	}

	return nil
}

// Run implements Transport. Env and Dir are applied through the remote shell.
func (s *SSH) Run(ctx context.Context, cmd Command) (Result, error) {
	if len(cmd.Argv) == 0 {
		return Result{}, ErrEmptyCommand
	}

	client, err := s.connect(ctx)
	if err != nil {
		return Result{}, err
	}

	line := remoteLine(cmd)
	s.logger.WithField("cmd", line).Debug("executing command")

	session, err := client.NewSession()
	if err != nil {
		return Result{}, fmt.Errorf("failed to create SSH session on %s: %w", s.config.Host, err)
	}
	defer session.Close()

	var outBuf, errBuf bytes.Buffer

	session.Stdout = tee(&outBuf, s.stdout)
	session.Stderr = tee(&errBuf, s.stderr)
	session.Stdin = cmd.Stdin

	done := make(chan error, 1)

	go func() { done <- session.Run(line) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)

		return Result{}, fmt.Errorf("ssh %s: %w", s.config.Host, ctx.Err())
	case err = <-done:
	}

	result := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitStatus()

			return result, newExitError(s.Name(), cmd, result)
		}

		return result, fmt.Errorf("ssh %s: run %s: %w", s.config.Host, line, err)
	}

	return result, nil
}

func (s *SSH) connect(ctx context.Context) (*ssh.Client, error) {
	if s.client != nil {
		return s.client, nil
	}

	clientConfig, err := s.clientConfig()
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	s.logger.WithField("addr", addr).Debug("establishing SSH connection")

	client, err := s.dial(ctx, "tcp", addr, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	s.client = client

	return client, nil
}

func (s *SSH) clientConfig() (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod

	if s.config.KeyPath != "" {
		keyBytes, err := os.ReadFile(s.config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH key %s: %w", s.config.KeyPath, err)
		}

		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key: %w", err)
		}

		auth = append(auth, ssh.PublicKeys(signer))
	}

	if s.config.Password != "" {
		auth = append(auth, ssh.Password(s.config.Password))
	}

	if len(auth) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoSSHAuth, s.config.Host)
	}

	return &ssh.ClientConfig{
		User: s.config.User,
		Auth: auth,
		// Host containers regenerate their host keys on every start.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // throwaway test containers
	}, nil
}

func dialContext(ctx context.Context, network, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by connect
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		_ = conn.Close()

		return nil, err //nolint:wrapcheck // wrapped by connect
	}

	return ssh.NewClient(sshConn, chans, reqs), nil
}

// remoteLine renders the command for the remote shell with every argument quoted.
func remoteLine(cmd Command) string {
	parts := make([]string, 0, len(cmd.Argv)+len(cmd.Env)+3)

	if cmd.Dir != "" {
		parts = append(parts, "cd", Quote(cmd.Dir), "&&")
	}

	if len(cmd.Env) > 0 {
		parts = append(parts, "env")
		for _, kv := range cmd.Env {
			parts = append(parts, Quote(kv))
		}
	}

	for _, arg := range cmd.Argv {
		parts = append(parts, Quote(arg))
	}

	return strings.Join(parts, " ")
}

// Quote single-quotes s for a POSIX shell unless it only holds safe characters.
func Quote(s string) string {
	if s == "" {
		return "''"
	}

	if strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("@%+=:,./-_", r):
		return false
	default:
		return true
	}
}
