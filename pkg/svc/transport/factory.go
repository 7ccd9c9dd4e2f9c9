package transport

import (
	"context"
	"io"
	"time"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/devantler-tech/box/pkg/client/docker"
	"github.com/sirupsen/logrus"
)

// Factory creates transports that share one logger, one output stream and one timeout.
type Factory struct {
	client  docker.ExecAPI
	ssh     v1alpha1.SSHOptions
	timeout time.Duration
	logger  logrus.FieldLogger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
}

// NewFactory creates a Factory. Command output is streamed to stdout/stderr only in verbose mode.
func NewFactory(
	client docker.ExecAPI,
	cfg *v1alpha1.Config,
	logger logrus.FieldLogger,
	stdin io.Reader,
	stdout, stderr io.Writer,
) *Factory {
	return &Factory{
		client:  client,
		ssh:     cfg.SSH,
		timeout: cfg.CommandTimeout,
		logger:  logger,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		verbose: cfg.Verbose,
	}
}

// Local returns a transport running commands on this machine.
func (f *Factory) Local() Transport { //nolint:ireturn // decorated transport
	stdout, stderr := f.streams()

	return WithTimeout(NewLocal(f.logger, stdout, stderr), f.timeout)
}

// Container returns a transport running commands in containerID.
func (f *Factory) Container(containerID string) Transport { //nolint:ireturn // decorated transport
	stdout, stderr := f.streams()

	return WithTimeout(NewContainer(f.client, containerID, f.logger, stdout, stderr), f.timeout)
}

// SSH returns a transport running commands on ip. The caller closes it through io.Closer.
func (f *Factory) SSH(ip string) Transport { //nolint:ireturn // decorated transport
	stdout, stderr := f.streams()

	return WithTimeout(NewSSH(SSHConfig{
		Host:     ip,
		Port:     f.ssh.Port,
		User:     f.ssh.User,
		Password: f.ssh.Password,
	}, f.logger, stdout, stderr), f.timeout)
}

// Interactive attaches the factory's terminal to argv running in containerID.
// It is never bounded by the command timeout.
func (f *Factory) Interactive(ctx context.Context, containerID string, argv []string) error {
	return Interactive(ctx, f.client, containerID, argv, f.stdin, f.stdout)
}

func (f *Factory) streams() (io.Writer, io.Writer) {
	if !f.verbose {
		return nil, nil
	}

	return f.stdout, f.stderr
}
