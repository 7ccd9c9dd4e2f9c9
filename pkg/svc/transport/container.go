package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/devantler-tech/box/pkg/client/docker"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/sirupsen/logrus"
)

// Container runs commands inside a running container through the Docker exec API.
type Container struct {
	client      docker.ExecAPI
	containerID string
	logger      logrus.FieldLogger
	stdout      io.Writer
	stderr      io.Writer
}

// NewContainer creates a transport targeting containerID. When stdout/stderr are non-nil,
// output is streamed to them while being captured.
func NewContainer(
	client docker.ExecAPI,
	containerID string,
	logger logrus.FieldLogger,
	stdout, stderr io.Writer,
) *Container {
	return &Container{
		client:      client,
		containerID: containerID,
		logger:      logger.WithField("transport", "container").WithField("container", containerID),
		stdout:      stdout,
		stderr:      stderr,
	}
}

// Name implements Transport.
func (c *Container) Name() string {
	return c.containerID
}

// Run implements Transport.
func (c *Container) Run(ctx context.Context, cmd Command) (Result, error) {
	if len(cmd.Argv) == 0 {
		return Result{}, ErrEmptyCommand
	}

	c.logger.WithField("cmd", cmd.String()).Debug("executing command")

	execID, err := c.client.ContainerExecCreate(ctx, c.containerID, container.ExecOptions{
		Cmd:          cmd.Argv,
		Env:          cmd.Env,
		WorkingDir:   cmd.Dir,
		AttachStdin:  cmd.Stdin != nil,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to create exec in %s: %w", c.containerID, err)
	}

	resp, err := c.client.ContainerExecAttach(ctx, execID.ID, container.ExecStartOptions{})
	if err != nil {
		return Result{}, fmt.Errorf("failed to attach to exec in %s: %w", c.containerID, err)
	}
	defer resp.Close()

	stopOnCancel := context.AfterFunc(ctx, resp.Close)
	defer stopOnCancel()

	stdinErr := make(chan error, 1)

	if cmd.Stdin != nil {
		go func() {
			_, copyErr := io.Copy(resp.Conn, cmd.Stdin)
			closeErr := resp.CloseWrite()

			if copyErr != nil {
				stdinErr <- copyErr
			} else {
				stdinErr <- closeErr
			}
		}()
	} else {
		stdinErr <- nil
	}

	var outBuf, errBuf bytes.Buffer

	_, err = stdcopy.StdCopy(tee(&outBuf, c.stdout), tee(&errBuf, c.stderr), resp.Reader)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read exec output in %s: %w", c.containerID, err)
	}

	err = <-stdinErr
	if err != nil {
		return Result{}, fmt.Errorf("failed to write exec stdin in %s: %w", c.containerID, err)
	}

	inspect, err := c.client.ContainerExecInspect(ctx, execID.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to inspect exec in %s: %w", c.containerID, err)
	}

	result := Result{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		ExitCode: inspect.ExitCode,
	}

	if inspect.ExitCode != 0 {
		c.logger.WithField("cmd", cmd.String()).
			WithField("exit_code", inspect.ExitCode).
			Debug("command failed")

		return result, newExitError(c.Name(), cmd, result)
	}

	return result, nil
}
