package transport

import (
	"context"
	"fmt"
	"io"

	"github.com/devantler-tech/box/pkg/client/docker"
	"github.com/docker/docker/api/types/container"
	"golang.org/x/term"
)

type fdReader interface {
	io.Reader
	Fd() uintptr
}

// Interactive runs argv in containerID with a TTY attached to in and out, like
// `docker exec -it`. When in is a terminal it is switched to raw mode for the
// duration of the session and its size is forwarded to the exec.
func Interactive(
	ctx context.Context,
	client docker.ExecAPI,
	containerID string,
	argv []string,
	in io.Reader,
	out io.Writer,
) error {
	if len(argv) == 0 {
		return ErrEmptyCommand
	}

	execID, err := client.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          argv,
		Tty:          true,
		AttachStdin:  true,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create exec in %s: %w", containerID, err)
	}

	resp, err := client.ContainerExecAttach(ctx, execID.ID, container.ExecStartOptions{Tty: true})
	if err != nil {
		return fmt.Errorf("failed to attach to exec in %s: %w", containerID, err)
	}
	defer resp.Close()

	if tty, ok := in.(fdReader); ok && term.IsTerminal(int(tty.Fd())) { //nolint:gosec // fd fits int
		fd := int(tty.Fd()) //nolint:gosec // fd fits int

		state, rawErr := term.MakeRaw(fd)
		if rawErr != nil {
			return fmt.Errorf("failed to switch terminal to raw mode: %w", rawErr)
		}

		defer func() { _ = term.Restore(fd, state) }()

		width, height, sizeErr := term.GetSize(fd)
		if sizeErr == nil {
			_ = client.ContainerExecResize(ctx, execID.ID, container.ResizeOptions{
				Height: uint(height), //nolint:gosec // terminal sizes are positive
				Width:  uint(width),  //nolint:gosec // terminal sizes are positive
			})
		}
	}

	go func() {
		_, _ = io.Copy(resp.Conn, in)
		_ = resp.CloseWrite()
	}()

	_, err = io.Copy(out, resp.Reader)
	if err != nil {
		return fmt.Errorf("failed to read exec output in %s: %w", containerID, err)
	}

	inspect, err := client.ContainerExecInspect(ctx, execID.ID)
	if err != nil {
		return fmt.Errorf("failed to inspect exec in %s: %w", containerID, err)
	}

	if inspect.ExitCode != 0 {
		return newExitError(containerID, Cmd(argv...), Result{ExitCode: inspect.ExitCode})
	}

	return nil
}
