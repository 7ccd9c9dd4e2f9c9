package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// Local runs commands on the machine box runs on.
type Local struct {
	logger logrus.FieldLogger
	stdout io.Writer
	stderr io.Writer
}

// NewLocal creates a local transport. When stdout/stderr are non-nil, output is streamed to
// them while being captured.
func NewLocal(logger logrus.FieldLogger, stdout, stderr io.Writer) *Local {
	return &Local{
		logger: logger.WithField("transport", "local"),
		stdout: stdout,
		stderr: stderr,
	}
}

// Name implements Transport.
func (l *Local) Name() string {
	return "local"
}

// Run implements Transport.
func (l *Local) Run(ctx context.Context, cmd Command) (Result, error) {
	if len(cmd.Argv) == 0 {
		return Result{}, ErrEmptyCommand
	}

	l.logger.WithField("cmd", cmd.String()).Debug("executing command")

	var outBuf, errBuf bytes.Buffer

	process := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	process.Stdout = tee(&outBuf, l.stdout)
	process.Stderr = tee(&errBuf, l.stderr)
	process.Stdin = cmd.Stdin
	process.Dir = cmd.Dir

	if len(cmd.Env) > 0 {
		process.Env = append(os.Environ(), cmd.Env...)
	}

	err := process.Run()

	result := Result{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()

			l.logger.WithField("cmd", cmd.String()).
				WithField("exit_code", result.ExitCode).
				Debug("command failed")

			return result, newExitError(l.Name(), cmd, result)
		}

		return result, fmt.Errorf("run %s: %w", cmd.String(), err)
	}

	return result, nil
}

func tee(capture *bytes.Buffer, stream io.Writer) io.Writer {
	if stream == nil {
		return capture
	}

	return io.MultiWriter(capture, stream)
}
