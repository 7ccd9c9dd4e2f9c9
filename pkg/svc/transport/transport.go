package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmptyCommand is returned when a command has no argv.
var ErrEmptyCommand = errors.New("command has no arguments")

// Command is a single process invocation.
type Command struct {
	// Argv is the program followed by its arguments.
	Argv []string
	// Stdin is fed to the process when set.
	Stdin io.Reader
	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
	// Dir is the working directory. Only honoured by transports that have one.
	Dir string
}

// Cmd builds a Command from a program and its arguments.
func Cmd(argv ...string) Command {
	return Command{Argv: argv}
}

// Shell builds a Command running line through `sh -c`.
func Shell(line string) Command {
	return Command{Argv: []string{"sh", "-c", line}}
}

// WithStdin returns a copy of the command reading stdin from r.
func (c Command) WithStdin(r io.Reader) Command {
	c.Stdin = r

	return c
}

// WithEnv returns a copy of the command with extra environment entries.
func (c Command) WithEnv(env ...string) Command {
	c.Env = append(append([]string(nil), c.Env...), env...)

	return c
}

// WithDir returns a copy of the command running in dir.
func (c Command) WithDir(dir string) Command {
	c.Dir = dir

	return c
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// Result is the captured outcome of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns stdout and stderr concatenated, trimmed.
func (r Result) Output() string {
	return strings.TrimSpace(r.Stdout + r.Stderr)
}

// Transport runs commands on one target: the local host, a container or an SSH node.
// Run blocks until the process exits. A non-zero exit is returned as *ExitError
// together with the captured Result.
type Transport interface {
	Run(ctx context.Context, cmd Command) (Result, error)
	// Name identifies the target in logs.
	Name() string
}

// ExitError reports a command that ran and exited non-zero.
type ExitError struct {
	Target  string
	Command string
	Result  Result
}

// Error implements error. The captured output is included verbatim.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: `%s` exited with code %d", e.Target, e.Command, e.Result.ExitCode)

	if out := e.Result.Output(); out != "" {
		msg += ":\n" + out
	}

	return msg
}

// ExitCode returns the exit code of a failed command, or -1 if err is not an *ExitError.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Result.ExitCode
	}

	return -1
}

func newExitError(target string, cmd Command, result Result) *ExitError {
	return &ExitError{
		Target:  target,
		Command: cmd.String(),
		Result:  result,
	}
}

// Privileged builds a Command prefixed with `sudo -n` when sudo is true.
func Privileged(sudo bool, argv ...string) Command {
	if !sudo {
		return Cmd(argv...)
	}

	return Cmd(append([]string{"sudo", "-n"}, argv...)...)
}

// NeedsSudo reports whether privileged commands must go through sudo.
func NeedsSudo() bool {
	return os.Geteuid() != 0
}
