// Package errorhandler runs the command tree and turns cobra's error stream
// into a single error value the caller prints once.
package errorhandler

import (
	"bytes"
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// Executor runs a command tree with its stderr captured.
type Executor struct {
	normalizer Normalizer
}

// Normalizer cleans up whatever cobra wrote to stderr before it fails.
type Normalizer interface {
	Normalize(raw string) string
}

// NewExecutor constructs an Executor using DefaultNormalizer.
func NewExecutor() *Executor {
	return &Executor{normalizer: DefaultNormalizer{}}
}

// Execute runs cmd under ctx. It returns nil on success, otherwise a
// *CommandError combining the normalized stderr with the returned error.
func (e *Executor) Execute(ctx context.Context, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	var errBuf bytes.Buffer

	originalErrWriter := cmd.ErrOrStderr()

	cmd.SetErr(&errBuf)
	defer cmd.SetErr(originalErrWriter)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		// Warnings written to stderr by a successful run still belong to the user.
		_, _ = originalErrWriter.Write(errBuf.Bytes())

		return nil
	}

	return &CommandError{
		message: e.normalizer.Normalize(errBuf.String()),
		cause:   err,
	}
}

// CommandError is a failed run: cobra's stderr plus the returned error.
type CommandError struct {
	message string
	cause   error
}

// Error implements error. The cause is appended unless the message already holds it.
func (e *CommandError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return e.message
	case e.message != "":
		if strings.Contains(e.message, e.cause.Error()) {
			return e.message
		}

		return e.message + ": " + e.cause.Error()
	default:
		return e.cause.Error()
	}
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// DefaultNormalizer trims the stream, drops cobra's "Error: " prefix and
// empty lines, and keeps usage hints.
type DefaultNormalizer struct{}

// Normalize implements Normalizer.
func (DefaultNormalizer) Normalize(raw string) string {
	lines := make([]string, 0)

	for line := range strings.SplitSeq(strings.TrimSpace(raw), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return ""
	}

	lines[0] = strings.TrimPrefix(strings.TrimSpace(lines[0]), "Error: ")

	return strings.Join(lines, "\n")
}
