package transport

import (
	"context"
	"io"
	"strings"
	"sync"
)

// Call is one command observed by a Fake.
type Call struct {
	Target  string
	Command Command
	// Stdin is the full stdin content, read when the call was made.
	Stdin string
}

// Line renders the command line of the call.
func (c Call) Line() string {
	return c.Command.String()
}

type rule struct {
	contains string
	result   Result
	err      error
}

// Fake is a scripted Transport for tests. Every command succeeds with empty output unless a
// rule registered with On or Fail matches its command line. Later rules take precedence.
type Fake struct {
	name string

	mu      sync.Mutex
	rules   []rule
	calls   []Call
	journal *Journal
}

// Journal records calls across several fakes so a test can assert their global order.
type Journal struct {
	mu    sync.Mutex
	calls []Call
}

// Calls returns every recorded call in order.
func (j *Journal) Calls() []Call {
	j.mu.Lock()
	defer j.mu.Unlock()

	return append([]Call(nil), j.calls...)
}

// Lines returns "target: command line" for every recorded call.
func (j *Journal) Lines() []string {
	calls := j.Calls()

	lines := make([]string, 0, len(calls))
	for _, call := range calls {
		lines = append(lines, call.Target+": "+call.Line())
	}

	return lines
}

// Index returns the position of the first call whose line contains substr, or -1.
func (j *Journal) Index(substr string) int {
	for i, call := range j.Calls() {
		if strings.Contains(call.Line(), substr) {
			return i
		}
	}

	return -1
}

func (j *Journal) record(call Call) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.calls = append(j.calls, call)
}

// NewFake creates a Fake named name.
func NewFake(name string) *Fake {
	return &Fake{name: name}
}

// RecordTo makes f also record its calls in journal.
func (f *Fake) RecordTo(journal *Journal) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.journal = journal

	return f
}

// On makes every command whose line contains substr return result and err.
func (f *Fake) On(substr string, result Result, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rules = append(f.rules, rule{contains: substr, result: result, err: err})

	return f
}

// Stdout makes every command whose line contains substr succeed with stdout.
func (f *Fake) Stdout(substr, stdout string) *Fake {
	return f.On(substr, Result{Stdout: stdout}, nil)
}

// Fail makes every command whose line contains substr exit with code and stderr.
func (f *Fake) Fail(substr string, code int, stderr string) *Fake {
	result := Result{Stderr: stderr, ExitCode: code}

	return f.On(substr, result, newExitError(f.name, Command{Argv: []string{substr}}, result))
}

// Name implements Transport.
func (f *Fake) Name() string {
	return f.name
}

// Run implements Transport.
func (f *Fake) Run(ctx context.Context, cmd Command) (Result, error) {
	if len(cmd.Argv) == 0 {
		return Result{}, ErrEmptyCommand
	}

	err := ctx.Err()
	if err != nil {
		return Result{}, err //nolint:wrapcheck // context errors are returned as-is
	}

	var stdin string

	if cmd.Stdin != nil {
		data, readErr := io.ReadAll(cmd.Stdin)
		if readErr != nil {
			return Result{}, readErr //nolint:wrapcheck // test double
		}

		stdin = string(data)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Target: f.name, Command: cmd, Stdin: stdin}
	f.calls = append(f.calls, call)

	if f.journal != nil {
		f.journal.record(call)
	}

	line := cmd.String()

	for i := len(f.rules) - 1; i >= 0; i-- {
		if strings.Contains(line, f.rules[i].contains) {
			return f.rules[i].result, f.rules[i].err
		}
	}

	return Result{}, nil
}

// Calls returns the calls made through f.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Call(nil), f.calls...)
}

// Lines returns the command lines of the calls made through f.
func (f *Fake) Lines() []string {
	calls := f.Calls()

	lines := make([]string, 0, len(calls))
	for _, call := range calls {
		lines = append(lines, call.Line())
	}

	return lines
}

// Count returns how many calls made through f contain substr.
func (f *Fake) Count(substr string) int {
	count := 0

	for _, line := range f.Lines() {
		if strings.Contains(line, substr) {
			count++
		}
	}

	return count
}
