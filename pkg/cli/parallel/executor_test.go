package parallel_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/devantler-tech/box/pkg/cli/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTask = errors.New("sshd restart failed")

func TestExecuteRunsEveryTask(t *testing.T) {
	t.Parallel()

	var count atomic.Int32

	tasks := make([]parallel.Task, 0, 5)
	for index := range 5 {
		tasks = append(tasks, parallel.Task{
			Name: fmt.Sprintf("host %d", index+1),
			Run: func(context.Context) error {
				count.Add(1)

				return nil
			},
		})
	}

	require.NoError(t, parallel.NewExecutor(2).Execute(t.Context(), tasks...))
	assert.Equal(t, int32(5), count.Load())
}

func TestExecuteNamesTheFailingTask(t *testing.T) {
	t.Parallel()

	err := parallel.NewExecutor(0).Execute(t.Context(),
		parallel.Task{Name: "host 1", Run: func(context.Context) error { return nil }},
		parallel.Task{Name: "host 2", Run: func(context.Context) error { return errTask }},
	)

	require.ErrorIs(t, err, errTask)
	assert.Equal(t, "host 2: sshd restart failed", err.Error())
}

func TestExecuteCancelsOthersOnFailure(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})

	err := parallel.NewExecutor(2).Execute(t.Context(),
		parallel.Task{Name: "slow", Run: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()

			return ctx.Err()
		}},
		parallel.Task{Name: "failing", Run: func(context.Context) error {
			<-started

			return errTask
		}},
	)

	require.ErrorIs(t, err, errTask)
}

func TestExecuteBoundsConcurrency(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		running int
		peak    int
	)

	task := parallel.Task{Name: "host", Run: func(context.Context) error {
		mu.Lock()
		running++
		peak = max(peak, running)
		mu.Unlock()

		mu.Lock()
		running--
		mu.Unlock()

		return nil
	}}

	require.NoError(t, parallel.NewExecutor(1).Execute(t.Context(), task, task, task))
	assert.Equal(t, 1, peak)
}

func TestExecuteNoTasks(t *testing.T) {
	t.Parallel()

	assert.NoError(t, parallel.NewExecutor(0).Execute(t.Context()))
}

func TestExecuteCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	ran := false
	err := parallel.NewExecutor(1).Execute(ctx, parallel.Task{Name: "host 1", Run: func(context.Context) error {
		ran = true

		return nil
	}})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestDefaultMaxConcurrency(t *testing.T) {
	t.Parallel()

	got := parallel.DefaultMaxConcurrency()

	assert.GreaterOrEqual(t, got, int64(2))
	assert.LessOrEqual(t, got, int64(8))
}

func TestSyncWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	writer := parallel.NewSyncWriter(&buf)

	n, err := writer.Write([]byte("ok\n"))

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "ok\n", buf.String())
}
