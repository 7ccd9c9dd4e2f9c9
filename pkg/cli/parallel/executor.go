package parallel

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	minConcurrency = 2
	// maxConcurrency keeps the number of simultaneous docker execs and SSH sessions low.
	maxConcurrency = 8
)

// DefaultMaxConcurrency returns the CPU count clamped to [2, 8].
func DefaultMaxConcurrency() int64 {
	return min(max(int64(runtime.NumCPU()), minConcurrency), maxConcurrency)
}

// Task is one named unit of work. The name prefixes its error.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Executor runs tasks with a bound on how many run at once.
type Executor struct {
	limit int64
}

// NewExecutor creates an executor running at most limit tasks at once.
// A limit <= 0 means DefaultMaxConcurrency.
func NewExecutor(limit int64) *Executor {
	if limit <= 0 {
		limit = DefaultMaxConcurrency()
	}

	return &Executor{limit: limit}
}

// Execute runs tasks and waits for them. The first failure cancels the
// context of the others and is returned as "<name>: <err>".
func (e *Executor) Execute(ctx context.Context, tasks ...Task) error {
	sem := semaphore.NewWeighted(e.limit)
	group, groupCtx := errgroup.WithContext(ctx)

	for _, task := range tasks {
		group.Go(func() error {
			err := sem.Acquire(groupCtx, 1)
			if err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}

			defer sem.Release(1)

			err = task.Run(groupCtx)
			if err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}

			return nil
		})
	}

	return group.Wait()
}

// SyncWriter serializes writes from concurrent tasks so lines do not interleave.
type SyncWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewSyncWriter wraps writer.
func NewSyncWriter(writer io.Writer) *SyncWriter {
	return &SyncWriter{writer: writer}
}

// Write implements io.Writer.
func (w *SyncWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.writer.Write(data)
	if err != nil {
		return n, fmt.Errorf("sync write: %w", err)
	}

	return n, nil
}
