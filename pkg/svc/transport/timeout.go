package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrTimeout is returned when a command outlives the configured timeout.
var ErrTimeout = errors.New("command timed out")

type timeoutTransport struct {
	inner   Transport
	timeout time.Duration
}

// WithTimeout bounds every command run through inner. A zero timeout returns inner unchanged.
func WithTimeout(inner Transport, timeout time.Duration) Transport { //nolint:ireturn // decorator
	if timeout <= 0 {
		return inner
	}

	return &timeoutTransport{inner: inner, timeout: timeout}
}

func (t *timeoutTransport) Name() string {
	return t.inner.Name()
}

func (t *timeoutTransport) Run(ctx context.Context, cmd Command) (Result, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	result, err := t.inner.Run(timeoutCtx, cmd)
	if err != nil && errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return result, fmt.Errorf("%w after %s: %s: %w", ErrTimeout, t.timeout, cmd.String(), err)
	}

	return result, err
}

// Close closes inner when it holds a connection.
func (t *timeoutTransport) Close() error {
	closer, ok := t.inner.(io.Closer)
	if !ok {
		return nil
	}

	return closer.Close() //nolint:wrapcheck // pass-through
}
