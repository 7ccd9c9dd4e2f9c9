// Package timer measures how long a command and its current stage have been running.
package timer

import (
	"sync"
	"time"
)

// Timer tracks a total duration and the duration of the current stage.
type Timer interface {
	// Start resets the timer. Both durations count from now.
	Start()
	// NewStage starts a new stage. The total keeps running.
	NewStage()
	// GetTiming returns the total and the current stage durations.
	GetTiming() (time.Duration, time.Duration)
	// Stop freezes both durations.
	Stop()
}

type timer struct {
	mu         sync.Mutex
	now        func() time.Time
	start      time.Time
	stageStart time.Time
	stopped    time.Time
}

// New returns a stopped Timer. Call Start before reading it.
func New() Timer { //nolint:ireturn // callers only need the interface
	return newWithClock(time.Now)
}

func newWithClock(now func() time.Time) *timer {
	return &timer{now: now}
}

func (t *timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.start = t.now()
	t.stageStart = t.start
	t.stopped = time.Time{}
}

func (t *timer) NewStage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stageStart = t.now()
}

func (t *timer) GetTiming() (time.Duration, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start.IsZero() {
		return 0, 0
	}

	end := t.stopped
	if end.IsZero() {
		end = t.now()
	}

	return end.Sub(t.start), end.Sub(t.stageStart)
}

func (t *timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped.IsZero() {
		t.stopped = t.now()
	}
}
