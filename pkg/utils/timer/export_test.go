package timer

import "time"

// NewWithClock exposes the injectable clock to tests.
func NewWithClock(now func() time.Time) Timer { //nolint:ireturn // test helper
	return newWithClock(now)
}
