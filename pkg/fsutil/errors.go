package fsutil

import "errors"

var (
	// ErrEmptyOutputPath is returned when a write target is empty.
	ErrEmptyOutputPath = errors.New("output path cannot be empty")
	// ErrLockTimeout is returned when a lock could not be acquired before the context ended.
	ErrLockTimeout = errors.New("timed out waiting for lock")
)

const (
	dirPermUserGroupRX = 0o750
	filePermUserRW     = 0o600
)
