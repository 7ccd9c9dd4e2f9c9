package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFileName is the advisory lock shared by every box process working on one box directory.
const LockFileName = ".box.lock"

const lockRetryDelay = 250 * time.Millisecond

// Lock takes an exclusive advisory lock on path, waiting until ctx ends.
// The returned func releases it.
func Lock(ctx context.Context, path string) (func(), error) {
	err := ensureParent(path)
	if err != nil {
		return nil, err
	}

	fileLock := flock.New(path)

	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLockTimeout, path, err)
	}

	if !locked {
		return nil, fmt.Errorf("%w %s", ErrLockTimeout, path)
	}

	return func() { _ = fileLock.Unlock() }, nil
}

// LockBoxDir locks the box directory's shared lock file.
func LockBoxDir(ctx context.Context, boxDir string) (func(), error) {
	return Lock(ctx, filepath.Join(boxDir, LockFileName))
}

func ensureParent(path string) error {
	err := os.MkdirAll(filepath.Dir(path), dirPermUserGroupRX)
	if err != nil {
		return fmt.Errorf("failed to create lock directory for %s: %w", path, err)
	}

	return nil
}
