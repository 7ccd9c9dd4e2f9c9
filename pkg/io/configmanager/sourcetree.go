package configmanager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// BoxDirInCheckout is where the box sources live inside a ceph checkout.
const BoxDirInCheckout = "src/cephadm/box"

// DetectBoxDir returns the box directory of the git checkout enclosing start.
// When the checkout has no box directory, start itself is returned.
func DetectBoxDir(start string) (string, error) {
	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", fmt.Errorf("%w: %s", ErrNotInSourceTree, start)
	}

	if err != nil {
		return "", fmt.Errorf("failed to open git checkout at %s: %w", start, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to read worktree of %s: %w", start, err)
	}

	candidate := filepath.Join(worktree.Filesystem.Root(), BoxDirInCheckout)

	info, err := os.Stat(candidate)
	if err == nil && info.IsDir() {
		return candidate, nil
	}

	return start, nil
}
