package configmanager

import "errors"

var (
	// ErrInvalidConfig is returned when the loaded configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNotInSourceTree is returned when no git checkout encloses the working directory.
	ErrNotInSourceTree = errors.New("not inside a git checkout")
)
