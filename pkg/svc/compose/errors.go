package compose

import "errors"

var (
	// ErrContainerNotFound is returned when no running container matches a service and index.
	ErrContainerNotFound = errors.New("container not found")
	// ErrNoSeed is returned when the group has no seed container.
	ErrNoSeed = errors.New("seed container is not running")
)
