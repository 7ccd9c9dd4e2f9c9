package image

import "errors"

// Sentinel errors for the image package.
var (
	// ErrBuildFailed is returned when the daemon reports a failed image build.
	ErrBuildFailed = errors.New("image build failed")
	// ErrPullFailed is returned when the daemon reports a failed image pull.
	ErrPullFailed = errors.New("image pull failed")
	// ErrSaveFailed is returned when the base image could not be archived.
	ErrSaveFailed = errors.New("image save failed")
	// ErrLoadFailed is returned when an archive could not be loaded into the daemon.
	ErrLoadFailed = errors.New("image load failed")
	// ErrArchiveNotFound is returned when the archive to load does not exist.
	ErrArchiveNotFound = errors.New("image archive does not exist")
)
