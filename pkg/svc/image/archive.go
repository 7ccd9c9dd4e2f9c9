package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/devantler-tech/box/pkg/fsutil"
	"github.com/spf13/afero"
)

// Save writes ref to a tar archive at path. The previous archive is removed first
// and the write happens under the box directory lock.
func (p *Provisioner) Save(ctx context.Context, ref, path string) error {
	unlock, err := fsutil.LockBoxDir(ctx, p.boxDir)
	if err != nil {
		return err
	}

	defer unlock()

	err = p.fs.MkdirAll(filepath.Dir(path), 0o750) //nolint:mnd // rwxr-x---
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", ErrSaveFailed, filepath.Dir(path), err)
	}

	_, err = fsutil.RemoveIfExists(p.fs, path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	p.logger.WithField("image", ref).WithField("archive", path).Debug("saving image")

	reader, err := p.client.ImageSave(ctx, []string{ref})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSaveFailed, ref, err)
	}

	defer func() { _ = reader.Close() }()

	err = fsutil.WriteFromReader(p.fs, path, reader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	return nil
}

// Load loads the tar archive at path into the daemon.
func (p *Provisioner) Load(ctx context.Context, path string) error {
	file, err := p.fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrArchiveNotFound, path)
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	defer func() { _ = file.Close() }()

	p.logger.WithField("archive", path).Debug("loading image archive")

	resp, err := p.client.ImageLoad(ctx, file)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoadFailed, path, err)
	}

	defer func() { _ = resp.Body.Close() }()

	if !resp.JSON {
		_, err = io.Copy(io.Discard, resp.Body)
		if err != nil {
			return fmt.Errorf("%w: reading daemon output: %w", ErrLoadFailed, err)
		}

		return nil
	}

	return drainMessages(resp.Body, p.progress, ErrLoadFailed)
}

// RemoveArchive deletes the base image archive. A missing archive is not an error.
func (p *Provisioner) RemoveArchive(ctx context.Context) (bool, error) {
	unlock, err := fsutil.LockBoxDir(ctx, p.boxDir)
	if err != nil {
		return false, err
	}

	defer unlock()

	return fsutil.RemoveIfExists(p.fs, p.ArchivePath())
}

// ArchiveExists reports whether the base image archive is present.
func (p *Provisioner) ArchiveExists() bool {
	exists, err := afero.Exists(p.fs, p.ArchivePath())

	return err == nil && exists
}
