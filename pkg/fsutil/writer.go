package fsutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// WriteFromReader streams r into output, creating its directory. An existing file is replaced.
// The data is written to a sibling temp file first so readers never see a partial archive.
func WriteFromReader(fs afero.Fs, output string, r io.Reader) error {
	if output == "" {
		return ErrEmptyOutputPath
	}

	output = filepath.Clean(output)
	dir := filepath.Dir(output)

	err := fs.MkdirAll(dir, dirPermUserGroupRX)
	if err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(output)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}

	_, err = io.Copy(tmp, r)
	closeErr := tmp.Close()

	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = fs.Remove(tmp.Name())

		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	err = fs.Rename(tmp.Name(), output)
	if err != nil {
		_ = fs.Remove(tmp.Name())

		return fmt.Errorf("failed to move %s into place: %w", output, err)
	}

	return nil
}

// RemoveIfExists removes path. A missing file is not an error.
func RemoveIfExists(fs afero.Fs, path string) (bool, error) {
	err := fs.Remove(path)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("failed to remove %s: %w", path, err)
}

// AppendLineOnce appends line to path unless the file already contains it.
// The file is created when missing.
func AppendLineOnce(fs afero.Fs, path, line string) (bool, error) {
	present, err := containsLine(fs, path, line)
	if err != nil {
		return false, err
	}

	if present {
		return false, nil
	}

	file, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermUserRW)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}

	defer func() { _ = file.Close() }()

	_, err = file.WriteString(line + "\n")
	if err != nil {
		return false, fmt.Errorf("failed to append to %s: %w", path, err)
	}

	return true, nil
}

func containsLine(fs afero.Fs, path, line string) (bool, error) {
	file, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}

	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == line {
			return true, nil
		}
	}

	err = scanner.Err()
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return false, nil
}
