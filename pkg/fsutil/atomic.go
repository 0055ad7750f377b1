package fsutil

import (
	"bytes"
	"context"
	"errors"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for newly created files.
const DefaultFileMode os.FileMode = 0o644

// WriteFile replaces the file at path with content. The content is written
// to a temp file in the same directory, synced and renamed over path, so
// readers never see a partial file. It reports false without writing when
// path already holds content. A zero mode keeps the mode of an existing
// file, or uses DefaultFileMode.
func WriteFile(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("write file: %w", err)
	}

	existing, info, err := ReadFile(ctx, path)
	switch {
	case err == nil:
		if sha256.Sum256(content) == info.Hash && bytes.Equal(existing, content) {
			return false, nil
		}
		if mode == 0 {
			mode = info.Mode.Perm()
		}
	case isNotFound(err):
	default:
		return false, err
	}

	if mode == 0 {
		mode = DefaultFileMode
	}
	if err := replace(path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

func replace(path string, content []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	done := false
	defer func() {
		if !done {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	done = true
	return nil
}

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrNotFound)
}
