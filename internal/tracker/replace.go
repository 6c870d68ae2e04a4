package tracker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ReplaceFile atomically writes data over the file at path through a temp
// file and rename, keeping the existing permissions. A missing file is
// created with 0644. Replaced files are never tracked: rollback only
// removes what an operation created.
func ReplaceFile(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Upsert writes data to path: a new file is created and tracked, an
// existing one is replaced in place. It reports whether the file was new.
func (t *FileTracker) Upsert(path string, data []byte, perm fs.FileMode) (bool, error) {
	if _, err := os.Lstat(path); err == nil {
		return false, ReplaceFile(path, data)
	}
	if err := t.WriteFile(path, data, perm); err != nil {
		return false, err
	}
	return true, nil
}
