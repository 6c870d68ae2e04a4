// Package tracker records the files and directories a command creates so
// that a failed command can undo them.
//
// A FileTracker belongs to exactly one mutating operation. It is Active
// while the operation runs; Rollback deletes what was tracked, newest
// first, and moves the tracker to Spent. A spent tracker ignores further
// tracking and rollback calls.
package tracker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Logger receives one line per rollback action. output.Printer satisfies it.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

// State is the lifecycle stage of a FileTracker.
type State int

const (
	// Active trackers accept new paths and can be rolled back.
	Active State = iota
	// Spent trackers have been rolled back and do nothing.
	Spent
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == Spent {
		return "spent"
	}
	return "active"
}

// FileTracker is an append-only log of created paths.
type FileTracker struct {
	files []string
	dirs  []string
	state State
}

// New returns an Active tracker with nothing recorded.
func New() *FileTracker {
	return &FileTracker{}
}

// State returns the tracker's lifecycle stage.
func (t *FileTracker) State() State {
	return t.state
}

// Files returns the tracked files in tracking order.
func (t *FileTracker) Files() []string {
	return append([]string(nil), t.files...)
}

// Dirs returns the tracked directories in tracking order.
func (t *FileTracker) Dirs() []string {
	return append([]string(nil), t.dirs...)
}

// Empty reports whether nothing has been tracked.
func (t *FileTracker) Empty() bool {
	return len(t.files) == 0 && len(t.dirs) == 0
}

// TrackFile records a created file. The path is not checked.
func (t *FileTracker) TrackFile(path string) {
	if t.state == Spent {
		return
	}
	t.files = append(t.files, absPath(path))
}

// TrackDir records a created directory. The path is not checked.
func (t *FileTracker) TrackDir(path string) {
	if t.state == Spent {
		return
	}
	t.dirs = append(t.dirs, absPath(path))
}

// MkdirAll creates path and any missing parents, tracking each directory
// it actually creates, outermost first. Directories that already exist
// are not tracked.
func (t *FileTracker) MkdirAll(path string, perm fs.FileMode) error {
	path = absPath(path)

	var missing []string
	for dir := path; ; dir = filepath.Dir(dir) {
		info, err := os.Stat(dir)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("create directory %s: %s is not a directory", path, dir)
			}
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", dir, err)
		}
		missing = append(missing, dir)
		if filepath.Dir(dir) == dir {
			break
		}
	}

	for i := len(missing) - 1; i >= 0; i-- {
		err := os.Mkdir(missing[i], perm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("create directory %s: %w", missing[i], err)
		}
		t.TrackDir(missing[i])
	}
	return nil
}

// WriteFile writes data to a new file and tracks it. It fails if the file
// already exists, so tracked files are always files this operation made.
func (t *FileTracker) WriteFile(path string, data []byte, perm fs.FileMode) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	t.TrackFile(path)

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// Rollback deletes every tracked file, newest first, then every tracked
// directory that is empty, newest first. Files that are already gone are
// skipped silently. Directories that still hold anything are kept.
//
// Each deletion is reported to log with Info; kept directories and
// failures with Warn. Failures do not stop the rollback; they are joined
// into the returned error. After Rollback the tracker is Spent and later
// calls return nil without touching the filesystem.
func (t *FileTracker) Rollback(log Logger) error {
	if t.state == Spent {
		return nil
	}
	t.state = Spent
	if log == nil {
		log = nopLogger{}
	}

	var errs []error
	for i := len(t.files) - 1; i >= 0; i-- {
		path := t.files[i]
		err := os.Remove(path)
		switch {
		case err == nil:
			log.Info("Removed file %s", path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			log.Warn("Could not remove file %s: %v", path, err)
			errs = append(errs, err)
		}
	}

	for i := len(t.dirs) - 1; i >= 0; i-- {
		path := t.dirs[i]
		entries, err := os.ReadDir(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			log.Warn("Could not inspect directory %s: %v", path, err)
			errs = append(errs, err)
			continue
		case len(entries) > 0:
			log.Warn("Kept directory %s: not empty", path)
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn("Could not remove directory %s: %v", path, err)
			errs = append(errs, err)
			continue
		}
		log.Info("Removed directory %s", path)
	}

	t.files, t.dirs = nil, nil
	return errors.Join(errs...)
}

// absPath makes path absolute when it can; tracking never fails.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
