package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Stale returns temp files in dir left behind by interrupted writes whose
// destination base name matches pattern (e.g. "image_*.png"). A process that
// is killed between [os.CreateTemp] and the deferred cleanup leaves one.
func Stale(dir, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), pattern+TempSuffix+"*")
	if err != nil {
		return nil, fmt.Errorf("glob stale temp files: %w", err)
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, filepath.Join(dir, filepath.FromSlash(m)))
	}
	return out, nil
}

// RemoveStale deletes the files reported by [Stale] and returns how many were
// removed. Files that vanish concurrently are not an error.
func RemoveStale(dir, pattern string) (int, error) {
	files, err := Stale(dir, pattern)
	if err != nil {
		return 0, err
	}
	var errs []error
	removed := 0
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
