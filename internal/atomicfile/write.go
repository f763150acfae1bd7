// Package atomicfile provides crash-safe file writing using temporary files
// and atomic renames.
//
// A destination path written through this package is either absent or holds
// the complete payload. The only externally visible transition is the final
// [os.Rename], which is atomic within a single filesystem.

package atomicfile

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// TempSuffix is inserted between the destination base name and the random
// suffix chosen by [os.CreateTemp].
const TempSuffix = ".tmp."

// EncodeError reports a failure while producing the temp file: creating it,
// streaming the payload, flushing, syncing or closing. The destination is
// untouched when an EncodeError is returned.
type EncodeError struct {
	// Path is the destination that was being written.
	Path string
	// Op names the step that failed (e.g. "create", "encode", "sync").
	Op  string
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s temp file for %s: %v", e.Op, e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// CommitError reports a failed rename of a completed temp file onto its
// destination. It is not retried: the usual cause is a misconfigured
// destination, not a transient condition.
type CommitError struct {
	// Path is the destination the rename targeted.
	Path string
	Err  error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("rename temp file onto %s: %v", e.Path, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// CrossDevice reports whether the rename failed because the temp file and
// destination live on different filesystems.
func (e *CommitError) CrossDevice() bool {
	return isCrossDevice(e.Err)
}

// Write atomically writes data to path. See [WriteFunc].
func Write(path string, data []byte, perm os.FileMode) error {
	return WriteFunc(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WritePNG encodes img as PNG and atomically commits it to path.
func WritePNG(path string, img image.Image) error {
	return WriteFunc(path, 0o644, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

// WriteFunc creates a temp file next to path, lets fn stream the payload into
// it, then flushes, syncs, sets perm and renames the temp file onto path.
// On any failure the temp file is removed via a deferred [os.Remove] and path
// keeps its previous state.
//
// Failures before the rename are returned as [*EncodeError]; a failed rename
// is returned as [*CommitError].
func WriteFunc(path string, perm os.FileMode, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+TempSuffix+"*")
	if err != nil {
		return &EncodeError{Path: path, Op: "create", Err: err}
	}
	tmpName := f.Name()
	var success bool
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriterSize(f, 64<<10)
	if err := fn(bw); err != nil {
		f.Close()
		return &EncodeError{Path: path, Op: "encode", Err: err}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return &EncodeError{Path: path, Op: "flush", Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &EncodeError{Path: path, Op: "sync", Err: err}
	}
	if err := f.Close(); err != nil {
		return &EncodeError{Path: path, Op: "close", Err: err}
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return &EncodeError{Path: path, Op: "chmod", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &CommitError{Path: path, Err: err}
	}
	success = true
	return nil
}
