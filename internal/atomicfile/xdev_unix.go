//go:build !windows

package atomicfile

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isCrossDevice reports whether err is EXDEV, returned by rename(2) when the
// source and target are on different mounts.
func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
