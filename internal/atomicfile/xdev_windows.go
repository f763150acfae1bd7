//go:build windows

package atomicfile

import (
	"errors"

	"golang.org/x/sys/windows"
)

// isCrossDevice reports whether err is ERROR_NOT_SAME_DEVICE, returned by
// MoveFileEx when the source and target are on different volumes.
func isCrossDevice(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_SAME_DEVICE)
}
