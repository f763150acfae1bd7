//go:build !windows

package generate

import "golang.org/x/sys/unix"

var errCrossDevice error = unix.EXDEV
