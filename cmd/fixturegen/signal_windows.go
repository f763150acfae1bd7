// Signal handling on Windows. Ctrl+C and Ctrl+Break arrive as os.Interrupt;
// the runtime delivers console close, logoff and shutdown as SIGTERM.

//go:build windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// notifySignals returns a channel receiving shutdownSignals, and a stop
// function that unregisters it.
func notifySignals() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, shutdownSignals...)
	return ch, func() { signal.Stop(ch) }
}
