// Signal handling on Linux, macOS and the BSDs: SIGINT from a terminal and
// SIGTERM from process managers and CI runners both stop dispatch.

//go:build !windows

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
