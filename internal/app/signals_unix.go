//go:build !windows

package app

import (
	"os"
	"syscall"
)

// shutdownSignals end an interactive session.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
