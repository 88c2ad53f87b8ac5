//go:build windows

package app

import "os"

// shutdownSignals end an interactive session.
var shutdownSignals = []os.Signal{os.Interrupt}
