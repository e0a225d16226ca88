//go:build !windows

package runner

import (
	"os"
	"syscall"
)

// terminateProcess asks the process to exit.
func terminateProcess(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
