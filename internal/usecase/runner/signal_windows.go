//go:build windows

package runner

import "os"

// terminateProcess ends the process; Windows has no polite termination signal.
func terminateProcess(p *os.Process) error {
	return p.Kill()
}
