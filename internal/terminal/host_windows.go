//go:build windows

package terminal

import "errors"

// Start is not supported on Windows, the console has no non-blocking
// raw read mode.
func (h *Host) Start() error {
	close(h.done)
	return errors.New("terminal frontend is not supported on windows")
}

// Stop waits for Start to finish.
func (h *Host) Stop() {
	<-h.done
}
