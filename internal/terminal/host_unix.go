//go:build !windows

package terminal

import (
	"fmt"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Start puts stdin into raw non-blocking mode and begins reading in a
// goroutine. Call Stop to restore stdin.
func (h *Host) Start() error {
	h.fd = int(os.Stdin.Fd())
	if !term.IsTerminal(h.fd) {
		close(h.done)
		return ErrNotTerminal
	}

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("setting raw mode: %w", err)
	}
	h.oldTermState = oldState

	if err := unix.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return fmt.Errorf("setting nonblocking stdin: %w", err)
	}
	h.nonblockSet = true

	go h.readLoop()
	return nil
}

func (h *Host) readLoop() {
	defer close(h.done)
	buf := make([]byte, 16)

	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := unix.Read(h.fd, buf)
		now := time.Now()
		for _, b := range buf[:max(n, 0)] {
			h.handleByte(b, now)
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK || (err == nil && n == 0) {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			h.logger.Error("Reading stdin failed", log.Err(err))
			return
		}
	}
}

// Stop terminates the stdin reading goroutine and restores the terminal.
func (h *Host) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = unix.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
