// Package terminal implements the interactive terminal frontend: raw stdin
// keypad input and ANSI frame rendering.
package terminal

import (
	"errors"
	"sync"
	"time"

	"github.com/retroenv/retrochip8/internal/keyboard"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// DefaultHoldTime is how long a key stays pressed after its last input
// byte. Terminals report no key release, the key repeat of the terminal
// keeps a held key pressed.
const DefaultHoldTime = 150 * time.Millisecond

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1B
)

// ErrNotTerminal is returned when stdin is not an interactive terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// Host reads raw stdin and feeds key presses into the keypad.
type Host struct {
	logger   *log.Logger
	keys     *keyboard.Keypad
	onQuit   func()
	holdTime time.Duration

	mu       sync.Mutex
	lastSeen [keyboard.KeyCount]time.Time

	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

// NewHost creates a host adapter that reads stdin into the keypad.
// onQuit is called when Escape or Ctrl+C is pressed, raw mode disables
// the interrupt signal of the terminal.
func NewHost(logger *log.Logger, keys *keyboard.Keypad, onQuit func()) *Host {
	return &Host{
		logger:   logger,
		keys:     keys,
		onQuit:   onQuit,
		holdTime: DefaultHoldTime,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// handleByte processes a single input byte.
func (h *Host) handleByte(b byte, now time.Time) {
	if b == keyCtrlC || b == keyEsc {
		if h.onQuit != nil {
			h.onQuit()
		}
		return
	}

	key, ok := Key(b)
	if !ok {
		return
	}

	h.mu.Lock()
	h.lastSeen[key] = now
	h.mu.Unlock()
	h.keys.Press(key)
}

// Expire releases all keys that received no input within the hold time.
// It is called once per frame.
func (h *Host) Expire(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, seen := range h.lastSeen {
		if seen.IsZero() || now.Sub(seen) < h.holdTime {
			continue
		}
		h.lastSeen[key] = time.Time{}
		h.keys.Release(uint8(key))
	}
}
