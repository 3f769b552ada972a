package cpu

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/memory"
)

var (
	// ErrStackOverflow is returned when a call exceeds StackSize nested calls.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrStackUnderflow is returned for a return with an empty call stack.
	ErrStackUnderflow = errors.New("call stack underflow")

	// ErrMemoryOutOfRange is returned when the program counter or an access
	// through the index register leaves the address space.
	ErrMemoryOutOfRange = memory.ErrOutOfRange
)

// FatalError aborts the emulation. It carries the address and opcode of the
// offending instruction and the register file at the time of the failure.
type FatalError struct {
	Address uint16
	Opcode  uint16
	State   State
	Err     error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error at $%04X (opcode $%04X): %v", e.Address, e.Opcode, e.Err)
}

// Unwrap returns the underlying error.
func (e *FatalError) Unwrap() error {
	return e.Err
}
