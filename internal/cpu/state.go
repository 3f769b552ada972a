package cpu

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/memory"
)

const (
	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16

	// FlagRegister is the index of VF, the carry, borrow and collision flag.
	FlagRegister = 0xF

	// StackSize is the maximum call depth.
	StackSize = 16
)

// State is the register file of the interpreter.
type State struct {
	V     [RegisterCount]uint8 // general purpose registers, VF doubles as flag
	I     uint16               // index register
	PC    uint16               // program counter
	SP    uint8                // number of return addresses on the stack
	Stack [StackSize]uint16    // return addresses
	DT    uint8                // delay timer
	ST    uint8                // sound timer
}

// Reset sets the power on state: all registers cleared, empty stack and
// the program counter at the program start address.
func (s *State) Reset() {
	*s = State{PC: memory.ProgramStart}
}

// String returns a single line dump of the register file.
func (s State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PC=$%04X I=$%04X SP=%d DT=$%02X ST=$%02X", s.PC, s.I, s.SP, s.DT, s.ST)
	for i, v := range s.V {
		fmt.Fprintf(&sb, " V%X=$%02X", i, v)
	}
	return sb.String()
}
