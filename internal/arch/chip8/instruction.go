package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction is a decoded CHIP-8 instruction wrapping the retrogolib
// instruction definition together with the opcode it was decoded from.
type Instruction struct {
	ins    *chip8.Instruction
	opcode uint16
}

// Decode looks up the instruction for the opcode in the retrogolib
// CHIP-8 opcode table. The first table entry of the opcode's high nibble
// whose mask matches is used.
func Decode(opcode uint16) (Instruction, bool) {
	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value && op.Instruction != nil {
			return Instruction{ins: op.Instruction, opcode: opcode}, true
		}
	}
	return Instruction{opcode: opcode}, false
}

// String returns the instruction formatted with its operands.
// Unknown opcodes are formatted as a data word.
func (i Instruction) String() string {
	if i.ins == nil {
		return fmt.Sprintf(".word $%04X", i.opcode)
	}
	if params := formatParams(i.opcode); params != "" {
		return fmt.Sprintf("%s %s", i.ins.Name, params)
	}
	return i.ins.Name
}

// Format decodes the opcode and returns its formatted instruction text.
func Format(opcode uint16) string {
	ins, _ := Decode(opcode)
	return ins.String()
}
