package chip8

import (
	"strings"
	"testing"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		expected *chip8cpu.Instruction
	}{
		{"clear screen", 0x00E0, chip8cpu.Cls},
		{"return", 0x00EE, chip8cpu.Ret},
		{"jump", 0x1234, chip8cpu.Jp},
		{"call", 0x2300, chip8cpu.Call},
		{"skip equal immediate", 0x3142, chip8cpu.Se},
		{"skip not equal immediate", 0x4142, chip8cpu.Sne},
		{"load immediate", 0x6A22, chip8cpu.Ld},
		{"or", 0x8121, chip8cpu.Or},
		{"and", 0x8122, chip8cpu.And},
		{"xor", 0x8123, chip8cpu.Xor},
		{"sub", 0x8125, chip8cpu.Sub},
		{"shift right", 0x8126, chip8cpu.Shr},
		{"sub reverse", 0x8127, chip8cpu.Subn},
		{"shift left", 0x812E, chip8cpu.Shl},
		{"random", 0xC10F, chip8cpu.Rnd},
		{"draw", 0xD125, chip8cpu.Drw},
		{"skip pressed", 0xE19E, chip8cpu.Skp},
		{"skip not pressed", 0xE1A1, chip8cpu.Sknp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ins, ok := Decode(tt.opcode)
			assert.True(t, ok)
			assert.True(t, ins.ins == tt.expected)
			assert.True(t, strings.HasPrefix(ins.String(), tt.expected.Name))
		})
	}
}

func TestInstruction_String(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		expected string
	}{
		{"no params", 0x00E0, chip8cpu.Cls.Name},
		{"jump", 0x1234, chip8cpu.Jp.Name + " $234"},
		{"call", 0x2300, chip8cpu.Call.Name + " $300"},
		{"load immediate", 0x6A22, chip8cpu.Ld.Name + " VA, $22"},
		{"draw", 0xD125, chip8cpu.Drw.Name + " V1, V2, $5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.opcode))
		})
	}
}

func TestInstruction_Unknown(t *testing.T) {
	ins, ok := Decode(0xFFFF)
	assert.False(t, ok)
	assert.True(t, ins.ins == nil)
	assert.Equal(t, ".word $FFFF", ins.String())
}

func TestFormatParams(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		expected string
	}{
		{"cls", 0x00E0, ""},
		{"jp", 0x1ABC, "$ABC"},
		{"se byte", 0x3A12, "VA, $12"},
		{"se register", 0x5AB0, "VA, VB"},
		{"add byte", 0x7105, "V1, $05"},
		{"alu", 0x8F04, "VF, V0"},
		{"ld I", 0xA123, "I, $123"},
		{"jp V0", 0xB200, "V0, $200"},
		{"drw", 0xD01F, "V0, V1, $F"},
		{"skp", 0xE39E, "V3"},
		{"ld Vx DT", 0xF207, "V2, DT"},
		{"ld Vx K", 0xF20A, "V2, K"},
		{"ld DT Vx", 0xF215, "DT, V2"},
		{"ld ST Vx", 0xF218, "ST, V2"},
		{"add I Vx", 0xF21E, "I, V2"},
		{"ld F Vx", 0xF229, "F, V2"},
		{"ld B Vx", 0xF233, "B, V2"},
		{"ld [I] Vx", 0xF255, "[I], V2"},
		{"ld Vx [I]", 0xF265, "V2, [I]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatParams(tt.opcode))
		})
	}
}

func TestExtractRegisters(t *testing.T) {
	assert.Equal(t, uint16(0xA), extractRegisterX(0x8AB4))
	assert.Equal(t, uint16(0xB), extractRegisterY(0x8AB4))
}
