// Package memory implements the CHIP-8 address space.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter area, the hex digit font lives at FontStart
//	0x200-0xFFF: Program and data area
package memory

import (
	"errors"
	"fmt"
)

const (
	// Size is the number of addressable bytes.
	Size = 0x1000

	// MaxAddress is the highest valid address in CHIP-8 memory space.
	MaxAddress = Size - 1

	// FontStart is the address of the glyph for hex digit 0.
	FontStart = 0x050

	// GlyphSize is the number of bytes (rows) of one font glyph.
	GlyphSize = 5

	// ProgramStart is the memory address where CHIP-8 programs are loaded
	// and begin execution.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program that fits between ProgramStart
	// and the end of memory.
	MaxProgramSize = Size - ProgramStart
)

var (
	// ErrOutOfRange is returned for accesses beyond MaxAddress.
	ErrOutOfRange = errors.New("memory address out of range")

	// ErrProgramTooLarge is returned when a program does not fit into the
	// program area.
	ErrProgramTooLarge = errors.New("program too large")
)

// font contains the 4x5 sprites for the hex digits 0-F.
var font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat byte store of the virtual machine.
type Memory struct {
	data [Size]byte
}

// New returns a new memory instance with the font installed.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset clears the memory and reinstalls the font.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontStart:], font[:])
}

// FontAddress returns the address of the glyph for the low nibble of digit.
func FontAddress(digit uint8) uint16 {
	return FontStart + GlyphSize*uint16(digit&0x0F)
}

// LoadProgram copies the program verbatim to ProgramStart.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(m.data[ProgramStart:], program)
	return nil
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if address > MaxAddress {
		return 0, fmt.Errorf("reading $%04X: %w", address, ErrOutOfRange)
	}
	return m.data[address], nil
}

// ReadWord returns the big endian 16 bit word starting at the given address.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	hi, err := m.Read(address)
	if err != nil {
		return 0, fmt.Errorf("reading word: %w", err)
	}
	lo, err := m.Read(address + 1)
	if err != nil {
		return 0, fmt.Errorf("reading word: %w", err)
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// Range returns the length bytes starting at address. The returned slice
// aliases the memory, writes to it change the memory content.
func (m *Memory) Range(address uint16, length int) ([]byte, error) {
	end := int(address) + length
	if length < 0 || end > Size {
		return nil, fmt.Errorf("accessing $%04X-$%04X: %w", address, end-1, ErrOutOfRange)
	}
	return m.data[address:end], nil
}
