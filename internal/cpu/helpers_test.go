package cpu

import (
	"testing"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keyboard"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type testMachine struct {
	cpu     *CPU
	mem     *memory.Memory
	display *display.Framebuffer
	keys    *keyboard.Keypad
}

// newTestMachine returns an interpreter with the given opcodes loaded at the
// program start address.
func newTestMachine(t *testing.T, opcodes ...uint16) *testMachine {
	t.Helper()

	program := make([]byte, 0, 2*len(opcodes))
	for _, opcode := range opcodes {
		program = append(program, byte(opcode>>8), byte(opcode))
	}

	mem := memory.New()
	assert.NoError(t, mem.LoadProgram(program))

	m := &testMachine{
		mem:     mem,
		display: display.New(),
		keys:    keyboard.New(),
	}
	logger := log.NewTestLogger(t)
	m.cpu = New(logger, mem, m.display, m.keys, WithRandom(func() uint8 { return 0xFF }))
	return m
}

// step executes n cycles and fails the test on any error.
func (m *testMachine) step(t *testing.T, n int) {
	t.Helper()
	for range n {
		assert.NoError(t, m.cpu.Cycle())
	}
}
