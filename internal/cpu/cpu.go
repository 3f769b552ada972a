// Package cpu implements the CHIP-8 instruction interpreter.
//
// The interpreter owns its register file and the memory. Every cycle fetches
// a big endian 16 bit opcode at PC, advances PC by 2 and dispatches the opcode
// through a table keyed by the top nibble and a family specific sub key.
// Pixel toggles go to the Display and key state is read from the Keyboard,
// both synchronously on the interpreter goroutine.
package cpu

import (
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrochip8/internal/arch/chip8"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

// Display is the pixel surface the interpreter draws on.
type Display interface {
	// TogglePixel flips the pixel and returns its state after the flip.
	TogglePixel(x, y int) bool
	// Clear turns all pixels off.
	Clear()
}

// Keyboard is the 16 key input device.
type Keyboard interface {
	IsPressed(key uint8) bool
	AnyPressed() (uint8, bool)
}

// CPU is the CHIP-8 interpreter.
type CPU struct {
	State State

	logger   *log.Logger
	mem      *memory.Memory
	display  Display
	keyboard Keyboard
	rng      func() uint8
	trace    bool

	cycles         uint64
	unknownOpcodes uint64
}

// Option configures a CPU.
type Option func(*CPU)

// WithRandom sets the random byte source used by the Cxkk instruction.
func WithRandom(fn func() uint8) Option {
	return func(c *CPU) {
		c.rng = fn
	}
}

// WithSeed seeds the default random byte source.
func WithSeed(seed uint64) Option {
	return func(c *CPU) {
		c.rng = newRandomSource(seed)
	}
}

// WithTrace enables debug logging of every executed instruction.
func WithTrace(enabled bool) Option {
	return func(c *CPU) {
		c.trace = enabled
	}
}

// New returns a new interpreter in power on state.
func New(logger *log.Logger, mem *memory.Memory, display Display, keyboard Keyboard, opts ...Option) *CPU {
	c := &CPU{
		logger:   logger,
		mem:      mem,
		display:  display,
		keyboard: keyboard,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = newRandomSource(uint64(time.Now().UnixNano()))
	}

	c.Reset()
	return c
}

// Reset restores the power on register state. Memory is not modified.
func (c *CPU) Reset() {
	c.State.Reset()
	c.cycles = 0
	c.unknownOpcodes = 0
}

// Cycle fetches, decodes and executes one instruction.
// Unknown opcodes are logged and skipped, all returned errors are of type
// *FatalError and end the emulation.
func (c *CPU) Cycle() error {
	address := c.State.PC
	opcode, err := c.mem.ReadWord(address)
	if err != nil {
		return c.fatal(address, 0, err)
	}
	c.State.PC += 2
	c.cycles++

	if c.trace {
		c.logger.Debug("Executing",
			log.Hex("address", address),
			log.Hex("opcode", opcode),
			log.String("instruction", chip8.Format(opcode)))
	}

	op, ok := Lookup(opcode)
	if !ok {
		c.unknownOpcodes++
		c.logger.Warn("Unknown opcode",
			log.Hex("address", address),
			log.Hex("opcode", opcode),
			log.String("instruction", chip8.Format(opcode)))
		return nil
	}

	if err := op.execute(c, decode(opcode)); err != nil {
		return c.fatal(address, opcode, err)
	}
	return nil
}

// UpdateTimers decrements the delay and sound timers by one if they are
// not zero. It is called once per 60 Hz tick.
func (c *CPU) UpdateTimers() {
	if c.State.DT > 0 {
		c.State.DT--
	}
	if c.State.ST > 0 {
		c.State.ST--
	}
}

// Snapshot returns a copy of the register file.
func (c *CPU) Snapshot() State {
	return c.State
}

// Cycles returns the number of executed instructions since the last reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// UnknownOpcodes returns the number of skipped unknown opcodes since the last reset.
func (c *CPU) UnknownOpcodes() uint64 {
	return c.unknownOpcodes
}

func (c *CPU) fatal(address, opcode uint16, err error) error {
	return &FatalError{
		Address: address,
		Opcode:  opcode,
		State:   c.State,
		Err:     err,
	}
}

func newRandomSource(seed uint64) func() uint8 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	return func() uint8 {
		return uint8(rng.Uint32())
	}
}
