package cpu

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/memory"
)

const spriteWidth = 8

func (c *CPU) skip() {
	c.State.PC += 2
}

func (c *CPU) cls(instruction) error {
	c.display.Clear()
	return nil
}

func (c *CPU) ret(instruction) error {
	if c.State.SP == 0 {
		return ErrStackUnderflow
	}
	c.State.SP--
	c.State.PC = c.State.Stack[c.State.SP]
	return nil
}

func (c *CPU) jump(ins instruction) error {
	c.State.PC = ins.nnn
	return nil
}

func (c *CPU) call(ins instruction) error {
	if int(c.State.SP) >= StackSize {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, c.State.SP)
	}
	c.State.Stack[c.State.SP] = c.State.PC
	c.State.SP++
	c.State.PC = ins.nnn
	return nil
}

func (c *CPU) skipEqualByte(ins instruction) error {
	if c.State.V[ins.x] == ins.kk {
		c.skip()
	}
	return nil
}

func (c *CPU) skipNotEqualByte(ins instruction) error {
	if c.State.V[ins.x] != ins.kk {
		c.skip()
	}
	return nil
}

func (c *CPU) skipEqualRegister(ins instruction) error {
	if c.State.V[ins.x] == c.State.V[ins.y] {
		c.skip()
	}
	return nil
}

func (c *CPU) loadByte(ins instruction) error {
	c.State.V[ins.x] = ins.kk
	return nil
}

func (c *CPU) addByte(ins instruction) error {
	c.State.V[ins.x] += ins.kk
	return nil
}

func (c *CPU) loadRegister(ins instruction) error {
	c.State.V[ins.x] = c.State.V[ins.y]
	return nil
}

func (c *CPU) or(ins instruction) error {
	c.State.V[ins.x] |= c.State.V[ins.y]
	c.State.V[FlagRegister] = 0
	return nil
}

func (c *CPU) and(ins instruction) error {
	c.State.V[ins.x] &= c.State.V[ins.y]
	c.State.V[FlagRegister] = 0
	return nil
}

func (c *CPU) xor(ins instruction) error {
	c.State.V[ins.x] ^= c.State.V[ins.y]
	c.State.V[FlagRegister] = 0
	return nil
}

// The arithmetic handlers read both operands before writing any register,
// VF may be one of the operands.

func (c *CPU) add(ins instruction) error {
	vx, vy := c.State.V[ins.x], c.State.V[ins.y]
	sum := uint16(vx) + uint16(vy)
	c.State.V[ins.x] = uint8(sum)
	c.State.V[FlagRegister] = boolToFlag(sum > 0xFF)
	return nil
}

func (c *CPU) sub(ins instruction) error {
	vx, vy := c.State.V[ins.x], c.State.V[ins.y]
	c.State.V[ins.x] = vx - vy
	c.State.V[FlagRegister] = boolToFlag(vx >= vy)
	return nil
}

func (c *CPU) subReverse(ins instruction) error {
	vx, vy := c.State.V[ins.x], c.State.V[ins.y]
	c.State.V[ins.x] = vy - vx
	c.State.V[FlagRegister] = boolToFlag(vy >= vx)
	return nil
}

func (c *CPU) shiftRight(ins instruction) error {
	vy := c.State.V[ins.y]
	c.State.V[ins.x] = vy >> 1
	c.State.V[FlagRegister] = vy & 0x01
	return nil
}

func (c *CPU) shiftLeft(ins instruction) error {
	vy := c.State.V[ins.y]
	c.State.V[ins.x] = vy << 1
	c.State.V[FlagRegister] = vy >> 7
	return nil
}

func (c *CPU) skipNotEqualRegister(ins instruction) error {
	if c.State.V[ins.x] != c.State.V[ins.y] {
		c.skip()
	}
	return nil
}

func (c *CPU) loadIndex(ins instruction) error {
	c.State.I = ins.nnn
	return nil
}

func (c *CPU) jumpOffset(ins instruction) error {
	c.State.PC = ins.nnn + uint16(c.State.V[0])
	return nil
}

func (c *CPU) random(ins instruction) error {
	c.State.V[ins.x] = c.rng() & ins.kk
	return nil
}

// draw XORs an 8 pixel wide sprite of n rows read from I onto the display.
// The start position wraps around the screen and so does every pixel.
// VF is set when a lit pixel was turned off.
func (c *CPU) draw(ins instruction) error {
	x0 := int(c.State.V[ins.x]) % display.Width
	y0 := int(c.State.V[ins.y]) % display.Height
	c.State.V[FlagRegister] = 0

	sprite, err := c.mem.Range(c.State.I, int(ins.n))
	if err != nil {
		return err
	}

	for row, data := range sprite {
		y := (y0 + row) % display.Height
		for bit := range spriteWidth {
			if data&(0x80>>bit) == 0 {
				continue
			}
			x := (x0 + bit) % display.Width
			if !c.display.TogglePixel(x, y) {
				c.State.V[FlagRegister] = 1
			}
		}
	}
	return nil
}

func (c *CPU) skipPressed(ins instruction) error {
	if c.keyboard.IsPressed(c.State.V[ins.x]) {
		c.skip()
	}
	return nil
}

func (c *CPU) skipNotPressed(ins instruction) error {
	if !c.keyboard.IsPressed(c.State.V[ins.x]) {
		c.skip()
	}
	return nil
}

func (c *CPU) loadDelayTimer(ins instruction) error {
	c.State.V[ins.x] = c.State.DT
	return nil
}

// waitKey re-executes itself every cycle until a key is pressed.
func (c *CPU) waitKey(ins instruction) error {
	key, ok := c.keyboard.AnyPressed()
	if !ok {
		c.State.PC -= 2
		return nil
	}
	c.State.V[ins.x] = key
	return nil
}

func (c *CPU) setDelayTimer(ins instruction) error {
	c.State.DT = c.State.V[ins.x]
	return nil
}

func (c *CPU) setSoundTimer(ins instruction) error {
	c.State.ST = c.State.V[ins.x]
	return nil
}

func (c *CPU) addIndex(ins instruction) error {
	c.State.I += uint16(c.State.V[ins.x])
	return nil
}

func (c *CPU) loadFont(ins instruction) error {
	c.State.I = memory.FontAddress(c.State.V[ins.x])
	return nil
}

func (c *CPU) storeBCD(ins instruction) error {
	digits, err := c.mem.Range(c.State.I, 3)
	if err != nil {
		return err
	}
	value := c.State.V[ins.x]
	digits[0] = value / 100
	digits[1] = value / 10 % 10
	digits[2] = value % 10
	return nil
}

func (c *CPU) storeRegisters(ins instruction) error {
	count := int(ins.x) + 1
	data, err := c.mem.Range(c.State.I, count)
	if err != nil {
		return err
	}
	copy(data, c.State.V[:count])
	c.State.I += uint16(count)
	return nil
}

func (c *CPU) loadRegisters(ins instruction) error {
	count := int(ins.x) + 1
	data, err := c.mem.Range(c.State.I, count)
	if err != nil {
		return err
	}
	copy(c.State.V[:count], data)
	c.State.I += uint16(count)
	return nil
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
