package cpu

// handler executes a decoded instruction against the interpreter state.
type handler func(c *CPU, ins instruction) error

// Operation is an entry of the dispatch table.
type Operation struct {
	Pattern string // opcode pattern, for example 8xy4
	execute handler
}

// instruction holds the operand fields of an opcode, they are recomputed
// on every fetch.
type instruction struct {
	opcode uint16
	x      uint8  // bits 8-11
	y      uint8  // bits 4-7
	n      uint8  // bits 0-3
	kk     uint8  // bits 0-7
	nnn    uint16 // bits 0-11
}

func decode(opcode uint16) instruction {
	return instruction{
		opcode: opcode,
		x:      uint8((opcode & 0x0F00) >> 8),
		y:      uint8((opcode & 0x00F0) >> 4),
		n:      uint8(opcode & 0x000F),
		kk:     uint8(opcode & 0x00FF),
		nnn:    opcode & 0x0FFF,
	}
}

// family is the dispatch entry for one value of the top opcode nibble.
// Families without a key function map to a single operation.
type family struct {
	key    func(opcode uint16) uint16
	single *Operation
	ops    map[uint16]*Operation
}

// familyKeys returns the secondary key functions of the families that
// contain more than one operation.
var familyKeys = map[uint16]func(opcode uint16) uint16{
	0x0: func(opcode uint16) uint16 { return opcode },
	0x8: func(opcode uint16) uint16 { return opcode & 0xF00F },
	0xE: func(opcode uint16) uint16 { return opcode & 0xF0FF },
	0xF: func(opcode uint16) uint16 { return opcode & 0xF0FF },
}

// operations lists every supported opcode, identified by its canonical
// value with all operand fields zero.
var operations = []struct {
	value   uint16
	pattern string
	execute handler
}{
	{0x00E0, "00E0", (*CPU).cls},
	{0x00EE, "00EE", (*CPU).ret},
	{0x1000, "1nnn", (*CPU).jump},
	{0x2000, "2nnn", (*CPU).call},
	{0x3000, "3xkk", (*CPU).skipEqualByte},
	{0x4000, "4xkk", (*CPU).skipNotEqualByte},
	{0x5000, "5xy0", (*CPU).skipEqualRegister},
	{0x6000, "6xkk", (*CPU).loadByte},
	{0x7000, "7xkk", (*CPU).addByte},
	{0x8000, "8xy0", (*CPU).loadRegister},
	{0x8001, "8xy1", (*CPU).or},
	{0x8002, "8xy2", (*CPU).and},
	{0x8003, "8xy3", (*CPU).xor},
	{0x8004, "8xy4", (*CPU).add},
	{0x8005, "8xy5", (*CPU).sub},
	{0x8006, "8xy6", (*CPU).shiftRight},
	{0x8007, "8xy7", (*CPU).subReverse},
	{0x800E, "8xyE", (*CPU).shiftLeft},
	{0x9000, "9xy0", (*CPU).skipNotEqualRegister},
	{0xA000, "Annn", (*CPU).loadIndex},
	{0xB000, "Bnnn", (*CPU).jumpOffset},
	{0xC000, "Cxkk", (*CPU).random},
	{0xD000, "Dxyn", (*CPU).draw},
	{0xE09E, "Ex9E", (*CPU).skipPressed},
	{0xE0A1, "ExA1", (*CPU).skipNotPressed},
	{0xF007, "Fx07", (*CPU).loadDelayTimer},
	{0xF00A, "Fx0A", (*CPU).waitKey},
	{0xF015, "Fx15", (*CPU).setDelayTimer},
	{0xF018, "Fx18", (*CPU).setSoundTimer},
	{0xF01E, "Fx1E", (*CPU).addIndex},
	{0xF029, "Fx29", (*CPU).loadFont},
	{0xF033, "Fx33", (*CPU).storeBCD},
	{0xF055, "Fx55", (*CPU).storeRegisters},
	{0xF065, "Fx65", (*CPU).loadRegisters},
}

// dispatch is built once and never modified afterwards.
var dispatch = buildDispatchTable()

func buildDispatchTable() [16]family {
	var table [16]family
	for _, entry := range operations {
		op := &Operation{Pattern: entry.pattern, execute: entry.execute}
		nibble := entry.value >> 12
		fam := &table[nibble]

		key, ok := familyKeys[nibble]
		if !ok {
			fam.single = op
			continue
		}
		if fam.ops == nil {
			fam.key = key
			fam.ops = make(map[uint16]*Operation)
		}
		fam.ops[key(entry.value)] = op
	}
	return table
}

// Lookup returns the operation that executes the opcode.
func Lookup(opcode uint16) (Operation, bool) {
	fam := dispatch[opcode>>12]
	if fam.key == nil {
		if fam.single == nil {
			return Operation{}, false
		}
		return *fam.single, true
	}
	op, ok := fam.ops[fam.key(opcode)]
	if !ok {
		return Operation{}, false
	}
	return *op, true
}
