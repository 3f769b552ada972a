// Package chip8 provides CHIP-8 instruction naming for the interpreter.
//
// It bridges the retrogolib CHIP-8 opcode table to the emulator, the table
// is used to name and format executed instructions in trace logs and in
// fatal error diagnostics. Execution itself does not depend on this package.
//
// # Instruction Set
//
// CHIP-8 has a simple instruction set with 34 executable opcodes:
//   - All instructions are 2 bytes (16 bits), stored big endian
//   - Instructions use direct addressing with 12-bit addresses
//   - 16 general-purpose 8-bit registers (V0-VF), VF doubles as flag register
//   - Special-purpose registers: I (16-bit), PC, SP, DT, ST
//
// # Usage Example
//
//	ins, ok := chip8.Decode(0x8124)
//	if ok {
//		fmt.Println(ins) // add V1, V2
//	}
package chip8
