package chip8

import "fmt"

/// Instruction is a single 2-byte CHIP-8 instruction as fetched from
/// memory, most significant byte first. Every 2-byte value is a valid
/// Instruction, even when no opcode handler recognizes it.
///
type Instruction [2]byte

/// Decode builds an Instruction from a 16-bit word.
///
func Decode(word uint16) Instruction {
	return Instruction{byte(word >> 8), byte(word)}
}

/// Group is the first nibble, left in place (0x00, 0x10, ... 0xF0).
///
func (inst Instruction) Group() byte {
	return inst[0] & 0xF0
}

/// X is the register index held in the second nibble.
///
func (inst Instruction) X() byte {
	return inst[0] & 0x0F
}

/// Y is the register index held in the third nibble.
///
func (inst Instruction) Y() byte {
	return (inst[1] & 0xF0) >> 4
}

/// N is the low nibble (sprite height, 8XYN sub-opcode).
///
func (inst Instruction) N() byte {
	return inst[1] & 0x0F
}

/// NN is the immediate byte.
///
func (inst Instruction) NN() byte {
	return inst[1]
}

/// NNN is the 12-bit address spanning both bytes.
///
func (inst Instruction) NNN() uint16 {
	return uint16(inst[0]&0x0F)<<8 | uint16(inst[1])
}

/// Word returns the instruction as a 16-bit value.
///
func (inst Instruction) Word() uint16 {
	return uint16(inst[0])<<8 | uint16(inst[1])
}

func (inst Instruction) String() string {
	return fmt.Sprintf("%04X", inst.Word())
}
