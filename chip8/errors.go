package chip8

import (
	"errors"
	"fmt"
)

var (
	/// ErrStackOverflow is returned by CALL when all stack slots are used.
	///
	ErrStackOverflow = errors.New("stack overflow")

	/// ErrStackUnderflow is returned by RET with an empty stack.
	///
	ErrStackUnderflow = errors.New("stack underflow")
)

// UnknownOpcodeError is returned when no handler matches a fetched
// instruction. Address is where the instruction was fetched from.
type UnknownOpcodeError struct {
	Address     uint16
	Instruction Instruction
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %s at %04X", e.Instruction, e.Address)
}

// MemoryOutOfBoundsError is returned when an access of Length bytes
// starting at Address would leave the 4K address space.
type MemoryOutOfBoundsError struct {
	Address uint16
	Length  int
}

func (e *MemoryOutOfBoundsError) Error() string {
	return fmt.Sprintf("memory access out of bounds: %d bytes at %04X", e.Length, e.Address)
}

// ProgramTooLargeError is returned when a ROM does not fit in program space.
type ProgramTooLargeError struct {
	Size int
}

func (e *ProgramTooLargeError) Error() string {
	return fmt.Sprintf("program too large: %d bytes, at most %d fit", e.Size, MaxProgramSize)
}
