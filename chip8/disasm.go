package chip8

import (
	"fmt"
	"math/bits"
	"strings"

	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

/// Disassemble the CHIP-8 instruction at address in memory.
///
func (vm *CHIP_8) Disassemble(address uint16) string {
	if int(address) >= len(vm.Memory)-1 {
		return ""
	}

	// fetch the instruction at this location
	inst := Instruction{vm.Memory[address], vm.Memory[address+1]}

	// end of program memory?
	if inst.Word() == 0 {
		return fmt.Sprintf("%04X -", address)
	}

	return fmt.Sprintf("%04X - %s", address, DisassembleInstruction(inst))
}

/// DisassembleInstruction renders a single instruction, e.g. "LD     V1, #AB".
/// Instructions without a known mnemonic render as "??".
///
func DisassembleInstruction(inst Instruction) string {
	name := mnemonic(inst)
	if name == "" {
		return "??"
	}

	ops := operands(inst)
	if ops == "" {
		return name
	}

	return fmt.Sprintf("%-6s %s", name, ops)
}

/// mnemonic looks the instruction up in the opcode table. When more than
/// one entry matches, the one with the most specific mask wins.
///
func mnemonic(inst Instruction) string {
	w := inst.Word()

	name := ""
	best := -1

	for _, op := range cpu.Opcodes[int(inst.Group()>>4)] {
		if op.Instruction == nil || w&op.Info.Mask != op.Info.Value {
			continue
		}

		if n := bits.OnesCount16(op.Info.Mask); n > best {
			best = n
			name = op.Instruction.Name
		}
	}

	return strings.ToUpper(name)
}

/// operands for the instructions the VM executes, in assembler syntax.
///
func operands(inst Instruction) string {
	x, y := inst.X(), inst.Y()
	nn, nnn := inst.NN(), inst.NNN()

	switch inst.Group() {
	case 0x10, 0x20:
		return fmt.Sprintf("#%04X", nnn)
	case 0x30, 0x40, 0x60, 0x70, 0xC0:
		return fmt.Sprintf("V%X, #%02X", x, nn)
	case 0x50, 0x80, 0x90:
		return fmt.Sprintf("V%X, V%X", x, y)
	case 0xA0:
		return fmt.Sprintf("I, #%04X", nnn)
	case 0xB0:
		return fmt.Sprintf("V0, #%04X", nnn)
	case 0xD0:
		return fmt.Sprintf("V%X, V%X, %d", x, y, inst.N())
	case 0xE0:
		return fmt.Sprintf("V%X", x)
	case 0xF0:
		switch nn {
		case 0x07:
			return fmt.Sprintf("V%X, DT", x)
		case 0x0A:
			return fmt.Sprintf("V%X, K", x)
		case 0x15:
			return fmt.Sprintf("DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("ST, V%X", x)
		case 0x1E:
			return fmt.Sprintf("I, V%X", x)
		case 0x29:
			return fmt.Sprintf("F, V%X", x)
		case 0x33:
			return fmt.Sprintf("B, V%X", x)
		case 0x55:
			return fmt.Sprintf("[I], V%X", x)
		case 0x65:
			return fmt.Sprintf("V%X, [I]", x)
		}
	}

	return ""
}
