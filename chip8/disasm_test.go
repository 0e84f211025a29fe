package chip8

import (
	"fmt"
	"strings"
	"testing"

	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDisassembleInstruction(t *testing.T) {
	name := func(ins *cpu.Instruction) string {
		return strings.ToUpper(ins.Name)
	}

	tests := []struct {
		word     uint16
		expected string
	}{
		{0x00E0, name(cpu.Cls)},
		{0x00EE, name(cpu.Ret)},
		{0x1ABC, fmt.Sprintf("%-6s #0ABC", name(cpu.Jp))},
		{0x2234, fmt.Sprintf("%-6s #0234", name(cpu.Call))},
		{0x3142, fmt.Sprintf("%-6s V1, #42", name(cpu.Se))},
		{0x9120, fmt.Sprintf("%-6s V1, V2", name(cpu.Sne))},
		{0x63FF, fmt.Sprintf("%-6s V3, #FF", name(cpu.Ld))},
		{0xA123, fmt.Sprintf("%-6s I, #0123", name(cpu.Ld))},
		{0xB300, fmt.Sprintf("%-6s V0, #0300", name(cpu.Jp))},
		{0x8124, fmt.Sprintf("%-6s V1, V2", name(cpu.Add))},
		{0x812E, fmt.Sprintf("%-6s V1, V2", name(cpu.Shl))},
		{0xC10F, fmt.Sprintf("%-6s V1, #0F", name(cpu.Rnd))},
		{0xD12F, fmt.Sprintf("%-6s V1, V2, 15", name(cpu.Drw))},
		{0xEE9E, fmt.Sprintf("%-6s VE", name(cpu.Skp))},
		{0xEEA1, fmt.Sprintf("%-6s VE", name(cpu.Sknp))},
		{0xF507, fmt.Sprintf("%-6s V5, DT", name(cpu.Ld))},
		{0xF50A, fmt.Sprintf("%-6s V5, K", name(cpu.Ld))},
		{0xF518, fmt.Sprintf("%-6s ST, V5", name(cpu.Ld))},
		{0xF21E, fmt.Sprintf("%-6s I, V2", name(cpu.Add))},
		{0xF533, fmt.Sprintf("%-6s B, V5", name(cpu.Ld))},
		{0xF555, fmt.Sprintf("%-6s [I], V5", name(cpu.Ld))},
		{0xF565, fmt.Sprintf("%-6s V5, [I]", name(cpu.Ld))},
		{0xF0FF, "??"},
	}

	for _, tt := range tests {
		inst := Decode(tt.word)

		t.Run(inst.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, DisassembleInstruction(inst))
		})
	}
}

func TestDisassemble(t *testing.T) {
	vm := load(t, "LD V1, #AB\nJP #200")

	assert.Equal(t, "0200 - "+DisassembleInstruction(Decode(0x61AB)), vm.Disassemble(0x200))
	assert.Equal(t, "0202 - "+DisassembleInstruction(Decode(0x1200)), vm.Disassemble(0x202))
	assert.Equal(t, "0204 -", vm.Disassemble(0x204))
	assert.Equal(t, "", vm.Disassemble(MemorySize-1))
	assert.Equal(t, "", vm.Disassemble(MemorySize))
}

// every instruction the assembler accepts reads back as the same source
func TestDisassemble_RoundTrip(t *testing.T) {
	sources := []string{
		"LD V1, V2",
		"SE V1, #42",
		"DRW V1, V2, 5",
		"LD DT, V5",
		"LD F, V5",
		"ADD V1, #01",
		"SUB V3, V4",
	}

	for _, source := range sources {
		asm, err := Assemble([]byte(source))
		assert.NoError(t, err)

		text := DisassembleInstruction(Decode(uint16(asm.ROM[0])<<8 | uint16(asm.ROM[1])))
		fields := strings.Fields(text)

		assert.Equal(t, source, fields[0]+" "+strings.Join(fields[1:], " "))
	}
}
