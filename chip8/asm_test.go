package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestAssemble_Instructions(t *testing.T) {
	tests := []struct {
		source string
		word   uint16
	}{
		{"CLS", 0x00E0},
		{"RET", 0x00EE},
		{"JP #ABC", 0x1ABC},
		{"JP V0, #300", 0xB300},
		{"CALL #234", 0x2234},
		{"SE V1, #42", 0x3142},
		{"SE V1, V2", 0x5120},
		{"SNE V1, #42", 0x4142},
		{"SNE V1, V2", 0x9120},
		{"LD V3, 255", 0x63FF},
		{"LD V3, V4", 0x8340},
		{"LD I, #123", 0xA123},
		{"LD V5, DT", 0xF507},
		{"LD V5, K", 0xF50A},
		{"LD DT, V5", 0xF515},
		{"LD ST, V5", 0xF518},
		{"LD F, V5", 0xF529},
		{"LD B, V5", 0xF533},
		{"LD [I], V5", 0xF555},
		{"LD V5, [I]", 0xF565},
		{"ADD V1, 1", 0x7101},
		{"ADD V1, V2", 0x8124},
		{"ADD I, V2", 0xF21E},
		{"OR V1, V2", 0x8121},
		{"AND V1, V2", 0x8122},
		{"XOR V1, V2", 0x8123},
		{"SUB V1, V2", 0x8125},
		{"SUBN V1, V2", 0x8127},
		{"SHR V1, V2", 0x8126},
		{"SHR V1", 0x8116},
		{"SHL V1, V2", 0x812E},
		{"SHL VA", 0x8AAE},
		{"RND V1, %1111", 0xC10F},
		{"DRW V1, V2, 15", 0xD12F},
		{"SKP VE", 0xEE9E},
		{"SKNP VE", 0xEEA1},
		{"ld v1, 0x1f", 0x611F},
		{"LD V1, $1F", 0x611F},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			asm, err := Assemble([]byte(tt.source))
			assert.NoError(t, err)
			assert.Equal(t, []byte{byte(tt.word >> 8), byte(tt.word)}, asm.ROM)
		})
	}
}

func TestAssemble_Labels(t *testing.T) {
	asm, err := Assemble([]byte(`
; forward and backward references
start:
	call draw     ; forward
	jp start

draw: ld i, sprite
	drw v0, v1, 1
	ret

sprite:
	byte %10000001
`))
	assert.NoError(t, err)

	assert.Equal(t, ProgramAddress, asm.Labels["START"])
	assert.Equal(t, 0x204, asm.Labels["DRAW"])
	assert.Equal(t, 0x20A, asm.Labels["SPRITE"])
	assert.Empty(t, asm.Unresolved)

	assert.Equal(t, []byte{
		0x22, 0x04,
		0x12, 0x00,
		0xA2, 0x0A,
		0xD0, 0x11,
		0x00, 0xEE,
		0x81,
	}, asm.ROM)
}

func TestAssemble_Data(t *testing.T) {
	asm, err := Assemble([]byte("BYTE 1, #FF, %101\nWORD #1234, HERE\nHERE: WORD 7"))
	assert.NoError(t, err)

	assert.Equal(t, []byte{
		0x01, 0xFF, 0x05,
		0x12, 0x34,
		0x02, 0x07,
		0x00, 0x07,
	}, asm.ROM)
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		err    string
	}{
		{"unknown instruction", "CLS\nFOO V1", "line 2 - unknown instruction FOO"},
		{"byte out of range", "LD V1, 256", "line 1 - literal #100 out of range"},
		{"nibble out of range", "DRW V1, V2, 16", "out of range"},
		{"address out of range", "JP #1000", "out of range"},
		{"duplicate label", "A:\nA: CLS", "line 2 - duplicate label A"},
		{"unresolved label", "JP NOWHERE", "unresolved label NOWHERE"},
		{"bad operands", "CLS V0", "unexpected operands"},
		{"illegal form", "LD DT, 5", "illegal instruction"},
		{"jump through v1", "JP V1, #200", "illegal instruction"},
		{"missing comma", "LD V0 V1", "expected ','"},
		{"trailing comma", "LD V0,", "expected operand"},
		{"bad character", "LD V0, @", "unexpected character"},
		{"bad address", "LD [J], V0", "expected [I]"},
		{"no instruction", "#200", "expected instruction"},
		{"empty byte", "BYTE", "expected bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm, err := Assemble([]byte(tt.source))
			assert.True(t, asm == nil)
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestAssemble_TooLarge(t *testing.T) {
	source := make([]byte, 0, MaxProgramSize*2)
	for i := 0; i < MaxProgramSize/2+1; i++ {
		source = append(source, "CLS\n"...)
	}

	_, err := Assemble(source)
	assert.ErrorContains(t, err, "program too large")
}

func TestAssemble_Runs(t *testing.T) {
	vm := load(t, `
	ld v0, 0
loop:
	add v0, 1
	se v0, 10
	jp loop
done:
	jp done
`)

	step(t, vm, 1+3*9+2)

	assert.Equal(t, byte(10), vm.V[0])
	assert.Equal(t, uint16(0x208), vm.PC)
}
