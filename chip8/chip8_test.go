package chip8

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// assemble source and load it into a fresh machine
func load(t *testing.T, source string) *CHIP_8 {
	t.Helper()

	asm, err := Assemble([]byte(source))
	assert.NoError(t, err)

	vm, err := LoadROM(asm.ROM)
	assert.NoError(t, err)

	return vm
}

// step n instructions, all of which must succeed
func step(t *testing.T, vm *CHIP_8, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		assert.NoError(t, vm.Step())
	}
}

func framebuffer(vm *CHIP_8) *Framebuffer {
	return vm.Display.(*Framebuffer)
}

type gateRecorder struct {
	events []string
}

func (g *gateRecorder) Enable()  { g.events = append(g.events, "on") }
func (g *gateRecorder) Disable() { g.events = append(g.events, "off") }

func TestNew(t *testing.T) {
	vm := New()

	assert.Equal(t, uint16(ProgramAddress), vm.PC)
	assert.Equal(t, uint(0), vm.SP)
	assert.Equal(t, uint16(0), vm.I)
	assert.Equal(t, Font[:], vm.Memory[FontAddress:FontAddress+len(Font)])
	assert.Equal(t, byte(0), vm.Memory[ProgramAddress])
	assert.NotNil(t, vm.Display)
	assert.NotNil(t, vm.Random)
}

func TestLoadROM(t *testing.T) {
	vm, err := LoadROM([]byte{0x12, 0x34, 0x56})
	assert.NoError(t, err)

	assert.Equal(t, []byte{0x12, 0x34, 0x56}, vm.Memory[ProgramAddress:ProgramAddress+3])
	assert.Equal(t, uint16(ProgramAddress), vm.PC)
}

func TestLoadROM_TooLarge(t *testing.T) {
	_, err := LoadROM(make([]byte, MaxProgramSize))
	assert.NoError(t, err)

	_, err = LoadROM(make([]byte, MaxProgramSize+1))

	var tooLarge *ProgramTooLargeError
	assert.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, MaxProgramSize+1, tooLarge.Size)
}

func TestLoad_ReplacesProgram(t *testing.T) {
	vm, err := LoadROM([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	assert.NoError(t, err)

	assert.NoError(t, vm.Load([]byte{0x11}))
	assert.Equal(t, []byte{0x11, 0x00, 0x00, 0x00}, vm.Memory[ProgramAddress:ProgramAddress+4])
	assert.Equal(t, Font[:], vm.Memory[FontAddress:FontAddress+len(Font)])
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(file, []byte{0x00, 0xE0}, 0o644))

	vm, err := LoadFile(file)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xE0), vm.Memory[ProgramAddress+1])

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReset(t *testing.T) {
	vm := load(t, "LD V0, #01\nLD [I], V0")

	vm.I = 0x300
	step(t, vm, 2)
	vm.PressKey(3)
	vm.Timers.Delay = 9
	framebuffer(vm).Set(1, 1, true)

	assert.Equal(t, byte(1), vm.Memory[0x300])

	vm.Reset()

	assert.Equal(t, byte(0), vm.Memory[0x300])
	assert.Equal(t, uint16(ProgramAddress), vm.PC)
	assert.Equal(t, [16]byte{}, vm.V)
	assert.Equal(t, uint16(0), vm.I)
	assert.Equal(t, byte(0), vm.Timers.Delay)
	assert.False(t, vm.Keys[3])
	assert.False(t, framebuffer(vm).Get(1, 1))
	assert.Equal(t, int64(0), vm.Cycles)
}

func TestKeys(t *testing.T) {
	vm := New()

	vm.PressKey(0xF)
	vm.PressKey(16)
	assert.True(t, vm.Keys[0xF])

	vm.ReleaseKey(0xF)
	vm.ReleaseKey(99)
	assert.False(t, vm.Keys[0xF])
}

func TestTick_SoundGate(t *testing.T) {
	vm := load(t, "LD V0, 2\nLD ST, V0")
	gate := &gateRecorder{}
	vm.Sound = gate

	step(t, vm, 2)
	assert.Equal(t, []string{"on"}, gate.events)

	vm.Tick()
	assert.Equal(t, []string{"on"}, gate.events)

	vm.Tick()
	assert.Equal(t, []string{"on", "off"}, gate.events)

	// nothing more once silent
	vm.Tick()
	assert.Equal(t, []string{"on", "off"}, gate.events)
}

func TestTick_ResetSilences(t *testing.T) {
	vm := New()
	gate := &gateRecorder{}
	vm.Sound = SoundGates{gate}

	vm.Timers.Sound = 10
	vm.Tick()
	vm.Reset()

	assert.Equal(t, []string{"on", "off"}, gate.events)
}

func TestSpan(t *testing.T) {
	vm := New()

	b, err := vm.span(MemorySize-2, 2)
	assert.NoError(t, err)
	assert.Len(t, b, 2)

	_, err = vm.span(MemorySize-1, 2)

	var oob *MemoryOutOfBoundsError
	assert.True(t, errors.As(err, &oob))
	assert.Equal(t, uint16(MemorySize-1), oob.Address)
	assert.Equal(t, 2, oob.Length)
}
