package chip8

import (
	"fmt"
	"os"
)

const (
	/// MemorySize is the size of the CHIP-8 address space.
	///
	MemorySize = 0x1000

	/// FontAddress is where the 16 hex digit sprites are stored.
	///
	FontAddress = 0x50

	/// ProgramAddress is where programs are loaded and begin executing.
	///
	ProgramAddress = 0x200

	/// MaxProgramSize is the largest ROM that fits in program space.
	///
	MaxProgramSize = MemorySize - ProgramAddress

	/// StackSize is how many return addresses CALL can nest.
	///
	StackSize = 32

	/// VF doubles as the carry, borrow and collision flag.
	///
	VF = 0xF
)

/// Font sprites for the hex digits 0-F, 5 bytes each.
///
var Font = [16 * 5]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

/// CHIP_8 virtual machine emulator.
///
type CHIP_8 struct {
	/// ROM is the pristine memory image (font and program) that Memory
	/// is restored from on Reset.
	///
	ROM [MemorySize]byte

	/// Memory addressable by CHIP-8. The font lives at 0x50, programs
	/// at 0x200.
	///
	Memory [MemorySize]byte

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// SP is the number of return addresses on the stack.
	///
	SP uint

	/// Stack of return addresses pushed by CALL.
	///
	Stack [StackSize]uint16

	/// I is the address register. It is never wrapped to the 4K address
	/// space; accesses through it are bounds checked instead.
	///
	I uint16

	/// V are the 16 virtual registers.
	///
	V [16]byte

	/// Timers are the delay and sound timers, ticked at 60 Hz.
	///
	Timers Timers

	/// Keys hold the current state for the 16-key pad keys.
	///
	Keys [16]bool

	/// Cycles is how many instructions have been executed since Reset.
	///
	Cycles int64

	/// Random source for RND.
	///
	Random *Random

	/// Display written by CLS and DRW.
	///
	Display Display

	/// Sound is switched on and off as the sound timer crosses zero. It
	/// may be nil.
	///
	Sound SoundGate

	// last sound state handed to the gate
	sounding bool
}

/// New creates a CHIP-8 virtual machine with the font loaded, an empty
/// program, a Framebuffer display and a fixed random seed.
///
func New() *CHIP_8 {
	vm := &CHIP_8{
		Display: &Framebuffer{},
		Random:  NewRandom(DefaultSeed),
	}

	copy(vm.ROM[FontAddress:], Font[:])

	vm.Reset()

	return vm
}

/// LoadROM returns a new CHIP-8 virtual machine running program.
///
func LoadROM(program []byte) (*CHIP_8, error) {
	vm := New()

	if err := vm.Load(program); err != nil {
		return nil, err
	}

	return vm, nil
}

/// LoadFile reads a ROM file and returns a new CHIP-8 virtual machine.
///
func LoadFile(file string) (*CHIP_8, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}

	return LoadROM(program)
}

/// Load replaces the program in the ROM image and resets the machine.
///
func (vm *CHIP_8) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return &ProgramTooLargeError{Size: len(program)}
	}

	// clear out any previous program
	for i := ProgramAddress; i < MemorySize; i++ {
		vm.ROM[i] = 0
	}

	copy(vm.ROM[ProgramAddress:], program)

	vm.Reset()

	return nil
}

/// Reset the CHIP-8 virtual machine memory and registers.
///
func (vm *CHIP_8) Reset() {
	vm.Memory = vm.ROM

	vm.PC = ProgramAddress
	vm.SP = 0
	vm.Stack = [StackSize]uint16{}
	vm.I = 0
	vm.V = [16]byte{}
	vm.Timers = Timers{}
	vm.Keys = [16]bool{}
	vm.Cycles = 0

	if vm.Display != nil {
		vm.Display.Clear()
	}

	vm.updateSound()
}

/// PressKey emulates a CHIP-8 key being pressed.
///
func (vm *CHIP_8) PressKey(key uint) {
	if key < 16 {
		vm.Keys[key] = true
	}
}

/// ReleaseKey emulates a CHIP-8 key being released.
///
func (vm *CHIP_8) ReleaseKey(key uint) {
	if key < 16 {
		vm.Keys[key] = false
	}
}

/// Tick advances the timers by one 1/60 s period and switches the sound
/// gate when the sound timer reaches zero.
///
func (vm *CHIP_8) Tick() {
	vm.Timers.Tick()
	vm.updateSound()
}

func (vm *CHIP_8) updateSound() {
	on := vm.Timers.SoundActive()
	if on == vm.sounding {
		return
	}

	vm.sounding = on

	if vm.Sound == nil {
		return
	}

	if on {
		vm.Sound.Enable()
	} else {
		vm.Sound.Disable()
	}
}

/// span returns n bytes of memory at address, or an error if any of them
/// fall outside the address space.
///
func (vm *CHIP_8) span(address uint16, n int) ([]byte, error) {
	end := int(address) + n
	if end > MemorySize {
		return nil, &MemoryOutOfBoundsError{Address: address, Length: n}
	}

	return vm.Memory[address:end], nil
}
