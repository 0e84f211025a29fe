package chip8

import "errors"

// errUnknown is turned into an UnknownOpcodeError by Step.
var errUnknown = errors.New("unknown opcode")

/// Step the CHIP-8 virtual machine a single instruction.
///
/// The program counter is advanced past the instruction before it is
/// executed. If the instruction fails, nothing else about the machine has
/// changed, so the caller may choose to carry on with the next one.
///
func (vm *CHIP_8) Step() error {
	address := vm.PC

	// fetch the next instruction
	inst, err := vm.fetch()
	if err != nil {
		return err
	}

	if err := vm.execute(inst); err != nil {
		if errors.Is(err, errUnknown) {
			return &UnknownOpcodeError{Address: address, Instruction: inst}
		}

		return err
	}

	// increment the cycle count
	vm.Cycles++

	return nil
}

/// Fetch the next 2-byte instruction and advance the program counter.
///
func (vm *CHIP_8) fetch() (Instruction, error) {
	b, err := vm.span(vm.PC, 2)
	if err != nil {
		return Instruction{}, err
	}

	vm.PC += 2

	return Instruction{b[0], b[1]}, nil
}

/// Dispatch on the opcode group, then on the sub-opcode for groups that
/// hold more than one instruction.
///
func (vm *CHIP_8) execute(inst Instruction) error {
	x, y := inst.X(), inst.Y()
	nn, nnn := inst.NN(), inst.NNN()

	switch inst.Group() {
	case 0x00:
		switch inst.Word() {
		case 0x00E0:
			vm.cls()
		case 0x00EE:
			return vm.ret()
		default:
			return errUnknown
		}
	case 0x10:
		vm.jump(nnn)
	case 0x20:
		return vm.call(nnn)
	case 0x30:
		vm.skipIf(x, nn)
	case 0x40:
		vm.skipIfNot(x, nn)
	case 0x50:
		if inst.N() != 0 {
			return errUnknown
		}
		vm.skipIfXY(x, y)
	case 0x60:
		vm.loadX(x, nn)
	case 0x70:
		vm.addX(x, nn)
	case 0x80:
		return vm.alu(inst)
	case 0x90:
		if inst.N() != 0 {
			return errUnknown
		}
		vm.skipIfNotXY(x, y)
	case 0xA0:
		vm.loadI(nnn)
	case 0xB0:
		vm.jumpV0(nnn)
	case 0xC0:
		vm.rnd(x, nn)
	case 0xD0:
		return vm.drw(x, y, inst.N())
	case 0xE0:
		switch nn {
		case 0x9E:
			vm.skipIfPressed(x)
		case 0xA1:
			vm.skipIfNotPressed(x)
		default:
			return errUnknown
		}
	case 0xF0:
		return vm.misc(inst)
	}

	return nil
}

/// 8XYN register to register operations.
///
func (vm *CHIP_8) alu(inst Instruction) error {
	x, y := inst.X(), inst.Y()

	switch inst.N() {
	case 0x0:
		vm.loadXY(x, y)
	case 0x1:
		vm.or(x, y)
	case 0x2:
		vm.and(x, y)
	case 0x3:
		vm.xor(x, y)
	case 0x4:
		vm.addXY(x, y)
	case 0x5:
		vm.subXY(x, y)
	case 0x6:
		vm.shr(x, y)
	case 0x7:
		vm.subYX(x, y)
	case 0xE:
		vm.shl(x, y)
	default:
		return errUnknown
	}

	return nil
}

/// FXNN timer, keypad and memory operations.
///
func (vm *CHIP_8) misc(inst Instruction) error {
	x := inst.X()

	switch inst.NN() {
	case 0x07:
		vm.loadXDT(x)
	case 0x0A:
		vm.loadXK(x)
	case 0x15:
		vm.loadDTX(x)
	case 0x18:
		vm.loadSTX(x)
	case 0x1E:
		vm.addIX(x)
	case 0x29:
		vm.loadF(x)
	case 0x33:
		return vm.loadB(x)
	case 0x55:
		return vm.saveRegs(x)
	case 0x65:
		return vm.loadRegs(x)
	default:
		return errUnknown
	}

	return nil
}

/// Clear the display.
///
func (vm *CHIP_8) cls() {
	vm.Display.Clear()
}

/// return from subroutine.
///
func (vm *CHIP_8) ret() error {
	if vm.SP == 0 {
		return ErrStackUnderflow
	}

	vm.SP--
	vm.PC = vm.Stack[vm.SP]

	return nil
}

/// call a subroutine at address.
///
func (vm *CHIP_8) call(address uint16) error {
	if vm.SP >= StackSize {
		return ErrStackOverflow
	}

	vm.Stack[vm.SP] = vm.PC
	vm.SP++

	vm.PC = address

	return nil
}

/// jump to address.
///
func (vm *CHIP_8) jump(address uint16) {
	vm.PC = address
}

/// jump to address + v0.
///
func (vm *CHIP_8) jumpV0(address uint16) {
	vm.PC = address + uint16(vm.V[0])
}

/// skip next instruction if vx == n.
///
func (vm *CHIP_8) skipIf(x, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

/// skip next instruction if vx != n.
///
func (vm *CHIP_8) skipIfNot(x, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

/// skip next instruction if vx == vy.
///
func (vm *CHIP_8) skipIfXY(x, y byte) {
	if vm.V[x] == vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if vx != vy.
///
func (vm *CHIP_8) skipIfNotXY(x, y byte) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is pressed.
///
func (vm *CHIP_8) skipIfPressed(x byte) {
	if vm.pressed(vm.V[x]) {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is not pressed.
///
func (vm *CHIP_8) skipIfNotPressed(x byte) {
	if !vm.pressed(vm.V[x]) {
		vm.PC += 2
	}
}

// keys past F do not exist and are never down
func (vm *CHIP_8) pressed(key byte) bool {
	return key < 16 && vm.Keys[key]
}

/// load n into vx.
///
func (vm *CHIP_8) loadX(x, b byte) {
	vm.V[x] = b
}

/// load y into vx.
///
func (vm *CHIP_8) loadXY(x, y byte) {
	vm.V[x] = vm.V[y]
}

/// load delay timer into vx.
///
func (vm *CHIP_8) loadXDT(x byte) {
	vm.V[x] = vm.Timers.Delay
}

/// load vx into delay timer.
///
func (vm *CHIP_8) loadDTX(x byte) {
	vm.Timers.Delay = vm.V[x]
}

/// load vx into sound timer.
///
func (vm *CHIP_8) loadSTX(x byte) {
	vm.Timers.Sound = vm.V[x]
	vm.updateSound()
}

/// load vx with next key hit.
///
/// This does not block. With no key down the program counter is moved
/// back onto this instruction so it runs again on the next step, which
/// polls the keypad until a key is found.
///
func (vm *CHIP_8) loadXK(x byte) {
	for k, down := range vm.Keys {
		if down {
			vm.V[x] = byte(k)
			return
		}
	}

	vm.PC -= 2
}

/// load address register.
///
func (vm *CHIP_8) loadI(address uint16) {
	vm.I = address
}

/// load address with BCD of vx.
///
func (vm *CHIP_8) loadB(x byte) error {
	mem, err := vm.span(vm.I, 3)
	if err != nil {
		return err
	}

	n := uint16(vm.V[x])
	b := uint16(0)

	// double dabble, one shift per bit
	for i := uint(0); i < 8; i++ {
		if (b>>0)&0xF >= 5 {
			b += 3
		}
		if (b>>4)&0xF >= 5 {
			b += 3 << 4
		}
		if (b>>8)&0xF >= 5 {
			b += 3 << 8
		}

		// apply shift, pull next bit
		b = (b << 1) | (n >> (7 - i) & 1)
	}

	mem[0] = byte(b>>8) & 0xF
	mem[1] = byte(b>>4) & 0xF
	mem[2] = byte(b>>0) & 0xF

	return nil
}

/// load font sprite for vx into I.
///
func (vm *CHIP_8) loadF(x byte) {
	vm.I = FontAddress + 5*uint16(vm.V[x])
}

/// or vx with vy into vx.
///
func (vm *CHIP_8) or(x, y byte) {
	vm.V[x] |= vm.V[y]
}

/// and vx with vy into vx.
///
func (vm *CHIP_8) and(x, y byte) {
	vm.V[x] &= vm.V[y]
}

/// xor vx with vy into vx.
///
func (vm *CHIP_8) xor(x, y byte) {
	vm.V[x] ^= vm.V[y]
}

/// shl vy 1 bit into vx, set carry to MSB of vy.
///
func (vm *CHIP_8) shl(x, y byte) {
	vm.V[x] = vm.V[y]

	out := vm.V[x] >> 7
	vm.V[x] <<= 1

	vm.V[VF] = out
}

/// shr vy 1 bit into vx, set carry to LSB of vy.
///
func (vm *CHIP_8) shr(x, y byte) {
	vm.V[x] = vm.V[y]

	out := vm.V[x] & 1
	vm.V[x] >>= 1

	vm.V[VF] = out
}

/// add n to vx, no carry.
///
func (vm *CHIP_8) addX(x, b byte) {
	vm.V[x] += b
}

/// add vy to vx and set carry.
///
func (vm *CHIP_8) addXY(x, y byte) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[x] = byte(sum)
	vm.V[VF] = byte(sum >> 8)
}

/// add vx to i, wrapping at 16 bits.
///
func (vm *CHIP_8) addIX(x byte) {
	vm.I += uint16(vm.V[x])
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *CHIP_8) subXY(x, y byte) {
	carry := carryIf(vm.V[x] >= vm.V[y])

	vm.V[x] -= vm.V[y]
	vm.V[VF] = carry
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (vm *CHIP_8) subYX(x, y byte) {
	carry := carryIf(vm.V[y] >= vm.V[x])

	vm.V[x] = vm.V[y] - vm.V[x]
	vm.V[VF] = carry
}

func carryIf(c bool) byte {
	if c {
		return 1
	}

	return 0
}

/// load a random number & n into vx.
///
func (vm *CHIP_8) rnd(x, b byte) {
	vm.V[x] = b & vm.Random.Next()
}

/// draw a sprite at I to the display at vx, vy.
///
/// The origin wraps to the display, but the sprite itself is clipped at
/// the right and bottom edges rather than wrapped.
///
func (vm *CHIP_8) drw(x, y, n byte) error {
	sprite, err := vm.span(vm.I, int(n))
	if err != nil {
		return err
	}

	ox := int(vm.V[x]) % Width
	oy := int(vm.V[y]) % Height

	collision := false

	for row, s := range sprite {
		py := oy + row
		if py >= Height {
			break
		}

		for bit := 0; bit < 8; bit++ {
			px := ox + bit
			if px >= Width {
				break
			}

			if s&(0x80>>uint(bit)) == 0 {
				continue
			}

			if vm.Display.Get(px, py) {
				vm.Display.Set(px, py, false)
				collision = true
			} else {
				vm.Display.Set(px, py, true)
			}
		}
	}

	vm.V[VF] = carryIf(collision)

	return nil
}

/// save registers v0..vx to I.
///
func (vm *CHIP_8) saveRegs(x byte) error {
	mem, err := vm.span(vm.I, int(x)+1)
	if err != nil {
		return err
	}

	copy(mem, vm.V[:x+1])

	return nil
}

/// load registers v0..vx from I.
///
func (vm *CHIP_8) loadRegs(x byte) error {
	mem, err := vm.span(vm.I, int(x)+1)
	if err != nil {
		return err
	}

	copy(vm.V[:x+1], mem)

	return nil
}
