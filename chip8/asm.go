/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at 0x200.
	///
	ROM []byte

	/// Label mapping to absolute addresses.
	///
	Labels map[string]int

	/// ROM offsets with unresolved label references.
	///
	Unresolved map[int]string
}

/// Assemble an input CHIP-8 source file.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	// create an empty, return assembly
	out = &Assembly{
		ROM:        make([]byte, 0, MaxProgramSize),
		Labels:     make(map[string]int),
		Unresolved: make(map[int]string),
	}

	// the assembler panics on the first error, turn it into an error
	defer func() {
		if r := recover(); r != nil {
			if line > 0 {
				err = fmt.Errorf("line %d - %v", line, r)
			} else {
				err = fmt.Errorf("%v", r)
			}

			out = nil
		}
	}()

	// create simple line scanner over the file
	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(program)))

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// done with line numbers, any errors from here on are global
	line = 0

	out.resolve()

	return out, nil
}

/// Assemble a single line.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	if t.typ == TOKEN_LABEL {
		a.assembleLabel(t.val.(string))

		// labels may share a line with an instruction
		t = s.scanToken()
	}

	switch t.typ {
	case TOKEN_END:
		return
	case TOKEN_REF:
		a.assembleInstruction(t.val.(string), s.scanOperands())
	default:
		panic("expected instruction")
	}
}

/// Declare a label at the current address.
///
func (a *Assembly) assembleLabel(label string) {
	if _, ok := a.Labels[label]; ok {
		panic("duplicate label " + label)
	}

	a.Labels[label] = ProgramAddress + len(a.ROM)
}

/// Patch every label reference into the ROM.
///
func (a *Assembly) resolve() {
	offsets := make([]int, 0, len(a.Unresolved))
	for offset := range a.Unresolved {
		offsets = append(offsets, offset)
	}

	// report the first missing label in ROM order
	sort.Ints(offsets)

	for _, offset := range offsets {
		label := a.Unresolved[offset]

		address, ok := a.Labels[label]
		if !ok {
			panic("unresolved label " + label)
		}

		// all label addresses fit in 12 bits, so the high nibble of the
		// first byte is the opcode and is left alone
		a.ROM[offset] = byte(address>>8) | (a.ROM[offset] & 0xF0)
		a.ROM[offset+1] = byte(address & 0xFF)

		delete(a.Unresolved, offset)
	}
}

/// Assemble a single instruction or directive.
///
func (a *Assembly) assembleInstruction(i string, tokens []token) {
	switch i {
	case "CLS":
		a.assembleFixed(tokens, 0x00E0)
	case "RET":
		a.assembleFixed(tokens, 0x00EE)
	case "JP":
		a.assembleJP(tokens)
	case "CALL":
		a.assembleCALL(tokens)
	case "SE":
		a.assembleSkip(tokens, 0x3000, 0x5000)
	case "SNE":
		a.assembleSkip(tokens, 0x4000, 0x9000)
	case "LD":
		a.assembleLD(tokens)
	case "ADD":
		a.assembleADD(tokens)
	case "OR":
		a.assembleXY(tokens, 0x8001)
	case "AND":
		a.assembleXY(tokens, 0x8002)
	case "XOR":
		a.assembleXY(tokens, 0x8003)
	case "SUB":
		a.assembleXY(tokens, 0x8005)
	case "SUBN":
		a.assembleXY(tokens, 0x8007)
	case "SHR":
		a.assembleShift(tokens, 0x8006)
	case "SHL":
		a.assembleShift(tokens, 0x800E)
	case "RND":
		a.assembleRND(tokens)
	case "DRW":
		a.assembleDRW(tokens)
	case "SKP":
		a.assembleX(tokens, 0xE09E)
	case "SKNP":
		a.assembleX(tokens, 0xE0A1)
	case "BYTE":
		a.assembleBYTE(tokens)
	case "WORD":
		a.assembleWORD(tokens)
	default:
		panic("unknown instruction " + i)
	}
}

/// Match operands against a list of token types.
///
func match(tokens []token, m ...tokenType) bool {
	if len(tokens) != len(m) {
		return false
	}

	for i, t := range tokens {
		if m[i] == TOKEN_ADDRESS {
			if t.typ != TOKEN_LIT && t.typ != TOKEN_REF {
				return false
			}
		} else if t.typ != m[i] {
			return false
		}
	}

	return true
}

/// Append a 16-bit word to the ROM.
///
func (a *Assembly) emit(w int) {
	if len(a.ROM)+2 > MaxProgramSize {
		panic("program too large")
	}

	a.ROM = append(a.ROM, byte(w>>8), byte(w&0xFF))
}

/// Resolve an address operand, deferring unknown labels.
///
func (a *Assembly) address(t token) int {
	if t.typ == TOKEN_LIT {
		return literal(t, 0xFFF)
	}

	label := t.val.(string)

	if address, ok := a.Labels[label]; ok {
		return address
	}

	// patched after the whole file is assembled
	a.Unresolved[len(a.ROM)] = label

	return 0
}

/// Get a literal value, panicking when larger than max.
///
func literal(t token, max int) int {
	n := t.val.(int)
	if n > max {
		panic(fmt.Sprintf("literal #%X out of range", n))
	}

	return n
}

func reg(t token) int {
	return t.val.(int)
}

func (a *Assembly) assembleFixed(tokens []token, w int) {
	if !match(tokens) {
		panic("unexpected operands")
	}

	a.emit(w)
}

func (a *Assembly) assembleJP(tokens []token) {
	if match(tokens, TOKEN_ADDRESS) {
		a.emit(0x1000 | a.address(tokens[0]))
	} else if match(tokens, TOKEN_V, TOKEN_ADDRESS) && reg(tokens[0]) == 0 {
		a.emit(0xB000 | a.address(tokens[1]))
	} else {
		panic("illegal instruction")
	}
}

func (a *Assembly) assembleCALL(tokens []token) {
	if !match(tokens, TOKEN_ADDRESS) {
		panic("illegal instruction")
	}

	a.emit(0x2000 | a.address(tokens[0]))
}

func (a *Assembly) assembleSkip(tokens []token, byteOp, regOp int) {
	if match(tokens, TOKEN_V, TOKEN_LIT) {
		a.emit(byteOp | reg(tokens[0])<<8 | literal(tokens[1], 0xFF))
	} else if match(tokens, TOKEN_V, TOKEN_V) {
		a.emit(regOp | reg(tokens[0])<<8 | reg(tokens[1])<<4)
	} else {
		panic("illegal instruction")
	}
}

func (a *Assembly) assembleLD(tokens []token) {
	switch {
	case match(tokens, TOKEN_V, TOKEN_LIT):
		a.emit(0x6000 | reg(tokens[0])<<8 | literal(tokens[1], 0xFF))
	case match(tokens, TOKEN_V, TOKEN_V):
		a.emit(0x8000 | reg(tokens[0])<<8 | reg(tokens[1])<<4)
	case match(tokens, TOKEN_I, TOKEN_ADDRESS):
		a.emit(0xA000 | a.address(tokens[1]))
	case match(tokens, TOKEN_V, TOKEN_DT):
		a.emit(0xF007 | reg(tokens[0])<<8)
	case match(tokens, TOKEN_V, TOKEN_K):
		a.emit(0xF00A | reg(tokens[0])<<8)
	case match(tokens, TOKEN_DT, TOKEN_V):
		a.emit(0xF015 | reg(tokens[1])<<8)
	case match(tokens, TOKEN_ST, TOKEN_V):
		a.emit(0xF018 | reg(tokens[1])<<8)
	case match(tokens, TOKEN_F, TOKEN_V):
		a.emit(0xF029 | reg(tokens[1])<<8)
	case match(tokens, TOKEN_B, TOKEN_V):
		a.emit(0xF033 | reg(tokens[1])<<8)
	case match(tokens, TOKEN_EA, TOKEN_V):
		a.emit(0xF055 | reg(tokens[1])<<8)
	case match(tokens, TOKEN_V, TOKEN_EA):
		a.emit(0xF065 | reg(tokens[0])<<8)
	default:
		panic("illegal instruction")
	}
}

func (a *Assembly) assembleADD(tokens []token) {
	switch {
	case match(tokens, TOKEN_V, TOKEN_LIT):
		a.emit(0x7000 | reg(tokens[0])<<8 | literal(tokens[1], 0xFF))
	case match(tokens, TOKEN_V, TOKEN_V):
		a.emit(0x8004 | reg(tokens[0])<<8 | reg(tokens[1])<<4)
	case match(tokens, TOKEN_I, TOKEN_V):
		a.emit(0xF01E | reg(tokens[1])<<8)
	default:
		panic("illegal instruction")
	}
}

func (a *Assembly) assembleXY(tokens []token, w int) {
	if !match(tokens, TOKEN_V, TOKEN_V) {
		panic("illegal instruction")
	}

	a.emit(w | reg(tokens[0])<<8 | reg(tokens[1])<<4)
}

/// SHR/SHL take an optional source register, defaulting to the target.
///
func (a *Assembly) assembleShift(tokens []token, w int) {
	if match(tokens, TOKEN_V) {
		a.emit(w | reg(tokens[0])<<8 | reg(tokens[0])<<4)
	} else {
		a.assembleXY(tokens, w)
	}
}

func (a *Assembly) assembleX(tokens []token, w int) {
	if !match(tokens, TOKEN_V) {
		panic("illegal instruction")
	}

	a.emit(w | reg(tokens[0])<<8)
}

func (a *Assembly) assembleRND(tokens []token) {
	if !match(tokens, TOKEN_V, TOKEN_LIT) {
		panic("illegal instruction")
	}

	a.emit(0xC000 | reg(tokens[0])<<8 | literal(tokens[1], 0xFF))
}

func (a *Assembly) assembleDRW(tokens []token) {
	if !match(tokens, TOKEN_V, TOKEN_V, TOKEN_LIT) {
		panic("illegal instruction")
	}

	a.emit(0xD000 | reg(tokens[0])<<8 | reg(tokens[1])<<4 | literal(tokens[2], 0xF))
}

/// Write raw bytes.
///
func (a *Assembly) assembleBYTE(tokens []token) {
	if len(tokens) == 0 {
		panic("expected bytes")
	}

	for _, t := range tokens {
		if t.typ != TOKEN_LIT {
			panic("illegal byte")
		}

		if len(a.ROM)+1 > MaxProgramSize {
			panic("program too large")
		}

		a.ROM = append(a.ROM, byte(literal(t, 0xFF)))
	}
}

/// Write raw 16-bit words, which may be label addresses.
///
func (a *Assembly) assembleWORD(tokens []token) {
	if len(tokens) == 0 {
		panic("expected words")
	}

	for _, t := range tokens {
		switch t.typ {
		case TOKEN_LIT:
			a.emit(literal(t, 0xFFFF))
		case TOKEN_REF:
			a.emit(a.address(t))
		default:
			panic("illegal word")
		}
	}
}
