package chip8

import (
	"strconv"
)

/// Type for scanned tokens.
///
type tokenType uint

/// Lexical assembly tokens.
///
const (
	TOKEN_END tokenType = iota
	TOKEN_CHAR
	TOKEN_LABEL
	TOKEN_REF
	TOKEN_V
	TOKEN_I
	TOKEN_EA
	TOKEN_F
	TOKEN_B
	TOKEN_K
	TOKEN_DT
	TOKEN_ST
	TOKEN_LIT

	// only used when matching operands: a literal or a label reference
	TOKEN_ADDRESS
)

/// A parsed, lexical token.
///
type token struct {
	typ tokenType

	// tokens can have an optional value associated with them
	val interface{}
}

/// CHIP-8 assembler token scanner over a single, upper-cased line.
///
type tokenScanner struct {
	bytes []byte

	// scan position
	pos int
}

/// Reads the next token from a scanner. Returns the token.
///
func (s *tokenScanner) scanToken() token {
	for len(s.bytes) > s.pos && s.bytes[s.pos] < 33 {
		s.pos++
	}

	// end of line or start of a comment
	if len(s.bytes) <= s.pos || s.bytes[s.pos] == ';' {
		return token{typ: TOKEN_END}
	}

	// get the next character
	c := s.bytes[s.pos]

	switch {
	case c == ',':
		s.pos++
		return token{typ: TOKEN_CHAR, val: ','}
	case c == '[':
		return s.scanEffectiveAddress()
	case c == '#' || c == '$':
		s.pos++
		return s.scanNumber(16)
	case c == '%':
		s.pos++
		return s.scanNumber(2)
	case c >= '0' && c <= '9':
		if c == '0' && s.pos+1 < len(s.bytes) && s.bytes[s.pos+1] == 'X' {
			s.pos += 2
			return s.scanNumber(16)
		}
		return s.scanNumber(10)
	case isIdentStart(c):
		return s.scanIdentifier()
	}

	panic("unexpected character '" + string(c) + "'")
}

/// Scans "[I]".
///
func (s *tokenScanner) scanEffectiveAddress() token {
	if s.pos+3 > len(s.bytes) || string(s.bytes[s.pos:s.pos+3]) != "[I]" {
		panic("expected [I]")
	}

	s.pos += 3

	return token{typ: TOKEN_EA}
}

/// Scans a literal in the given base.
///
func (s *tokenScanner) scanNumber(base int) token {
	start := s.pos

	for s.pos < len(s.bytes) && isDigit(s.bytes[s.pos], base) {
		s.pos++
	}

	if start == s.pos {
		panic("expected number")
	}

	n, err := strconv.ParseUint(string(s.bytes[start:s.pos]), base, 16)
	if err != nil {
		panic("literal out of range")
	}

	return token{typ: TOKEN_LIT, val: int(n)}
}

/// Scans a label, register, keyword or label reference.
///
func (s *tokenScanner) scanIdentifier() token {
	start := s.pos

	for s.pos < len(s.bytes) && isIdent(s.bytes[s.pos]) {
		s.pos++
	}

	id := string(s.bytes[start:s.pos])

	// label declaration
	if s.pos < len(s.bytes) && s.bytes[s.pos] == ':' {
		s.pos++
		return token{typ: TOKEN_LABEL, val: id}
	}

	// v-register
	if len(id) == 2 && id[0] == 'V' && isDigit(id[1], 16) {
		n, _ := strconv.ParseUint(id[1:], 16, 8)
		return token{typ: TOKEN_V, val: int(n)}
	}

	switch id {
	case "I":
		return token{typ: TOKEN_I}
	case "F":
		return token{typ: TOKEN_F}
	case "B":
		return token{typ: TOKEN_B}
	case "K":
		return token{typ: TOKEN_K}
	case "DT":
		return token{typ: TOKEN_DT}
	case "ST":
		return token{typ: TOKEN_ST}
	}

	return token{typ: TOKEN_REF, val: id}
}

/// Scans a comma separated operand list up to the end of the line.
///
func (s *tokenScanner) scanOperands() []token {
	tokens := make([]token, 0, 3)

	for {
		t := s.scanToken()
		if t.typ == TOKEN_END {
			if len(tokens) > 0 {
				panic("expected operand after ','")
			}
			return tokens
		}

		tokens = append(tokens, t)

		switch sep := s.scanToken(); sep.typ {
		case TOKEN_END:
			return tokens
		case TOKEN_CHAR:
		default:
			panic("expected ','")
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '.' || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte, base int) bool {
	switch base {
	case 2:
		return c == '0' || c == '1'
	case 10:
		return c >= '0' && c <= '9'
	}

	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
}
