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
	"fmt"
	"strconv"
	"strings"
)

type tokenType uint

const (
	tokenEnd tokenType = iota
	tokenChar
	tokenLabel
	tokenRef
	tokenInstruction
	tokenEqu
	tokenAddress
	tokenOperand
	tokenV
	tokenI
	tokenF
	tokenB
	tokenK
	tokenDT
	tokenST
	tokenLit
	tokenText
)

/// A lexical token and its optional value: a register number, literal,
/// name or nested operand token.
///
type token struct {
	typ tokenType
	val any
}

/// tokenScanner splits a single upper case source line into tokens.
///
type tokenScanner struct {
	bytes []byte
	pos   int
}

/// mnemonics are the instructions and directives the assembler knows.
///
var mnemonics = map[string]bool{
	"CLS": true, "RET": true, "JP": true, "CALL": true, "SE": true,
	"SNE": true, "LD": true, "ADD": true, "OR": true, "AND": true,
	"XOR": true, "SUB": true, "SUBN": true, "SHR": true, "SHL": true,
	"RND": true, "DRW": true, "SKP": true, "SKNP": true,
	"BYTE": true, "WORD": true, "ALIGN": true, "PAD": true,
}

/// keywords are the special operands, EQU included.
///
var keywords = map[string]tokenType{
	"I":   tokenI,
	"F":   tokenF,
	"B":   tokenB,
	"K":   tokenK,
	"DT":  tokenDT,
	"ST":  tokenST,
	"EQU": tokenEqu,
}

func isIdentStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'A' && c <= 'F')
}

func isBinDigit(c byte) bool {
	return c == '0' || c == '1' || c == '.'
}

func (s *tokenScanner) done() bool {
	return s.pos >= len(s.bytes)
}

/// scanWhile advances past every byte matching ok and returns them.
///
func (s *tokenScanner) scanWhile(ok func(byte) bool) string {
	start := s.pos

	for !s.done() && ok(s.bytes[s.pos]) {
		s.pos++
	}

	return string(s.bytes[start:s.pos])
}

/// scanToken returns the next token on the line, or tokenEnd.
///
func (s *tokenScanner) scanToken() token {
	s.scanWhile(func(c byte) bool { return c <= ' ' })

	if s.done() {
		return token{typ: tokenEnd}
	}

	switch c := s.bytes[s.pos]; {
	case c == ';':
		s.pos = len(s.bytes)
		return token{typ: tokenEnd}
	case c == '.':
		return s.scanLabel()
	case c == '[':
		return s.scanIndirection()
	case c == ',':
		return s.scanOperand()
	case c == '#':
		s.pos++
		return s.scanLit("#", s.scanWhile(isHexDigit), 16)
	case c == '$':
		s.pos++
		return s.scanLit("$", strings.ReplaceAll(s.scanWhile(isBinDigit), ".", "0"), 2)
	case c == '-':
		s.pos++
		return s.scanLit("", "-"+s.scanWhile(isDigit), 10)
	case isDigit(c):
		return s.scanLit("", s.scanWhile(isDigit), 10)
	case isIdentStart(c):
		return s.scanIdentifier()
	case c == '"' || c == '\'':
		return s.scanString(c)
	}

	s.pos++

	return token{typ: tokenChar, val: s.bytes[s.pos-1]}
}

/// scanOperands reads a comma separated operand list up to the end of
/// the line.
///
func (s *tokenScanner) scanOperands() []token {
	var tokens []token

	t := s.scanToken()
	if t.typ == tokenEnd {
		return tokens
	}

	for {
		tokens = append(tokens, t)

		switch next := s.scanToken(); next.typ {
		case tokenEnd:
			return tokens
		case tokenOperand:
			t = next.val.(token)
		default:
			panic("unexpected token")
		}
	}
}

/// scanOperand wraps the token after a comma.
///
func (s *tokenScanner) scanOperand() token {
	s.pos++

	t := s.scanToken()
	if t.typ == tokenEnd {
		panic("expected operand")
	}

	return token{typ: tokenOperand, val: t}
}

func (s *tokenScanner) scanLabel() token {
	s.pos++

	if s.done() || !isIdentStart(s.bytes[s.pos]) {
		panic("expected label")
	}

	t := s.scanIdentifier()
	if t.typ != tokenRef {
		panic("expected label")
	}

	return token{typ: tokenLabel, val: t.val}
}

/// scanIdentifier classifies a word as a register, keyword, mnemonic or
/// label reference.
///
func (s *tokenScanner) scanIdentifier() token {
	id := s.scanWhile(isIdent)

	if len(id) == 2 && id[0] == 'V' && isHexDigit(id[1]) {
		n, _ := strconv.ParseUint(id[1:], 16, 8)
		return token{typ: tokenV, val: int(n)}
	}

	if typ, ok := keywords[id]; ok {
		return token{typ: typ}
	}

	if mnemonics[id] {
		return token{typ: tokenInstruction, val: id}
	}

	return token{typ: tokenRef, val: id}
}

/// scanIndirection reads [I], the only indirect operand.
///
func (s *tokenScanner) scanIndirection() token {
	s.pos++

	if t := s.scanToken(); t.typ != tokenI {
		panic("illegal indirection")
	}

	if t := s.scanToken(); t.typ != tokenChar || t.val.(byte) != ']' {
		panic("illegal indirection")
	}

	return token{typ: tokenAddress}
}

/// scanLit parses digits already consumed in the given base.
///
func (s *tokenScanner) scanLit(prefix, digits string, base int) token {
	n, err := strconv.ParseInt(digits, base, 32)
	if err != nil {
		panic(fmt.Errorf("illegal literal: %s%s", prefix, digits))
	}

	return token{typ: tokenLit, val: int(n)}
}

/// scanString reads text up to the matching quote.
///
func (s *tokenScanner) scanString(quote byte) token {
	s.pos++

	text := s.scanWhile(func(c byte) bool { return c != quote })
	if s.done() {
		panic("unterminated string")
	}

	// closing quote
	s.pos++

	return token{typ: tokenText, val: text}
}
