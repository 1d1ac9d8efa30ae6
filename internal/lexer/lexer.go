// Package lexer is a minimal scanner that turns UVM assembly source into
// the token.Token stream internal/parser consumes. The scanner is
// formally an external collaborator per spec.md §1 — this
// implementation exists only so the parser and type checker can be
// driven end-to-end in this module's tests; it is grounded on the
// teacher's rune-at-a-time reader (internal/ast/x86_64/lexer.go in the
// teacher repo) with peek/unread, generalized from x86 mnemonics to
// UVM's register names, @label definitions, and typed numeric operands.
package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"uvmasm/internal/token"
	"uvmasm/internal/uvm"
)

// Lexer scans UTF-8 source text into tokens.
type Lexer struct {
	r    *bufio.Reader
	pos  uint32
	line uint32
	col  uint32

	peekRune rune
	peekSize uint32
	havePeek bool
}

// New constructs a Lexer reading from r.
func New(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r), line: 1, col: 0}
}

func (lx *Lexer) read() (rune, uint32, bool) {
	if lx.havePeek {
		lx.havePeek = false
		lx.advance(lx.peekRune, lx.peekSize)
		return lx.peekRune, lx.peekSize, true
	}
	r, size, err := lx.r.ReadRune()
	if err != nil {
		return 0, 0, false
	}
	lx.advance(r, uint32(size))
	return r, uint32(size), true
}

func (lx *Lexer) advance(r rune, size uint32) {
	lx.pos += size
	if r == '\n' {
		lx.line++
		lx.col = 0
	} else {
		lx.col++
	}
}

func (lx *Lexer) unread(r rune, size uint32) {
	lx.havePeek = true
	lx.peekRune = r
	lx.peekSize = size
	lx.pos -= size
	if r == '\n' {
		lx.line--
	} else {
		lx.col--
	}
}

func (lx *Lexer) peek() (rune, uint32, bool) {
	r, size, ok := lx.read()
	if !ok {
		return 0, 0, false
	}
	lx.unread(r, size)
	return r, size, true
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Next returns the next token in the stream. Once EndOfFile has been
// returned it is returned again on every subsequent call, matching the
// parser's expectation that eat/peek clamp at EOF (spec.md §5).
func (lx *Lexer) Next() token.Token {
	for {
		startPos, startLine, startCol := lx.pos, lx.line, lx.col
		r, _, ok := lx.read()
		if !ok {
			return token.Token{Kind: token.EndOfFile, Index: lx.pos, Size: 0, LineRow: lx.line, LineCol: lx.col}
		}

		switch {
		case r == ' ' || r == '\t' || r == '\r':
			continue
		case r == '\n':
			return token.Token{Kind: token.Eol, Index: startPos, Size: 1, LineRow: startLine, LineCol: startCol}
		case r == '#':
			lx.skipLineComment()
			continue
		case r == '{':
			return lx.single(token.LeftCurly, startPos, startLine, startCol)
		case r == '}':
			return lx.single(token.RightCurly, startPos, startLine, startCol)
		case r == '[':
			return lx.single(token.LeftSquare, startPos, startLine, startCol)
		case r == ']':
			return lx.single(token.RightSquare, startPos, startLine, startCol)
		case r == '+':
			return lx.single(token.Plus, startPos, startLine, startCol)
		case r == '-':
			return lx.single(token.Minus, startPos, startLine, startCol)
		case r == '*':
			return lx.single(token.Asterisk, startPos, startLine, startCol)
		case r == ':':
			return lx.single(token.Colon, startPos, startLine, startCol)
		case r == ',':
			return lx.single(token.Comma, startPos, startLine, startCol)
		case r == '=':
			return lx.single(token.Equals, startPos, startLine, startCol)
		case r == '"':
			return lx.scanString(startPos, startLine, startCol)
		case r == '@':
			return lx.scanLabelDef(startPos, startLine, startCol)
		case unicode.IsDigit(r):
			return lx.scanNumber(r, startPos, startLine, startCol)
		case isIdentStart(r):
			return lx.scanIdent(r, startPos, startLine, startCol)
		default:
			return token.Token{Kind: token.Illegal, Index: startPos, Size: lx.pos - startPos, LineRow: startLine, LineCol: startCol}
		}
	}
}

func (lx *Lexer) single(k token.Kind, pos, line, col uint32) token.Token {
	return token.Token{Kind: k, Index: pos, Size: lx.pos - pos, LineRow: line, LineCol: col}
}

func (lx *Lexer) skipLineComment() {
	for {
		r, _, ok := lx.peek()
		if !ok || r == '\n' {
			return
		}
		lx.read()
	}
}

func (lx *Lexer) scanString(startPos, startLine, startCol uint32) token.Token {
	for {
		r, _, ok := lx.read()
		if !ok {
			break
		}
		if r == '\\' {
			lx.read() // skip escaped char, re-expanded later by the parser
			continue
		}
		if r == '"' {
			break
		}
	}
	return token.Token{Kind: token.String, Index: startPos, Size: lx.pos - startPos, LineRow: startLine, LineCol: startCol}
}

func (lx *Lexer) scanLabelDef(startPos, startLine, startCol uint32) token.Token {
	var sb strings.Builder
	for {
		r, size, ok := lx.peek()
		if !ok || !isIdentCont(r) {
			break
		}
		sb.WriteRune(r)
		lx.read()
		_ = size
	}
	return token.Token{Kind: token.LabelDef, Index: startPos, Size: lx.pos - startPos, LineRow: startLine, LineCol: startCol}
}

func (lx *Lexer) scanNumber(first rune, startPos, startLine, startCol uint32) token.Token {
	var sb strings.Builder
	sb.WriteRune(first)

	isFloat := false
	isHex := false
	if first == '0' {
		if r, _, ok := lx.peek(); ok && (r == 'x' || r == 'X') {
			sb.WriteRune(r)
			lx.read()
			isHex = true
		}
	}

	for {
		r, _, ok := lx.peek()
		if !ok {
			break
		}
		if isHex {
			if unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') {
				sb.WriteRune(r)
				lx.read()
				continue
			}
			break
		}
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
			lx.read()
			continue
		}
		if r == '.' && !isFloat {
			isFloat = true
			sb.WriteRune(r)
			lx.read()
			continue
		}
		break
	}

	kind := token.IntegerNumber
	if isFloat {
		kind = token.FloatNumber
	}
	return token.Token{Kind: kind, Index: startPos, Size: lx.pos - startPos, LineRow: startLine, LineCol: startCol}
}

var instructionMnemonics = map[string]bool{
	"nop": true, "push": true, "pop": true, "load": true, "loadf": true,
	"store": true, "storef": true, "copy": true, "copyf": true, "exit": true,
	"call": true, "ret": true, "sys": true, "lea": true, "add": true,
	"addf": true, "sub": true, "subf": true, "mul": true, "mulf": true,
	"muls": true, "div": true, "divf": true, "divs": true, "sqrt": true,
	"mod": true, "and": true, "or": true, "xor": true, "not": true,
	"lsh": true, "rsh": true, "srsh": true, "b2l": true, "s2l": true,
	"i2l": true, "b2sl": true, "s2sl": true, "i2sl": true, "f2d": true,
	"d2f": true, "i2f": true, "i2d": true, "f2i": true, "d2i": true,
	"cmp": true, "cmpf": true, "jmp": true, "je": true, "jne": true,
	"jgt": true, "jlt": true, "jge": true, "jle": true,
}

func (lx *Lexer) scanIdent(first rune, startPos, startLine, startCol uint32) token.Token {
	var sb strings.Builder
	sb.WriteRune(first)
	for {
		r, _, ok := lx.peek()
		if !ok || !isIdentCont(r) {
			break
		}
		sb.WriteRune(r)
		lx.read()
	}
	lit := sb.String()
	size := lx.pos - startPos

	if regID, ok := uvm.RegisterByName(lit); ok {
		return token.Token{Kind: token.RegisterDefinition, Index: startPos, Size: size, LineRow: startLine, LineCol: startCol, Tag: regID}
	}
	if typ, ok := uvm.TypeByName(lit); ok {
		return token.Token{Kind: token.TypeInfo, Index: startPos, Size: size, LineRow: startLine, LineCol: startCol, Tag: uint8(typ)}
	}
	if instructionMnemonics[lit] {
		return token.Token{Kind: token.Instruction, Index: startPos, Size: size, LineRow: startLine, LineCol: startCol}
	}
	return token.Token{Kind: token.Identifier, Index: startPos, Size: size, LineRow: startLine, LineCol: startCol}
}
