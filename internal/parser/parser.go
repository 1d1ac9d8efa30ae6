// Package parser is the recursive-descent front half of the pipeline:
// it consumes a token stream and the source.View it was scanned from
// and builds an ast.FileRoot, or fails at the first unexpected token.
// The cursor discipline (next/backup/expect over a one-token lookahead)
// is grounded on the teacher's x86 parser
// (internal/ast/x86_64/parser.go), generalized from NASM-style lines to
// the section/var_decl/instr grammar the UVM dialect uses.
package parser

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"uvmasm/internal/ast"
	"uvmasm/internal/diag"
	"uvmasm/internal/source"
	"uvmasm/internal/token"
	"uvmasm/internal/uvm"
)

// TokenSource is the narrow contract the parser needs from a scanner:
// an unbounded stream of tokens, idempotent past EndOfFile.
type TokenSource interface {
	Next() token.Token
}

// Parser holds a one-token lookahead cursor over a TokenSource.
type Parser struct {
	lx   TokenSource
	view *source.View

	peek token.Token
	have bool
}

// New constructs a Parser reading tokens from lx against view (used for
// literal text extraction and diagnostics).
func New(lx TokenSource, view *source.View) *Parser {
	return &Parser{lx: lx, view: view}
}

func (p *Parser) next() token.Token {
	if p.have {
		p.have = false
		return p.peek
	}
	return p.lx.Next()
}

func (p *Parser) backup(t token.Token) {
	p.have = true
	p.peek = t
}

func (p *Parser) text(t token.Token) string {
	return p.view.Substring(t.Index, t.Size)
}

func (p *Parser) errf(t token.Token, format string, args ...any) error {
	return diag.Errorf(diag.StageParser, t.Index, t.LineRow, t.LineCol, format, args...)
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	t := p.next()
	if t.Kind != k {
		return t, p.errf(t, "expected %s but got %s", k, t.Kind)
	}
	return t, nil
}

// skipNewlines consumes zero or more Eol tokens.
func (p *Parser) skipNewlines() {
	for {
		t := p.next()
		if t.Kind != token.Eol {
			p.backup(t)
			return
		}
	}
}

// Parse implements the file production: Parse(source, tokens) ->
// FileRoot | error. It never consumes past EndOfFile and stops at the
// first unexpected token, per the parser's stop-at-first-error policy.
func Parse(lx TokenSource, view *source.View) (*ast.FileRoot, error) {
	p := New(lx, view)
	return p.parseFile()
}

func (p *Parser) parseFile() (*ast.FileRoot, error) {
	root := &ast.FileRoot{}
	p.skipNewlines()
	for {
		t := p.next()
		if t.Kind == token.EndOfFile {
			root.Size = t.Index
			return root, nil
		}
		if t.Kind != token.Identifier {
			return nil, p.errf(t, "expected section name but got %s", t.Kind)
		}
		section, err := p.parseSection(t)
		if err != nil {
			return nil, err
		}
		root.Sections = append(root.Sections, section)
		p.skipNewlines()
	}
}

func (p *Parser) parseSection(nameTok token.Token) (*ast.Section, error) {
	name := p.text(nameTok)
	var kind ast.SectionKind
	switch name {
	case "static":
		kind = ast.SectionStatic
	case "global":
		kind = ast.SectionGlobal
	case "code":
		kind = ast.SectionCode
	default:
		return nil, p.errf(nameTok, "unknown section %q", name)
	}

	if _, err := p.expect(token.LeftCurly); err != nil {
		return nil, err
	}
	p.skipNewlines()

	sec := &ast.Section{
		Pos:  ast.Pos{Index: nameTok.Index, LineRow: nameTok.LineRow, LineCol: nameTok.LineCol},
		Kind: kind,
		Name: name,
	}

	switch kind {
	case ast.SectionStatic, ast.SectionGlobal:
		vars, err := p.parseVarBody()
		if err != nil {
			return nil, err
		}
		sec.Variables = vars
	case ast.SectionCode:
		body, err := p.parseCodeBody()
		if err != nil {
			return nil, err
		}
		sec.Body = body
	}

	if _, err := p.expect(token.RightCurly); err != nil {
		return nil, err
	}
	return sec, nil
}

// var_decl := IDENT ':' TYPE '=' [sign] literal NL
func (p *Parser) parseVarBody() ([]*ast.Variable, error) {
	var out []*ast.Variable
	for {
		t := p.next()
		if t.Kind == token.RightCurly {
			p.backup(t)
			return out, nil
		}
		if t.Kind != token.Identifier {
			return nil, p.errf(t, "expected variable name but got %s", t.Kind)
		}
		v, err := p.parseVarDecl(t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipNewlines()
	}
}

func (p *Parser) parseVarDecl(nameTok token.Token) (*ast.Variable, error) {
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	typeTok, err := p.expect(token.TypeInfo)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Equals); err != nil {
		return nil, err
	}

	var sign token.Token
	haveSign := false
	t := p.next()
	if t.Kind == token.Plus || t.Kind == token.Minus {
		sign = t
		haveSign = true
		t = p.next()
	}

	var init ast.Node
	switch t.Kind {
	case token.IntegerNumber:
		if haveSign && sign.Index+sign.Size != t.Index {
			return nil, p.errf(sign, "unexpected operator")
		}
		lit, err := p.parseIntLiteral(t, haveSign && sign.Kind == token.Minus)
		if err != nil {
			return nil, err
		}
		init = lit
	case token.FloatNumber:
		if haveSign && sign.Index+sign.Size != t.Index {
			return nil, p.errf(sign, "unexpected operator")
		}
		lit, err := p.parseFloatLiteral(t, haveSign && sign.Kind == token.Minus)
		if err != nil {
			return nil, err
		}
		init = lit
	case token.String:
		if haveSign {
			return nil, p.errf(sign, "unexpected operator")
		}
		init = p.parseStringLiteral(t)
	default:
		return nil, p.errf(t, "expected a literal value but got %s", t.Kind)
	}

	return &ast.Variable{
		Pos:   ast.Pos{Index: nameTok.Index, LineRow: nameTok.LineRow, LineCol: nameTok.LineCol},
		Name:  p.text(nameTok),
		Type:  &ast.TypeInfo{Pos: posOf(typeTok), Type: uvm.Type(typeTok.Tag)},
		Count: 1,
		Init:  init,
	}, nil
}

// code_body := { NL | label_def NL | instr NL }
func (p *Parser) parseCodeBody() ([]ast.Node, error) {
	var out []ast.Node
	for {
		t := p.next()
		switch t.Kind {
		case token.RightCurly:
			p.backup(t)
			return out, nil
		case token.Eol:
			continue
		case token.LabelDef:
			out = append(out, &ast.LabelDef{Pos: posOf(t), Name: p.text(t)[1:]})
			// The scanner already returns the Eol following a label
			// definition as the very next token read here; the normal
			// per-statement Eol skip above absorbs it on the next loop
			// iteration, so no special-casing is needed.
			continue
		case token.Instruction:
			instr, err := p.parseInstruction(t)
			if err != nil {
				return nil, err
			}
			out = append(out, instr)
		default:
			return nil, p.errf(t, "expected a label or instruction but got %s", t.Kind)
		}
	}
}

// instr := MNEMONIC [ operand_list ]
func (p *Parser) parseInstruction(mnemonicTok token.Token) (*ast.Instruction, error) {
	instr := &ast.Instruction{
		Pos:      posOf(mnemonicTok),
		Mnemonic: p.text(mnemonicTok),
	}

	t := p.next()
	if t.Kind == token.Eol || t.Kind == token.EndOfFile || t.Kind == token.RightCurly {
		p.backup(t)
		return instr, nil
	}
	p.backup(t)

	ops, err := p.parseOperandList()
	if err != nil {
		return nil, err
	}
	instr.Operands = ops
	return instr, nil
}

// operand_list := operand { ',' operand }
func (p *Parser) parseOperandList() ([]ast.Node, error) {
	var ops []ast.Node
	for {
		op, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)

		t := p.next()
		if t.Kind == token.Comma {
			continue
		}
		p.backup(t)
		return ops, nil
	}
}

// operand := TYPE | register | reg_offset | ident | [sign] number
func (p *Parser) parseOperand() (ast.Node, error) {
	t := p.next()
	switch t.Kind {
	case token.TypeInfo:
		return &ast.TypeInfo{Pos: posOf(t), Type: uvm.Type(t.Tag)}, nil
	case token.RegisterDefinition:
		return &ast.RegisterId{Pos: posOf(t), Reg: t.Tag}, nil
	case token.LeftSquare:
		return p.parseRegisterOffset(t)
	case token.Identifier:
		return &ast.Identifier{Pos: posOf(t), Name: p.text(t)}, nil
	case token.Plus, token.Minus:
		num := p.next()
		if num.Index != t.Index+t.Size {
			return nil, p.errf(t, "unexpected operator")
		}
		return p.parseNumberOperand(num, t.Kind == token.Minus)
	case token.IntegerNumber, token.FloatNumber:
		return p.parseNumberOperand(t, false)
	default:
		return nil, p.errf(t, "unexpected token %s in operand", t.Kind)
	}
}

func (p *Parser) parseNumberOperand(t token.Token, negative bool) (ast.Node, error) {
	switch t.Kind {
	case token.IntegerNumber:
		return p.parseIntLiteral(t, negative)
	case token.FloatNumber:
		return p.parseFloatLiteral(t, negative)
	default:
		return nil, p.errf(t, "expected a number but got %s", t.Kind)
	}
}

// reg_offset := '[' (ident | register | register ('+'|'-') (imm32 | register '*' imm16)) ']'
func (p *Parser) parseRegisterOffset(lbrack token.Token) (*ast.RegisterOffset, error) {
	t := p.next()

	if t.Kind == token.Identifier {
		if _, err := p.expect(token.RightSquare); err != nil {
			return nil, err
		}
		return &ast.RegisterOffset{
			Pos:  posOf(lbrack),
			Kind: ast.ROVariable,
			Var:  &ast.Identifier{Pos: posOf(t), Name: p.text(t)},
		}, nil
	}

	if t.Kind != token.RegisterDefinition {
		return nil, p.errf(t, "expected a register or identifier but got %s", t.Kind)
	}
	if !uvm.IsIntRegister(t.Tag) {
		return nil, p.errf(t, "register offset base must be an integer register")
	}
	base := t.Tag

	sign := p.next()
	if sign.Kind == token.RightSquare {
		return &ast.RegisterOffset{Pos: posOf(lbrack), Kind: ast.ROBase, Base: base}, nil
	}
	if sign.Kind != token.Plus && sign.Kind != token.Minus {
		return nil, p.errf(sign, "expected '+', '-' or ']' but got %s", sign.Kind)
	}
	negative := sign.Kind == token.Minus

	next := p.next()
	if next.Kind == token.RegisterDefinition {
		if !uvm.IsIntRegister(next.Tag) {
			return nil, p.errf(next, "register offset index must be an integer register")
		}
		index := next.Tag

		if _, err := p.expect(token.Asterisk); err != nil {
			return nil, err
		}
		scaleTok, err := p.expect(token.IntegerNumber)
		if err != nil {
			return nil, err
		}
		scale, err := p.parseMagnitude(scaleTok)
		if err != nil {
			return nil, err
		}
		if scale > 0xFFFF {
			return nil, p.errf(scaleTok, "scale immediate does not fit in 16 bits")
		}
		if _, err := p.expect(token.RightSquare); err != nil {
			return nil, err
		}
		return &ast.RegisterOffset{
			Pos: posOf(lbrack), Kind: ast.ROBaseIndexImm,
			Base: base, Index: index, Scale: int32(scale), Negative: negative,
		}, nil
	}

	if next.Kind != token.IntegerNumber {
		return nil, p.errf(next, "expected a register or immediate but got %s", next.Kind)
	}
	disp, err := p.parseMagnitude(next)
	if err != nil {
		return nil, err
	}
	if disp > 0xFFFFFFFF {
		return nil, p.errf(next, "displacement immediate does not fit in 32 bits")
	}
	if _, err := p.expect(token.RightSquare); err != nil {
		return nil, err
	}
	return &ast.RegisterOffset{
		Pos: posOf(lbrack), Kind: ast.ROBaseImm,
		Base: base, Disp: int32(disp), Negative: negative,
	}, nil
}

// parseMagnitude parses an IntegerNumber token's literal text as an
// unsigned magnitude, base 16 if 0x-prefixed, else base 10.
func (p *Parser) parseMagnitude(t token.Token) (uint64, error) {
	lit := p.text(t)
	base := 10
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		base = 16
		lit = lit[2:]
	}
	n, err := strconv.ParseUint(lit, base, 64)
	if err != nil {
		return 0, errors.Wrapf(p.errf(t, "invalid integer literal %q", p.text(t)), "strconv: %v", err)
	}
	return n, nil
}

func (p *Parser) parseIntLiteral(t token.Token, negative bool) (*ast.IntLiteral, error) {
	mag, err := p.parseMagnitude(t)
	if err != nil {
		return nil, err
	}
	return &ast.IntLiteral{Pos: posOf(t), Magnitude: mag, Negative: negative}, nil
}

func (p *Parser) parseFloatLiteral(t token.Token, negative bool) (*ast.FloatLiteral, error) {
	lit := p.text(t)
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, errors.Wrapf(p.errf(t, "invalid float literal %q", lit), "strconv: %v", err)
	}
	if negative {
		v = -v
	}
	return &ast.FloatLiteral{Pos: posOf(t), Value: v, Negative: negative}, nil
}

var escapeTable = map[byte]byte{
	't': '\t', 'v': '\v', '0': 0, 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', '"': '"', '\\': '\\',
}

// parseStringLiteral strips the surrounding quotes from t's literal text
// and expands backslash escapes. An unrecognized escape terminates
// expansion at that point without consuming further characters,
// matching the original implementation's behaviour.
func (p *Parser) parseStringLiteral(t token.Token) *ast.StringLiteral {
	raw := p.text(t)
	if len(raw) >= 2 && raw[0] == '"' {
		raw = raw[1 : len(raw)-1]
	}

	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(raw) {
			break
		}
		expanded, ok := escapeTable[raw[i+1]]
		if !ok {
			break
		}
		sb.WriteByte(expanded)
		i++
	}
	return &ast.StringLiteral{Pos: posOf(t), Value: sb.String()}
}

func posOf(t token.Token) ast.Pos {
	return ast.Pos{Index: t.Index, Size: t.Size, LineRow: t.LineRow, LineCol: t.LineCol}
}
