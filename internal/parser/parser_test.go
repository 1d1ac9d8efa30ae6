package parser_test

import (
	"bytes"
	"testing"

	"uvmasm/internal/ast"
	"uvmasm/internal/lexer"
	"uvmasm/internal/parser"
	"uvmasm/internal/source"
)

func parse(t *testing.T, src string) (*ast.FileRoot, error) {
	t.Helper()
	view := source.New("test.uvm", []byte(src))
	lx := lexer.New(bytes.NewReader([]byte(src)))
	return parser.Parse(lx, view)
}

func TestParseHappyPath(t *testing.T) {
	root, err := parse(t, `
code {
@main
    push i32, 42
    exit
}
`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(root.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(root.Sections))
	}
	code := root.Sections[0]
	if code.Kind != ast.SectionCode {
		t.Fatalf("expected code section, got %v", code.Kind)
	}
	if len(code.Body) != 3 {
		t.Fatalf("expected 3 body nodes (label, push, exit), got %d", len(code.Body))
	}
	if _, ok := code.Body[0].(*ast.LabelDef); !ok {
		t.Fatalf("expected first node to be a label def, got %T", code.Body[0])
	}
	push, ok := code.Body[1].(*ast.Instruction)
	if !ok {
		t.Fatalf("expected an instruction, got %T", code.Body[1])
	}
	if push.Mnemonic != "push" || len(push.Operands) != 2 {
		t.Fatalf("unexpected push instruction: %+v", push)
	}
}

func TestParseStaticSection(t *testing.T) {
	root, err := parse(t, `
static {
    msg : i8 = "hi"
    pi  : f32 = 3.14
}
`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	sec := root.Sections[0]
	if len(sec.Variables) != 2 {
		t.Fatalf("expected 2 variables, got %d", len(sec.Variables))
	}
	str, ok := sec.Variables[0].Init.(*ast.StringLiteral)
	if !ok || str.Value != "hi" {
		t.Fatalf("expected string literal \"hi\", got %+v", sec.Variables[0].Init)
	}
}

func TestParseStringEscape(t *testing.T) {
	root, err := parse(t, "static {\n    msg : i8 = \"a\\tb\\n\"\n}\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	str := root.Sections[0].Variables[0].Init.(*ast.StringLiteral)
	if str.Value != "a\tb\n" {
		t.Fatalf("expected escape-expanded string, got %q", str.Value)
	}
}

func TestParseRegisterOffsetForms(t *testing.T) {
	root, err := parse(t, `
code {
@main
    lea [bp], r0
    lea [bp - 8], r1
    lea [bp + r0 * 4], r2
    lea [msg], r3
    exit
}
`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	body := root.Sections[0].Body
	cases := []struct {
		kind ast.RegisterOffsetKind
	}{
		{ast.ROBase}, {ast.ROBaseImm}, {ast.ROBaseIndexImm}, {ast.ROVariable},
	}
	for i, want := range cases {
		instr := body[i+1].(*ast.Instruction)
		ro := instr.Operands[0].(*ast.RegisterOffset)
		if ro.Kind != want.kind {
			t.Errorf("instr %d: expected kind %v, got %v", i, want.kind, ro.Kind)
		}
	}
}

func TestParseSignGapRejected(t *testing.T) {
	_, err := parse(t, `
code {
@main
    push i32, - 1
}
`)
	if err == nil {
		t.Fatalf("expected a parse error for a non-adjacent sign")
	}
}

func TestParseMissingCodeSectionStillParses(t *testing.T) {
	// Absence of a code section is a type-check failure (spec.md §8.12),
	// not a parse failure; the parser only validates grammar.
	root, err := parse(t, `
static {
    x : i32 = 1
}
`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(root.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(root.Sections))
	}
}

func TestParseUnknownSectionFails(t *testing.T) {
	_, err := parse(t, `
bogus {
}
`)
	if err == nil {
		t.Fatalf("expected an error for an unknown section name")
	}
}

func TestParseConsecutiveBlankLinesAfterLabel(t *testing.T) {
	root, err := parse(t, "code {\n@main\n\n\n    exit\n}\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	body := root.Sections[0].Body
	if len(body) != 2 {
		t.Fatalf("expected label + exit, got %d nodes", len(body))
	}
}
