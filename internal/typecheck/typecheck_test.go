package typecheck_test

import (
	"bytes"
	"testing"

	"uvmasm/internal/ast"
	"uvmasm/internal/lexer"
	"uvmasm/internal/parser"
	"uvmasm/internal/source"
	"uvmasm/internal/typecheck"
)

func buildAndCheck(t *testing.T, src string) (*ast.FileRoot, bool, []string) {
	t.Helper()
	view := source.New("test.uvm", []byte(src))
	lx := lexer.New(bytes.NewReader([]byte(src)))
	root, err := parser.Parse(lx, view)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	ok, diags := typecheck.Check(root)
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Message
	}
	return root, ok, msgs
}

func TestS1HappyPath(t *testing.T) {
	root, ok, msgs := buildAndCheck(t, `
code {
@main
    push i32, 42
    exit
}
`)
	if !ok {
		t.Fatalf("expected success, got errors: %v", msgs)
	}
	body := root.Sections[0].Body
	push := body[1].(*ast.Instruction)
	if push.Opcode != 0x03 {
		t.Errorf("expected push i32 opcode 0x03, got 0x%02X", push.Opcode)
	}
	lit := push.Operands[1].(*ast.IntLiteral)
	if lit.DataType.String() != "i32" {
		t.Errorf("expected literal DataType i32, got %v", lit.DataType)
	}
	exit := body[2].(*ast.Instruction)
	if exit.Opcode != 0x50 {
		t.Errorf("expected exit opcode 0x50, got 0x%02X", exit.Opcode)
	}
}

func TestS2LabelResolution(t *testing.T) {
	_, ok, _ := buildAndCheck(t, `
code {
@main
    jmp loop
@loop
    exit
}
`)
	if !ok {
		t.Fatalf("expected success")
	}

	_, ok, msgs := buildAndCheck(t, `
code {
@main
    jmp end
}
`)
	if ok {
		t.Fatalf("expected failure for unresolved label")
	}
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one error, got %v", msgs)
	}
}

func TestS3RegisterOffsetLayout(t *testing.T) {
	root, ok, msgs := buildAndCheck(t, `
code {
@main
    load i32, [bp - 4], r0
    exit
}
`)
	if !ok {
		t.Fatalf("expected success, got %v", msgs)
	}
	instr := root.Sections[0].Body[1].(*ast.Instruction)
	ro := instr.Operands[1].(*ast.RegisterOffset)
	if got := ro.LayoutByte(); got != 0xAF {
		t.Errorf("expected layout byte 0xAF, got 0x%02X", got)
	}
	if ro.Base != 0x03 {
		t.Errorf("expected base register bp (0x03), got 0x%02X", ro.Base)
	}
	if ro.Disp != 4 {
		t.Errorf("expected displacement 4, got %d", ro.Disp)
	}
}

func TestS4VariableAddressing(t *testing.T) {
	root, ok, msgs := buildAndCheck(t, `
static {
    msg : i8 = "hi"
}
code {
@main
    lea [msg], r0
    exit
}
`)
	if !ok {
		t.Fatalf("expected success, got %v", msgs)
	}
	instr := root.Sections[1].Body[1].(*ast.Instruction)
	ro := instr.Operands[0].(*ast.RegisterOffset)
	if ro.Resolved == nil || ro.Resolved.Name != "msg" {
		t.Fatalf("expected RegisterOffset.Var to resolve to msg, got %+v", ro.Resolved)
	}
	if got := ro.LayoutByte(); got != 0 {
		t.Errorf("expected zero layout byte for variable addressing, got 0x%02X", got)
	}
}

func TestS5DuplicateLabel(t *testing.T) {
	_, ok, msgs := buildAndCheck(t, `
code {
@main
    exit
@main
    exit
}
`)
	if ok {
		t.Fatalf("expected failure for duplicate label")
	}
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one error, got %v", msgs)
	}
}

func TestS6IntegerOverflow(t *testing.T) {
	_, ok, msgs := buildAndCheck(t, `
static {
    x : i16 = 70000
}
code {
@main
    exit
}
`)
	if ok {
		t.Fatalf("expected failure for integer overflow")
	}
	if len(msgs) != 1 || msgs[0] != "integer does not fit into given type" {
		t.Fatalf("unexpected diagnostics: %v", msgs)
	}
}

func TestBoundaryPushI8Width(t *testing.T) {
	_, ok, _ := buildAndCheck(t, `
code {
@main
    push i8, 255
    exit
}
`)
	if !ok {
		t.Fatalf("expected push i8, 255 to succeed")
	}

	_, ok, _ = buildAndCheck(t, `
code {
@main
    push i8, 256
    exit
}
`)
	if ok {
		t.Fatalf("expected push i8, 256 to fail")
	}
}

func TestBoundaryRegisterOffsetImmWidth(t *testing.T) {
	_, ok, _ := buildAndCheck(t, `
code {
@main
    load i32, [bp - 0xFFFFFFFF], r0
    exit
}
`)
	if !ok {
		t.Fatalf("expected 32-bit displacement to succeed")
	}
}

func TestBoundaryRegisterOffsetImmOverflowRejectedAtParse(t *testing.T) {
	src := "code {\n@main\n    load i32, [bp - 0x100000000], r0\n}\n"
	view := source.New("test.uvm", []byte(src))
	lx := lexer.New(bytes.NewReader([]byte(src)))
	_, err := parser.Parse(lx, view)
	if err == nil {
		t.Fatalf("expected a parse error for a displacement overflowing 32 bits")
	}
}

func TestBoundaryRegisterClassMismatch(t *testing.T) {
	_, ok, _ := buildAndCheck(t, `
code {
@main
    add i32, r0, r1
    exit
}
`)
	if !ok {
		t.Fatalf("expected add i32, r0, r1 to succeed")
	}

	_, ok, _ = buildAndCheck(t, `
code {
@main
    add f32, r0, r1
    exit
}
`)
	if ok {
		t.Fatalf("expected add f32, r0, r1 to fail (wrong register class for add)")
	}

	_, ok, _ = buildAndCheck(t, `
code {
@main
    add i32, f0, r1
    exit
}
`)
	if ok {
		t.Fatalf("expected add i32, f0, r1 to fail (float register in integer position)")
	}
}

func TestMissingCodeSection(t *testing.T) {
	_, ok, _ := buildAndCheck(t, `
static {
    x : i32 = 1
}
`)
	if ok {
		t.Fatalf("expected failure for a file with no code section")
	}
}

func TestMissingMainLabel(t *testing.T) {
	_, ok, _ := buildAndCheck(t, `
code {
@start
    exit
}
`)
	if ok {
		t.Fatalf("expected failure for a code section without a main label")
	}
}

func TestIdempotentRecheck(t *testing.T) {
	root, ok, _ := buildAndCheck(t, `
code {
@main
    push i32, 42
    exit
}
`)
	if !ok {
		t.Fatalf("expected first check to succeed")
	}
	push := root.Sections[0].Body[1].(*ast.Instruction)
	before := push.Operands[1].(*ast.IntLiteral).DataType

	ok2, _ := typecheck.Check(root)
	if !ok2 {
		t.Fatalf("expected re-check to succeed")
	}
	after := push.Operands[1].(*ast.IntLiteral).DataType
	if before != after {
		t.Errorf("expected DataType to be stable across re-check, got %v then %v", before, after)
	}
}
