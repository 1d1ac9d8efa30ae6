package lexer_test

import (
	"strings"
	"testing"

	"uvmasm/internal/lexer"
	"uvmasm/internal/token"
)

func scanAll(src string) []token.Token {
	lx := lexer.New(strings.NewReader(src))
	var out []token.Token
	for {
		t := lx.Next()
		out = append(out, t)
		if t.Kind == token.EndOfFile {
			return out
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexerInstructionAndOperands(t *testing.T) {
	toks := scanAll("push i32, 42\n")
	want := []token.Kind{
		token.Instruction, token.TypeInfo, token.Comma, token.IntegerNumber, token.Eol, token.EndOfFile,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestLexerRegisterTag(t *testing.T) {
	toks := scanAll("r0 bp f3")
	if toks[0].Kind != token.RegisterDefinition || toks[0].Tag != 0x05 {
		t.Errorf("expected r0 to tag as 0x05, got %v tag=0x%02X", toks[0].Kind, toks[0].Tag)
	}
	if toks[1].Kind != token.RegisterDefinition || toks[1].Tag != 0x03 {
		t.Errorf("expected bp to tag as 0x03, got %v tag=0x%02X", toks[1].Kind, toks[1].Tag)
	}
	if toks[2].Kind != token.RegisterDefinition || toks[2].Tag != 0x19 {
		t.Errorf("expected f3 to tag as 0x19, got %v tag=0x%02X", toks[2].Kind, toks[2].Tag)
	}
}

func TestLexerLabelDef(t *testing.T) {
	toks := scanAll("@main\n")
	if toks[0].Kind != token.LabelDef {
		t.Fatalf("expected a label definition token, got %v", toks[0].Kind)
	}
}

func TestLexerFloatVsInteger(t *testing.T) {
	toks := scanAll("3.14 42")
	if toks[0].Kind != token.FloatNumber {
		t.Errorf("expected a float number, got %v", toks[0].Kind)
	}
	if toks[1].Kind != token.IntegerNumber {
		t.Errorf("expected an integer number, got %v", toks[1].Kind)
	}
}

func TestLexerHexNumber(t *testing.T) {
	toks := scanAll("0xFF")
	if toks[0].Kind != token.IntegerNumber {
		t.Fatalf("expected an integer number, got %v", toks[0].Kind)
	}
}

func TestLexerEndOfFileIdempotent(t *testing.T) {
	lx := lexer.New(strings.NewReader(""))
	first := lx.Next()
	second := lx.Next()
	if first.Kind != token.EndOfFile || second.Kind != token.EndOfFile {
		t.Fatalf("expected EndOfFile to repeat, got %v then %v", first.Kind, second.Kind)
	}
}
