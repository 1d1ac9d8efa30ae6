package isa_test

import (
	"testing"

	"uvmasm/internal/isa"
	"uvmasm/internal/uvm"
)

func TestTrieZeroOperandInstruction(t *testing.T) {
	root := isa.Trie("exit")
	if root == nil {
		t.Fatal("expected a trie for exit")
	}
	if root.Signature == nil {
		t.Fatalf("expected exit's root node to carry a signature")
	}
	if root.Signature.Opcode != 0x50 {
		t.Errorf("expected exit opcode 0x50, got 0x%02X", root.Signature.Opcode)
	}
}

func TestTrieUnknownMnemonic(t *testing.T) {
	if isa.Trie("frobnicate") != nil {
		t.Errorf("expected no trie for an unknown mnemonic")
	}
	if isa.Known("frobnicate") {
		t.Errorf("expected frobnicate to be unknown")
	}
}

func TestTrieTypeVariantResolution(t *testing.T) {
	root := isa.Trie("push")
	n := root.Walk(isa.IntType)
	if n == nil {
		t.Fatal("expected an IntType edge for push")
	}
	n = n.Walk(isa.IntNum)
	if n == nil || n.Signature == nil {
		t.Fatal("expected push IntType,IntNum to resolve to a signature")
	}
	if got := n.Signature.ResolveOpcode(uvm.TypeI32); got != 0x03 {
		t.Errorf("expected push i32 opcode 0x03, got 0x%02X", got)
	}
	if got := n.Signature.ResolveOpcode(uvm.TypeI8); got != 0x01 {
		t.Errorf("expected push i8 opcode 0x01, got 0x%02X", got)
	}
}

func TestTrieMutuallyExclusiveEdges(t *testing.T) {
	root := isa.Trie("add")
	n := root.Walk(isa.IntType)
	if n == nil {
		t.Fatal("expected an IntType edge for add")
	}
	if n.Walk(isa.FloatReg) != nil {
		t.Errorf("expected no FloatReg edge after IntType for add")
	}
}
