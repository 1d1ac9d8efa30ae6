// Package isa is the instruction definition table named in spec.md §4.2
// and §6: for every mnemonic, the ordered list of legal operand
// signatures and how each maps to an opcode. It is data, not code — the
// table below is hand-authored to mirror
// original_source/src/asm/encoding.hpp's generated table 1:1 (same
// mnemonics, opcodes, flags, and type-variant maps), the reference this
// package is grounded on. The trie that organizes this data for O(n)
// matching lives in trie.go; building it is this package's only logic.
package isa

import "uvmasm/internal/uvm"

// ParamKind is one of the nine operand categories a signature position
// can require, per spec.md §4.2.
type ParamKind int

const (
	IntType ParamKind = iota
	FloatType
	IntReg
	FloatReg
	RegOffset
	IntNum
	FloatNum
	LabelID
	SysInt
)

func (k ParamKind) String() string {
	switch k {
	case IntType:
		return "int type"
	case FloatType:
		return "float type"
	case IntReg:
		return "integer register"
	case FloatReg:
		return "float register"
	case RegOffset:
		return "register offset"
	case IntNum:
		return "integer literal"
	case FloatNum:
		return "float literal"
	case LabelID:
		return "label"
	case SysInt:
		return "syscall id"
	default:
		return "?"
	}
}

// Flags are the per-signature encoding flags from spec.md §6. The two
// values are mutually exclusive.
type Flags uint8

const (
	EncodeType    Flags = 1 << 0
	TypeVariants  Flags = 1 << 1
)

// TypeVariant maps one UVM numeric type to the opcode byte to use when a
// TYPE_VARIANTS signature's tagging operand carries that type.
type TypeVariant struct {
	Type   uvm.Type
	Opcode byte
}

// Signature is one legal operand shape for a mnemonic.
type Signature struct {
	Opcode   byte
	Flags    Flags
	Params   []ParamKind
	Variants []TypeVariant
}

// ResolveOpcode resolves the final opcode byte for this signature given
// the numeric type captured from the signature's INT_TYPE/FLOAT_TYPE
// operand. Without the TYPE_VARIANTS flag it returns the base Opcode;
// with it, the matching variant's opcode, or zero if no variant matches.
func (s *Signature) ResolveOpcode(tagged uvm.Type) byte {
	if s.Flags&TypeVariants == 0 {
		return s.Opcode
	}
	for _, v := range s.Variants {
		if v.Type == tagged {
			return v.Opcode
		}
	}
	return 0
}

// Table maps each mnemonic to its ordered signature list.
var Table = map[string][]Signature{
	"nop": {
		{Opcode: 0xA0},
	},
	"push": {
		{Opcode: 0x01, Flags: TypeVariants, Params: []ParamKind{IntType, IntNum}, Variants: []TypeVariant{
			{uvm.TypeI8, 0x01}, {uvm.TypeI16, 0x02}, {uvm.TypeI32, 0x03}, {uvm.TypeI64, 0x04},
		}},
		{Opcode: 0x05, Flags: EncodeType, Params: []ParamKind{IntType, IntReg}},
	},
	"pop": {
		{Opcode: 0x06, Flags: EncodeType, Params: []ParamKind{IntType}},
		{Opcode: 0x07, Flags: EncodeType, Params: []ParamKind{IntType, IntReg}},
	},
	"load": {
		{Opcode: 0x11, Flags: TypeVariants, Params: []ParamKind{IntType, IntNum, IntReg}, Variants: []TypeVariant{
			{uvm.TypeI8, 0x11}, {uvm.TypeI16, 0x12}, {uvm.TypeI32, 0x13}, {uvm.TypeI64, 0x14},
		}},
		{Opcode: 0x15, Flags: EncodeType, Params: []ParamKind{IntType, RegOffset, IntReg}},
	},
	"loadf": {
		{Opcode: 0x16, Flags: TypeVariants, Params: []ParamKind{FloatType, FloatNum, FloatReg}, Variants: []TypeVariant{
			{uvm.TypeF32, 0x16}, {uvm.TypeF64, 0x17},
		}},
		{Opcode: 0x18, Flags: EncodeType, Params: []ParamKind{FloatType, RegOffset, FloatReg}},
	},
	"store": {
		{Opcode: 0x08, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, RegOffset}},
	},
	"storef": {
		{Opcode: 0x09, Flags: EncodeType, Params: []ParamKind{FloatType, FloatReg, RegOffset}},
	},
	"copy": {
		{Opcode: 0x21, Flags: TypeVariants, Params: []ParamKind{IntType, IntNum, RegOffset}, Variants: []TypeVariant{
			{uvm.TypeI8, 0x21}, {uvm.TypeI16, 0x22}, {uvm.TypeI32, 0x23}, {uvm.TypeI64, 0x24},
		}},
		{Opcode: 0x25, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
		{Opcode: 0x26, Flags: EncodeType, Params: []ParamKind{IntType, RegOffset, RegOffset}},
	},
	"copyf": {
		{Opcode: 0x27, Flags: TypeVariants, Params: []ParamKind{FloatType, FloatNum, RegOffset}, Variants: []TypeVariant{
			{uvm.TypeF32, 0x27}, {uvm.TypeF64, 0x28},
		}},
		{Opcode: 0x29, Flags: EncodeType, Params: []ParamKind{FloatType, FloatReg, FloatReg}},
		{Opcode: 0x2A, Flags: EncodeType, Params: []ParamKind{FloatType, RegOffset, RegOffset}},
	},
	"exit": {
		{Opcode: 0x50},
	},
	"call": {
		{Opcode: 0x20, Params: []ParamKind{LabelID}},
	},
	"ret": {
		{Opcode: 0x30},
	},
	"sys": {
		{Opcode: 0x40, Params: []ParamKind{SysInt}},
	},
	"lea": {
		{Opcode: 0x10, Params: []ParamKind{RegOffset, IntReg}},
	},
	"add": {
		{Opcode: 0x31, Flags: TypeVariants, Params: []ParamKind{IntType, IntReg, IntNum}, Variants: []TypeVariant{
			{uvm.TypeI8, 0x31}, {uvm.TypeI16, 0x32}, {uvm.TypeI32, 0x33}, {uvm.TypeI64, 0x34},
		}},
		{Opcode: 0x35, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"addf": {
		{Opcode: 0x36, Flags: TypeVariants, Params: []ParamKind{FloatType, FloatReg, FloatNum}, Variants: []TypeVariant{
			{uvm.TypeF32, 0x36}, {uvm.TypeF64, 0x37},
		}},
		{Opcode: 0x38, Flags: EncodeType, Params: []ParamKind{FloatType, FloatReg, FloatReg}},
	},
	"sub": {
		{Opcode: 0x41, Flags: TypeVariants, Params: []ParamKind{IntType, IntReg, IntNum}, Variants: []TypeVariant{
			{uvm.TypeI8, 0x41}, {uvm.TypeI16, 0x42}, {uvm.TypeI32, 0x43}, {uvm.TypeI64, 0x44},
		}},
		{Opcode: 0x45, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"subf": {
		{Opcode: 0x46, Flags: TypeVariants, Params: []ParamKind{FloatType, FloatReg, FloatNum}, Variants: []TypeVariant{
			{uvm.TypeF32, 0x46}, {uvm.TypeF64, 0x47},
		}},
		{Opcode: 0x48, Flags: EncodeType, Params: []ParamKind{FloatType, FloatReg, FloatReg}},
	},
	"mul": {
		{Opcode: 0x51, Flags: TypeVariants, Params: []ParamKind{IntType, IntReg, IntNum}, Variants: []TypeVariant{
			{uvm.TypeI8, 0x51}, {uvm.TypeI16, 0x52}, {uvm.TypeI32, 0x53}, {uvm.TypeI64, 0x54},
		}},
		{Opcode: 0x55, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"mulf": {
		{Opcode: 0x56, Flags: TypeVariants, Params: []ParamKind{FloatType, FloatReg, FloatNum}, Variants: []TypeVariant{
			{uvm.TypeF32, 0x56}, {uvm.TypeF64, 0x57},
		}},
		{Opcode: 0x58, Flags: EncodeType, Params: []ParamKind{FloatType, FloatReg, FloatReg}},
	},
	"muls": {
		{Opcode: 0x59, Flags: TypeVariants, Params: []ParamKind{IntType, IntReg, IntNum}, Variants: []TypeVariant{
			{uvm.TypeI8, 0x59}, {uvm.TypeI16, 0x5A}, {uvm.TypeI32, 0x5B}, {uvm.TypeI64, 0x5C},
		}},
		{Opcode: 0x5D, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"div": {
		{Opcode: 0x61, Flags: TypeVariants, Params: []ParamKind{IntType, IntReg, IntNum}, Variants: []TypeVariant{
			{uvm.TypeI8, 0x61}, {uvm.TypeI16, 0x62}, {uvm.TypeI32, 0x63}, {uvm.TypeI64, 0x64},
		}},
		{Opcode: 0x65, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"divf": {
		{Opcode: 0x66, Flags: TypeVariants, Params: []ParamKind{FloatType, FloatReg, FloatNum}, Variants: []TypeVariant{
			{uvm.TypeF32, 0x66}, {uvm.TypeF64, 0x67},
		}},
		{Opcode: 0x68, Flags: EncodeType, Params: []ParamKind{FloatType, FloatReg, FloatReg}},
	},
	"divs": {
		{Opcode: 0x69, Flags: TypeVariants, Params: []ParamKind{IntType, IntReg, IntNum}, Variants: []TypeVariant{
			{uvm.TypeI8, 0x69}, {uvm.TypeI16, 0x6A}, {uvm.TypeI32, 0x6B}, {uvm.TypeI64, 0x6C},
		}},
		{Opcode: 0x6D, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"sqrt": {
		{Opcode: 0x86, Flags: EncodeType, Params: []ParamKind{FloatType, FloatReg}},
	},
	"mod": {
		{Opcode: 0x96, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"and": {
		{Opcode: 0x75, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"or": {
		{Opcode: 0x85, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"xor": {
		{Opcode: 0x95, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"not": {
		{Opcode: 0xA5, Flags: EncodeType, Params: []ParamKind{IntType, IntReg}},
	},
	"lsh": {
		{Opcode: 0x76, Params: []ParamKind{IntReg, IntReg}},
	},
	"rsh": {
		{Opcode: 0x77, Params: []ParamKind{IntReg, IntReg}},
	},
	"srsh": {
		{Opcode: 0x78, Params: []ParamKind{IntReg, IntReg}},
	},
	"b2l": {
		{Opcode: 0xB1, Params: []ParamKind{IntReg}},
	},
	"s2l": {
		{Opcode: 0xB2, Params: []ParamKind{IntReg}},
	},
	"i2l": {
		{Opcode: 0xB3, Params: []ParamKind{IntReg}},
	},
	"b2sl": {
		{Opcode: 0xC1, Params: []ParamKind{IntReg}},
	},
	"s2sl": {
		{Opcode: 0xC2, Params: []ParamKind{IntReg}},
	},
	"i2sl": {
		{Opcode: 0xC3, Params: []ParamKind{IntReg}},
	},
	"f2d": {
		{Opcode: 0xB4, Params: []ParamKind{FloatReg}},
	},
	"d2f": {
		{Opcode: 0xC4, Params: []ParamKind{FloatReg}},
	},
	"i2f": {
		{Opcode: 0xB5, Params: []ParamKind{IntReg, FloatReg}},
	},
	"i2d": {
		{Opcode: 0xC5, Params: []ParamKind{IntReg, FloatReg}},
	},
	"f2i": {
		{Opcode: 0xB6, Params: []ParamKind{FloatReg, IntReg}},
	},
	"d2i": {
		{Opcode: 0xC6, Params: []ParamKind{FloatReg, IntReg}},
	},
	"cmp": {
		{Opcode: 0xD1, Flags: EncodeType, Params: []ParamKind{IntType, IntReg, IntReg}},
	},
	"cmpf": {
		{Opcode: 0xD5, Flags: EncodeType, Params: []ParamKind{FloatType, FloatReg, FloatReg}},
	},
	"jmp": {
		{Opcode: 0xE1, Params: []ParamKind{LabelID}},
	},
	"je": {
		{Opcode: 0xE2, Params: []ParamKind{LabelID}},
	},
	"jne": {
		{Opcode: 0xE3, Params: []ParamKind{LabelID}},
	},
	"jgt": {
		{Opcode: 0xE4, Params: []ParamKind{LabelID}},
	},
	"jlt": {
		{Opcode: 0xE5, Params: []ParamKind{LabelID}},
	},
	"jge": {
		{Opcode: 0xE6, Params: []ParamKind{LabelID}},
	},
	"jle": {
		{Opcode: 0xE7, Params: []ParamKind{LabelID}},
	},
}
