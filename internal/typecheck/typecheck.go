// Package typecheck implements the second pipeline stage: it walks the
// AST the parser built, matches every instruction against the isa
// trie, builds the variable and label symbol tables, and resolves
// cross-references. Unlike the parser it accumulates diagnostics and
// keeps walking, per spec.md §7 — the propagation-policy split this
// pipeline is named for. Grounded on the symbol/reference bookkeeping
// in original_source/src/parser.cpp's typeCheck family, reimplemented
// with the trie from internal/isa instead of a linear signature scan.
package typecheck

import (
	"math"

	"uvmasm/internal/ast"
	"uvmasm/internal/diag"
	"uvmasm/internal/isa"
	"uvmasm/internal/uvm"
)

// Checker owns the symbol tables built up across a single Check call.
type Checker struct {
	vars   map[string]*ast.Variable
	labels map[string]*ast.LabelDef

	labelRefs []*ast.Identifier
	varRefs   []*ast.RegisterOffset

	diags []diag.Diagnostic
}

// Check runs the full type-check pass over root and returns whether it
// succeeded along with every diagnostic recorded along the way.
func Check(root *ast.FileRoot) (bool, []diag.Diagnostic) {
	c := &Checker{
		vars:   make(map[string]*ast.Variable),
		labels: make(map[string]*ast.LabelDef),
	}
	c.run(root)
	return len(c.diags) == 0, c.diags
}

func (c *Checker) errf(p ast.Pos, format string, args ...any) {
	c.diags = append(c.diags, diag.Errorf(diag.StageTypeCheck, p.Index, p.LineRow, p.LineCol, format, args...))
}

func (c *Checker) run(root *ast.FileRoot) {
	var code *ast.Section
	seen := map[ast.SectionKind]bool{}

	for _, sec := range root.Sections {
		if seen[sec.Kind] {
			c.errf(sec.Pos, "duplicate %s section", sec.Kind)
			continue
		}
		seen[sec.Kind] = true

		switch sec.Kind {
		case ast.SectionStatic, ast.SectionGlobal:
			c.collectVars(sec)
		case ast.SectionCode:
			code = sec
		}
	}

	if code == nil || len(code.Body) == 0 {
		c.errf(root.Pos, "missing main label")
		return
	}

	c.walkCode(code)

	if _, ok := c.labels["main"]; !ok {
		c.errf(code.Pos, "missing main label")
	}

	for _, ref := range c.labelRefs {
		if _, ok := c.labels[ref.Name]; !ok {
			c.errf(ref.Pos, "unresolved label %q", ref.Name)
		}
	}

	for _, ro := range c.varRefs {
		v, ok := c.vars[ro.Var.Name]
		if !ok {
			c.errf(ro.Var.Pos, "unresolved variable %q", ro.Var.Name)
			continue
		}
		ro.Resolved = v
	}
}

// sectionPermission computes a variable's SecPerm byte from the kind of
// section it was declared in. The original implementation combined
// these flags with bitwise AND, which always yields zero; this computes
// the intended OR (spec.md §9 REDESIGN FLAGS).
func sectionPermission(kind ast.SectionKind) byte {
	switch kind {
	case ast.SectionStatic:
		return ast.SecPermRead
	case ast.SectionGlobal:
		return ast.SecPermRead | ast.SecPermWrite
	case ast.SectionCode:
		return ast.SecPermRead | ast.SecPermExecute
	default:
		return 0
	}
}

func (c *Checker) collectVars(sec *ast.Section) {
	perm := sectionPermission(sec.Kind)
	for _, v := range sec.Variables {
		if _, exists := c.vars[v.Name]; exists {
			c.errf(v.Pos, "variable %q already defined", v.Name)
			continue
		}
		v.SecPerm = perm
		c.checkLiteralWidth(v.Init, v.Type.Type)
		c.vars[v.Name] = v
	}
}

func (c *Checker) walkCode(sec *ast.Section) {
	for _, n := range sec.Body {
		switch node := n.(type) {
		case *ast.LabelDef:
			if _, exists := c.labels[node.Name]; exists {
				c.errf(node.Pos, "label %q already defined", node.Name)
				continue
			}
			c.labels[node.Name] = node
		case *ast.Instruction:
			c.matchInstruction(node)
		}
	}
}

// matchInstruction walks node's operands through the isa trie for its
// mnemonic, per spec.md §4.2, tagging numeric literals with the type
// remembered from a preceding TypeInfo operand and recording label and
// register-offset-variable references for later resolution.
func (c *Checker) matchInstruction(node *ast.Instruction) {
	root := isa.Trie(node.Mnemonic)
	if root == nil {
		c.errf(node.Pos, "unknown instruction %q", node.Mnemonic)
		return
	}

	cur := root
	var remembered uvm.Type

	for _, operand := range node.Operands {
		kind, ok := c.classify(operand, cur, remembered)
		if !ok {
			c.errf(operandPos(operand), "operand does not match any signature of %q", node.Mnemonic)
			return
		}
		next := cur.Walk(kind)
		if next == nil {
			c.errf(operandPos(operand), "operand does not match any signature of %q", node.Mnemonic)
			return
		}
		cur = next

		if ti, isType := operand.(*ast.TypeInfo); isType {
			remembered = ti.Type
		}
	}

	if cur.Signature == nil {
		c.errf(node.Pos, "too few operands for %q", node.Mnemonic)
		return
	}

	node.Signature = cur.Signature
	node.Flags = cur.Signature.Flags
	node.Opcode = cur.Signature.ResolveOpcode(remembered)
}

// classify resolves which ParamKind operand satisfies at this trie
// position, applying the per-category acceptance rules of spec.md §4.2,
// and performs that category's side effects (width re-checks, reference
// collection). It reports ok=false if operand matches no edge present
// at cur.
func (c *Checker) classify(operand ast.Node, cur *isa.TrieNode, remembered uvm.Type) (isa.ParamKind, bool) {
	switch op := operand.(type) {
	case *ast.TypeInfo:
		if op.Type.IsInt() {
			if _, has := cur.Edges[isa.IntType]; has {
				return isa.IntType, true
			}
		}
		if op.Type.IsFloat() {
			if _, has := cur.Edges[isa.FloatType]; has {
				return isa.FloatType, true
			}
		}
		return 0, false

	case *ast.RegisterId:
		if uvm.IsIntRegister(op.Reg) {
			if _, has := cur.Edges[isa.IntReg]; has {
				return isa.IntReg, true
			}
		}
		if uvm.IsFloatRegister(op.Reg) {
			if _, has := cur.Edges[isa.FloatReg]; has {
				return isa.FloatReg, true
			}
		}
		return 0, false

	case *ast.RegisterOffset:
		if _, has := cur.Edges[isa.RegOffset]; has {
			if op.Var != nil {
				c.varRefs = append(c.varRefs, op)
			}
			return isa.RegOffset, true
		}
		return 0, false

	case *ast.IntLiteral:
		if _, has := cur.Edges[isa.SysInt]; has {
			op.DataType = uvm.TypeI8
			return isa.SysInt, true
		}
		if _, has := cur.Edges[isa.IntNum]; has {
			op.DataType = remembered
			c.checkIntWidth(op, remembered)
			return isa.IntNum, true
		}
		return 0, false

	case *ast.FloatLiteral:
		if _, has := cur.Edges[isa.FloatNum]; has {
			op.DataType = remembered
			c.checkFloatWidth(op, remembered)
			return isa.FloatNum, true
		}
		return 0, false

	case *ast.Identifier:
		if _, has := cur.Edges[isa.LabelID]; has {
			c.labelRefs = append(c.labelRefs, op)
			return isa.LabelID, true
		}
		return 0, false

	default:
		return 0, false
	}
}

// checkIntWidth re-checks a remembered-typed integer literal against
// the magnitude bound spec.md §4.3 gives. This is a magnitude bound,
// not a two's-complement range check — preserved as-is per spec.md §9
// Open Questions.
func (c *Checker) checkIntWidth(lit *ast.IntLiteral, t uvm.Type) {
	var max uint64
	switch t {
	case uvm.TypeI8:
		max = 0xFF
	case uvm.TypeI16:
		max = 0xFFFF
	case uvm.TypeI32:
		max = 0xFFFFFFFF
	case uvm.TypeI64:
		return
	default:
		return
	}
	if lit.Magnitude > max {
		c.errf(lit.Pos, "integer does not fit into given type")
	}
}

func (c *Checker) checkFloatWidth(lit *ast.FloatLiteral, t uvm.Type) {
	v := math.Abs(lit.Value)
	switch t {
	case uvm.TypeF32:
		if v > math.MaxFloat32 {
			c.errf(lit.Pos, "float does not fit into given type")
		}
	case uvm.TypeF64:
		if v > math.MaxFloat64 {
			c.errf(lit.Pos, "float does not fit into given type")
		}
	}
}

// checkLiteralWidth applies the same bound to a static/global variable's
// initializer, which is type-tagged directly by its declaration rather
// than by a preceding look-behind TypeInfo operand.
func (c *Checker) checkLiteralWidth(init ast.Node, t uvm.Type) {
	switch lit := init.(type) {
	case *ast.IntLiteral:
		lit.DataType = t
		c.checkIntWidth(lit, t)
	case *ast.FloatLiteral:
		lit.DataType = t
		c.checkFloatWidth(lit, t)
	}
}

func operandPos(n ast.Node) ast.Pos {
	return n.Position()
}
