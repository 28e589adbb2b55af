package lowering

import (
	"github.com/dcaiafa/p2llvm/ast"
	"github.com/dcaiafa/p2llvm/symbol"
)

// lowerExpr dispatches to the handler for e's concrete node kind. Every
// handler pushes exactly one value onto the shadow stack before returning
// (§3).
func (c *Codegen) lowerExpr(f *frame, e ast.Expr, m mode) error {
	switch n := e.(type) {
	case *ast.IntLit:
		f.stack.PushInt(n.Value)
		return nil
	case *ast.FloatLit:
		f.stack.PushFloat(n.Value)
		return nil
	case *ast.StringLit:
		f.stack.PushStr(n.Value)
		return nil
	case *ast.VariableRef:
		return c.lowerVariableRef(f, n, m)
	case *ast.BinaryExpr:
		return c.lowerBinary(f, n)
	case *ast.UnaryExpr:
		return c.lowerUnary(f, n)
	case *ast.FunctionInvocation:
		return c.lowerCall(f, n)
	default:
		return errf("lowering: unsupported expression node %T", e)
	}
}

// lowerVariableRef is the single entry point sensitive to the
// ref_to_value flag (§4.3): it is the only producer that reads m.
func (c *Codegen) lowerVariableRef(f *frame, vr *ast.VariableRef, m mode) error {
	if vr.Entry.Type.IsArray() {
		return c.lowerArrayRef(f, vr, m)
	}
	return c.lowerScalarRef(f, vr.Entry, m)
}

// lowerScalarRef lowers a scalar variable/parameter reference (§4.3,
// §4.4): on refToValue=true it loads to a fresh register; on false it
// pushes GLOBAL for a module-scope symbol, or REG of the local's own
// alloca slot number. Pushing REG (not GLOBAL) for a local in l-value mode
// is required so that Read of a local integer can pass its address to
// scanf (§9 open question).
func (c *Codegen) lowerScalarRef(f *frame, e *symbol.Entry, m mode) error {
	if e.Global() {
		if !m.refToValue {
			f.stack.PushGlobal(e.Name)
			return nil
		}
		reg := f.counter.Next()
		if err := c.em.Line("  %%%d = load i32, i32* @%s, align 4", reg, e.Name); err != nil {
			return err
		}
		f.stack.PushReg(reg)
		return nil
	}

	slot, ok := f.binds.Slot(e)
	if !ok {
		return errf("lowering: local symbol %q has no slot binding", e.Name)
	}
	if !m.refToValue {
		f.stack.PushReg(slot)
		return nil
	}
	reg := f.counter.Next()
	if err := c.em.Line("  %%%d = load i32, i32* %%%d, align 4", reg, slot); err != nil {
		return err
	}
	f.stack.PushReg(reg)
	return nil
}

// binOpInstr is the dispatch table of §4.5, filling in every comparison
// (including <> and >=, left unimplemented by the source this spec was
// distilled from; §9 open question).
var binOpInstr = map[ast.BinOp]string{
	ast.Add: "add nsw i32",
	ast.Sub: "sub nsw i32",
	ast.Mul: "mul nsw i32",
	ast.Div: "sdiv exact i32",
	ast.Mod: "srem i32",
	ast.Lt:  "icmp slt i32",
	ast.Le:  "icmp sle i32",
	ast.Gt:  "icmp sgt i32",
	ast.Ge:  "icmp sge i32",
	ast.Eq:  "icmp eq i32",
	ast.Ne:  "icmp ne i32",
}

// lowerBinary visits Left then Right, pops Right then Left (§4.5), and
// emits the dispatched instruction for every INT/REG operand-tag
// combination.
func (c *Codegen) lowerBinary(f *frame, b *ast.BinaryExpr) error {
	if err := c.lowerExpr(f, b.Left, rvalue); err != nil {
		return err
	}
	if err := c.lowerExpr(f, b.Right, rvalue); err != nil {
		return err
	}
	right, err := f.stack.Pop()
	if err != nil {
		return err
	}
	left, err := f.stack.Pop()
	if err != nil {
		return err
	}
	instr, ok := binOpInstr[b.Op]
	if !ok {
		return errf("lowering: unsupported binary operator %d", b.Op)
	}
	leftText, err := operandText(left)
	if err != nil {
		return err
	}
	rightText, err := operandText(right)
	if err != nil {
		return err
	}
	reg := f.counter.Next()
	if err := c.em.Line("  %%%d = %s %s, %s", reg, instr, leftText, rightText); err != nil {
		return err
	}
	f.stack.PushReg(reg)
	return nil
}

// lowerUnary lowers source-language negation to `sub nsw i32 0, x` (§4.5).
func (c *Codegen) lowerUnary(f *frame, u *ast.UnaryExpr) error {
	if err := c.lowerExpr(f, u.Operand, rvalue); err != nil {
		return err
	}
	v, err := f.stack.Pop()
	if err != nil {
		return err
	}
	text, err := operandText(v)
	if err != nil {
		return err
	}
	reg := f.counter.Next()
	if err := c.em.Line("  %%%d = sub nsw i32 0, %s", reg, text); err != nil {
		return err
	}
	f.stack.PushReg(reg)
	return nil
}
