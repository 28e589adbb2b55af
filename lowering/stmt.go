package lowering

import (
	"github.com/dcaiafa/p2llvm/ast"
	"github.com/dcaiafa/p2llvm/ir"
)

// lowerStmts lowers a statement list in order, returning whether the last
// statement lowered was (or ended in) a return. Only ReturnStmt ever
// yields true directly; composite statements (if/while/for) do not
// propagate the termination status of their nested blocks — this is the
// documented nested-compound-statement limitation carried over from §4.10
// rather than silently "fixed".
func (c *Codegen) lowerStmts(f *frame, stmts []ast.Stmt) (hasRet bool, err error) {
	for _, s := range stmts {
		hasRet, err = c.lowerStmt(f, s)
		if err != nil {
			return false, err
		}
	}
	return hasRet, nil
}

func (c *Codegen) lowerStmt(f *frame, s ast.Stmt) (hasRet bool, err error) {
	switch n := s.(type) {
	case *ast.AssignStmt:
		return false, c.lowerAssign(f, n)
	case *ast.IfStmt:
		return false, c.lowerIf(f, n)
	case *ast.WhileStmt:
		return false, c.lowerWhile(f, n)
	case *ast.ForStmt:
		return false, c.lowerFor(f, n)
	case *ast.PrintStmt:
		return false, c.lowerPrint(f, n)
	case *ast.ReadStmt:
		return false, c.lowerRead(f, n)
	case *ast.ReturnStmt:
		return true, c.lowerReturn(f, n)
	default:
		return false, errf("lowering: unsupported statement node %T", s)
	}
}

// lowerAssign lowers an assignment: Value is visited as an r-value, Target
// as an l-value, and the popped value is stored to the popped address
// (§4.3).
func (c *Codegen) lowerAssign(f *frame, a *ast.AssignStmt) error {
	if err := c.lowerExpr(f, a.Value, rvalue); err != nil {
		return err
	}
	if err := c.lowerExpr(f, a.Target, lvalue); err != nil {
		return err
	}
	target, err := f.stack.Pop()
	if err != nil {
		return err
	}
	value, err := f.stack.Pop()
	if err != nil {
		return err
	}
	valText, err := operandText(value)
	if err != nil {
		return err
	}
	return c.storeTo(target, valText)
}

// storeTo emits the `store` instruction for an l-value popped off the
// shadow stack: GLOBAL targets a module-scope @name, REG targets a local
// alloca/element-pointer by its SSA number.
func (c *Codegen) storeTo(target ir.Value, valText string) error {
	switch target.Tag {
	case ir.TagGlobal:
		return c.em.Line("  store i32 %s, i32* @%s, align 4", valText, target.Global)
	case ir.TagReg:
		return c.em.Line("  store i32 %s, i32* %%%d, align 4", valText, target.Reg)
	default:
		return errf("lowering: assignment target is not an address (tag %v)", target.Tag)
	}
}

// lowerPrint lowers `print <expr>` to one printf call (§4.9).
func (c *Codegen) lowerPrint(f *frame, p *ast.PrintStmt) error {
	if err := c.lowerExpr(f, p.Arg, rvalue); err != nil {
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
	return c.em.Line(
		"  %%%d = call i32 (i8*, ...) @printf(i8* getelementptr inbounds ([4 x i8], [4 x i8]* %s, i64 0, i64 0), i32 %s)",
		reg, strConstName, text,
	)
}

// lowerRead lowers `read <target>` to one scanf call (§4.9). Target is
// visited in l-value mode; the popped GLOBAL or REG becomes the i32*
// argument.
func (c *Codegen) lowerRead(f *frame, r *ast.ReadStmt) error {
	if err := c.lowerExpr(f, r.Target, lvalue); err != nil {
		return err
	}
	v, err := f.stack.Pop()
	if err != nil {
		return err
	}
	var addr string
	switch v.Tag {
	case ir.TagGlobal:
		addr = "@" + v.Global
	case ir.TagReg:
		addr = "%" + itoa(int(v.Reg))
	default:
		return errf("lowering: read target is not an address (tag %v)", v.Tag)
	}
	reg := f.counter.Next()
	return c.em.Line(
		"  %%%d = call i32 (i8*, ...) @__isoc99_scanf(i8* getelementptr inbounds ([4 x i8], [4 x i8]* %s, i64 0, i64 0), i32* %s)",
		reg, strConstName, addr,
	)
}

// lowerReturn lowers `return <expr>` to `ret i32 <value>` (§4.11).
func (c *Codegen) lowerReturn(f *frame, r *ast.ReturnStmt) error {
	if err := c.lowerExpr(f, r.Value, rvalue); err != nil {
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
	return c.em.Line("  ret i32 %s", text)
}
