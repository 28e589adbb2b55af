package lowering

import "github.com/dcaiafa/p2llvm/ast"

// lowerLocalDecl emits the alloca for a local scalar or array and binds its
// symbol to the resulting slot number (§4.6). Scalars may carry a constant
// initializer, lowered as an explicit store right after the alloca.
func (c *Codegen) lowerLocalDecl(f *frame, d *ast.VarDecl) error {
	nonMain := c.ctx.InNonMainFunc()
	typ := allocaType(d.Entry, nonMain)
	align := allocaAlign(d.Entry, nonMain)
	slot := f.counter.Next()
	if err := c.em.Line("  %%%d = alloca %s, align %d", slot, typ, align); err != nil {
		return err
	}
	if err := f.binds.Bind(d.Entry, slot); err != nil {
		return err
	}
	if d.Init == nil {
		return nil
	}
	if err := c.lowerExpr(f, d.Init, rvalue); err != nil {
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
	return c.em.Line("  store %s %s, %s* %%%d, align %d", typ, text, typ, slot, align)
}

// lowerParam emits a parameter's alloca and the initializing store that
// copies its incoming value (§4.6, §4.7). reg is the parameter's own SSA
// number, i.e. its 0-based position in the parameter list.
func (c *Codegen) lowerParam(f *frame, p *ast.ParamDecl, reg uint32) error {
	nonMain := true // parameters only occur in non-main functions
	typ := allocaType(p.Entry, nonMain)
	align := allocaAlign(p.Entry, nonMain)
	slot := f.counter.Next()
	if err := c.em.Line("  %%%d = alloca %s, align %d", slot, typ, align); err != nil {
		return err
	}
	if err := f.binds.Bind(p.Entry, slot); err != nil {
		return err
	}
	return c.em.Line("  store %s %%%d, %s* %%%d, align %d", typ, reg, typ, slot, align)
}
