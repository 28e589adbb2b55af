package lowering

import (
	"github.com/dcaiafa/p2llvm/ast"
	"github.com/dcaiafa/p2llvm/ir"
)

// condRegText returns the `%<n>` text for a condition value, which must be
// a REG (the i1 result of a comparison, consumed directly with no
// widening, §4.5). Any other tag is an unsupported-construct error (§7):
// this generator only lowers conditions built from comparison operators.
func condRegText(v ir.Value) (string, error) {
	if v.Tag != ir.TagReg {
		return "", errf("lowering: condition is not a comparison result (tag %v)", v.Tag)
	}
	return "%" + itoa(int(v.Reg)), nil
}

// emitUncondBranch emits `br label %<n>` to an already-known label number.
func (c *Codegen) emitUncondBranch(label uint32) error {
	return c.em.Line("  br label %%%d", label)
}

// emitUncondBranchPH emits `br label %` followed by a patch placeholder
// for a not-yet-known forward label, returning the patch point.
func (c *Codegen) emitUncondBranchPH() (ir.PatchPoint, error) {
	if err := c.em.Raw("  br label %"); err != nil {
		return ir.PatchPoint{}, err
	}
	pp, err := c.em.Placeholder()
	if err != nil {
		return ir.PatchPoint{}, err
	}
	return pp, c.em.Raw("\n")
}

// emitLabel emits a bare basic-block label header: `<n>:`.
func (c *Codegen) emitLabel(n uint32) error {
	return c.em.Line("%d:", n)
}

// lowerIf implements §4.10's forward-patching if/then/[else]. The
// continuation block (<outL>) is always minted and emitted, even when
// every branch returns, since whatever source statement follows the `if`
// still needs a block to live in.
func (c *Codegen) lowerIf(f *frame, n *ast.IfStmt) error {
	if err := c.lowerExpr(f, n.Cond, rvalue); err != nil {
		return err
	}
	condVal, err := f.stack.Pop()
	if err != nil {
		return err
	}
	condText, err := condRegText(condVal)
	if err != nil {
		return err
	}

	thenLabel := f.counter.Peek()
	if err := c.em.Raw("  br i1 " + condText + ", label %" + itoa(int(thenLabel)) + ", label %"); err != nil {
		return err
	}
	ph1, err := c.em.Placeholder()
	if err != nil {
		return err
	}
	if err := c.em.Raw("\n"); err != nil {
		return err
	}
	if got := f.counter.Next(); got != thenLabel {
		return errf("lowering: internal numbering mismatch minting then-label")
	}
	if err := c.emitLabel(thenLabel); err != nil {
		return err
	}

	thenHasRet, err := c.lowerStmts(f, n.Then)
	if err != nil {
		return err
	}
	var ph2 ir.PatchPoint
	havePH2 := false
	if !thenHasRet {
		ph2, err = c.emitUncondBranchPH()
		if err != nil {
			return err
		}
		havePH2 = true
	}

	if len(n.Else) > 0 {
		elseLabel := f.counter.Next()
		if err := c.em.Patch(ph1, elseLabel); err != nil {
			return err
		}
		if err := c.emitLabel(elseLabel); err != nil {
			return err
		}
		elseHasRet, err := c.lowerStmts(f, n.Else)
		if err != nil {
			return err
		}
		var ph3 ir.PatchPoint
		havePH3 := false
		if !elseHasRet {
			ph3, err = c.emitUncondBranchPH()
			if err != nil {
				return err
			}
			havePH3 = true
		}
		outLabel := f.counter.Next()
		if havePH2 {
			if err := c.em.Patch(ph2, outLabel); err != nil {
				return err
			}
		}
		if havePH3 {
			if err := c.em.Patch(ph3, outLabel); err != nil {
				return err
			}
		}
		return c.emitLabel(outLabel)
	}

	outLabel := f.counter.Next()
	if err := c.em.Patch(ph1, outLabel); err != nil {
		return err
	}
	if havePH2 {
		if err := c.em.Patch(ph2, outLabel); err != nil {
			return err
		}
	}
	return c.emitLabel(outLabel)
}

// lowerWhile implements §4.10's forward-patching while loop.
func (c *Codegen) lowerWhile(f *frame, n *ast.WhileStmt) error {
	headLabel := f.counter.Peek()
	if err := c.emitUncondBranch(headLabel); err != nil {
		return err
	}
	if got := f.counter.Next(); got != headLabel {
		return errf("lowering: internal numbering mismatch minting while head label")
	}
	if err := c.emitLabel(headLabel); err != nil {
		return err
	}

	if err := c.lowerExpr(f, n.Cond, rvalue); err != nil {
		return err
	}
	condVal, err := f.stack.Pop()
	if err != nil {
		return err
	}
	condText, err := condRegText(condVal)
	if err != nil {
		return err
	}

	bodyLabel := f.counter.Peek()
	if err := c.em.Raw("  br i1 " + condText + ", label %" + itoa(int(bodyLabel)) + ", label %"); err != nil {
		return err
	}
	ph, err := c.em.Placeholder()
	if err != nil {
		return err
	}
	if err := c.em.Raw("\n"); err != nil {
		return err
	}
	if got := f.counter.Next(); got != bodyLabel {
		return errf("lowering: internal numbering mismatch minting while body label")
	}
	if err := c.emitLabel(bodyLabel); err != nil {
		return err
	}

	bodyHasRet, err := c.lowerStmts(f, n.Body)
	if err != nil {
		return err
	}
	if !bodyHasRet {
		if err := c.emitUncondBranch(headLabel); err != nil {
			return err
		}
	}

	outLabel := f.counter.Next()
	if err := c.em.Patch(ph, outLabel); err != nil {
		return err
	}
	return c.emitLabel(outLabel)
}

// lowerFor implements §4.10's forward-patching counting loop. The loop
// variable is declared and scoped to the loop: a Local context is pushed
// for its alloca and popped on exit (§4.10).
func (c *Codegen) lowerFor(f *frame, n *ast.ForStmt) error {
	guard := c.ctx.EnterScope(ir.Local)
	defer guard.Close()

	slot := f.counter.Next()
	if err := c.em.Line("  %%%d = alloca i32, align 4", slot); err != nil {
		return err
	}
	if err := f.binds.Bind(n.Var, slot); err != nil {
		return err
	}
	if err := c.lowerExpr(f, n.Init, rvalue); err != nil {
		return err
	}
	initVal, err := f.stack.Pop()
	if err != nil {
		return err
	}
	initText, err := operandText(initVal)
	if err != nil {
		return err
	}
	if err := c.em.Line("  store i32 %s, i32* %%%d, align 4", initText, slot); err != nil {
		return err
	}

	headLabel := f.counter.Peek()
	if err := c.emitUncondBranch(headLabel); err != nil {
		return err
	}
	if got := f.counter.Next(); got != headLabel {
		return errf("lowering: internal numbering mismatch minting for head label")
	}
	if err := c.emitLabel(headLabel); err != nil {
		return err
	}

	loadReg := f.counter.Next()
	if err := c.em.Line("  %%%d = load i32, i32* %%%d, align 4", loadReg, slot); err != nil {
		return err
	}
	if err := c.lowerExpr(f, n.Upper, rvalue); err != nil {
		return err
	}
	upperVal, err := f.stack.Pop()
	if err != nil {
		return err
	}
	upperText, err := operandText(upperVal)
	if err != nil {
		return err
	}
	cmpReg := f.counter.Next()
	if err := c.em.Line("  %%%d = icmp slt i32 %%%d, %s", cmpReg, loadReg, upperText); err != nil {
		return err
	}

	bodyLabel := f.counter.Peek()
	if err := c.em.Raw("  br i1 %" + itoa(int(cmpReg)) + ", label %" + itoa(int(bodyLabel)) + ", label %"); err != nil {
		return err
	}
	ph, err := c.em.Placeholder()
	if err != nil {
		return err
	}
	if err := c.em.Raw("\n"); err != nil {
		return err
	}
	if got := f.counter.Next(); got != bodyLabel {
		return errf("lowering: internal numbering mismatch minting for body label")
	}
	if err := c.emitLabel(bodyLabel); err != nil {
		return err
	}

	bodyHasRet, err := c.lowerStmts(f, n.Body)
	if err != nil {
		return err
	}
	if !bodyHasRet {
		incLoadReg := f.counter.Next()
		if err := c.em.Line("  %%%d = load i32, i32* %%%d, align 4", incLoadReg, slot); err != nil {
			return err
		}
		incReg := f.counter.Next()
		if err := c.em.Line("  %%%d = add nsw i32 %%%d, 1", incReg, incLoadReg); err != nil {
			return err
		}
		if err := c.em.Line("  store i32 %%%d, i32* %%%d, align 4", incReg, slot); err != nil {
			return err
		}
		if err := c.emitUncondBranch(headLabel); err != nil {
			return err
		}
	}

	outLabel := f.counter.Next()
	if err := c.em.Patch(ph, outLabel); err != nil {
		return err
	}
	return c.emitLabel(outLabel)
}
