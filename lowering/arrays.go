package lowering

import (
	"github.com/dcaiafa/p2llvm/ast"
	"github.com/dcaiafa/p2llvm/symbol"
)

// lowerArrayRef implements the array half of §4.4. Three shapes are
// distinguished: a bare array name used as a call argument or standalone
// address (first-element address via a zero-index GEP, no load), an
// indexed access (a GEP chain to the element, then a load iff refToValue),
// and the callee-vs-caller split on whether the array's storage is a
// concrete alloca (owned by the declaring function) or a pointer the
// function merely received (§4.4).
//
// Open-question resolution: spec.md's prose names the rank-2 GEP indices
// "idx1" (outer) and "idx0" (inner) without pinning which source position
// each refers to. This implementation indexes in the geometrically only
// correct order for the declared `[d0 x [d1 x i32]]` layout: Indices[0]
// (the first index written in source) selects the row via the outer GEP,
// Indices[1] selects the column via the inner GEP — any other assignment
// would address the wrong element for a genuinely two-dimensional array.
func (c *Codegen) lowerArrayRef(f *frame, vr *ast.VariableRef, m mode) error {
	e := vr.Entry
	nonMain := c.ctx.InNonMainFunc()
	slot, ok := f.binds.Slot(e)
	if !ok {
		return errf("lowering: array %q has no local binding (global arrays are a Non-goal)", e.Name)
	}

	if len(vr.Indices) == 0 {
		reg, err := c.arrayBaseAddress(f, e, slot, nonMain)
		if err != nil {
			return err
		}
		f.stack.PushReg(reg)
		return nil
	}

	addr, err := c.arrayElementAddress(f, e, slot, nonMain, vr.Indices)
	if err != nil {
		return err
	}
	if !m.refToValue {
		f.stack.PushReg(addr)
		return nil
	}
	reg := f.counter.Next()
	if err := c.em.Line("  %%%d = load i32, i32* %%%d, align 4", reg, addr); err != nil {
		return err
	}
	f.stack.PushReg(reg)
	return nil
}

// arrayBaseAddress materializes the address of the array's first element
// (rank 1) or first row (rank 2): a zero-index GEP for a concrete array,
// or a direct load of the already-pointer-valued slot for a non-main
// function (§4.4).
func (c *Codegen) arrayBaseAddress(f *frame, e *symbol.Entry, slot uint32, nonMain bool) (uint32, error) {
	if nonMain {
		ty := allocaType(e, true)
		reg := f.counter.Next()
		if err := c.em.Line("  %%%d = load %s, %s* %%%d, align %d", reg, ty, ty, slot, pointerAlign); err != nil {
			return 0, err
		}
		return reg, nil
	}
	ty := allocaType(e, false)
	reg := f.counter.Next()
	if err := c.em.Line("  %%%d = getelementptr inbounds %s, %s* %%%d, i64 0, i64 0", reg, ty, ty, slot); err != nil {
		return 0, err
	}
	return reg, nil
}

// arrayElementAddress visits the index expressions left-to-right, pops
// them in reverse (rightmost index on top, §4.4), and emits the GEP chain
// for either rank, returning the SSA number of the element pointer.
func (c *Codegen) arrayElementAddress(f *frame, e *symbol.Entry, slot uint32, nonMain bool, indices []ast.Expr) (uint32, error) {
	for _, ix := range indices {
		if err := c.lowerExpr(f, ix, rvalue); err != nil {
			return 0, err
		}
	}
	texts := make([]string, len(indices))
	for i := len(indices) - 1; i >= 0; i-- {
		v, err := f.stack.Pop()
		if err != nil {
			return 0, err
		}
		t, err := operandText(v)
		if err != nil {
			return 0, err
		}
		texts[i] = t
	}

	switch e.Type.Rank() {
	case 1:
		if nonMain {
			ptrTy := "i32*"
			ptrReg := f.counter.Next()
			if err := c.em.Line("  %%%d = load %s, %s* %%%d, align %d", ptrReg, ptrTy, ptrTy, slot, pointerAlign); err != nil {
				return 0, err
			}
			elemReg := f.counter.Next()
			if err := c.em.Line("  %%%d = getelementptr inbounds i32, i32* %%%d, i64 %s", elemReg, ptrReg, texts[0]); err != nil {
				return 0, err
			}
			return elemReg, nil
		}
		ty := allocaType(e, false)
		elemReg := f.counter.Next()
		if err := c.em.Line("  %%%d = getelementptr inbounds %s, %s* %%%d, i64 0, i64 %s", elemReg, ty, ty, slot, texts[0]); err != nil {
			return 0, err
		}
		return elemReg, nil

	case 2:
		rowTy := arrayRowType(e.Type.Dims[1])
		if nonMain {
			ptrReg := f.counter.Next()
			if err := c.em.Line("  %%%d = load %s*, %s** %%%d, align %d", ptrReg, rowTy, rowTy, slot, pointerAlign); err != nil {
				return 0, err
			}
			rowReg := f.counter.Next()
			if err := c.em.Line("  %%%d = getelementptr inbounds %s, %s* %%%d, i64 %s", rowReg, rowTy, rowTy, ptrReg, texts[0]); err != nil {
				return 0, err
			}
			elemReg := f.counter.Next()
			if err := c.em.Line("  %%%d = getelementptr inbounds %s, %s* %%%d, i64 0, i64 %s", elemReg, rowTy, rowTy, rowReg, texts[1]); err != nil {
				return 0, err
			}
			return elemReg, nil
		}
		ty := allocaType(e, false)
		rowReg := f.counter.Next()
		if err := c.em.Line("  %%%d = getelementptr inbounds %s, %s* %%%d, i64 0, i64 %s", rowReg, ty, ty, slot, texts[0]); err != nil {
			return 0, err
		}
		elemReg := f.counter.Next()
		if err := c.em.Line("  %%%d = getelementptr inbounds %s, %s* %%%d, i64 0, i64 %s", elemReg, rowTy, rowTy, rowReg, texts[1]); err != nil {
			return 0, err
		}
		return elemReg, nil

	default:
		return 0, errf("lowering: array %q has unsupported rank %d", e.Name, e.Type.Rank())
	}
}
