package lowering

import (
	"github.com/dcaiafa/p2llvm/ast"
	"github.com/dcaiafa/p2llvm/symbol"
)

// emitHeader writes the fixed file prologue: source_filename, datalayout,
// triple, the printf/scanf declarations, and the shared format-string
// constant (§6 FILE FORMAT). This block is byte-for-byte fixed, matching
// the original p2llvm compiler this spec was distilled from (§12).
func (c *Codegen) emitHeader(sourcePath string) error {
	if err := c.em.Line("source_filename = %q", sourcePath); err != nil {
		return err
	}
	if err := c.em.Line(`target datalayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-f80:128-n8:16:32:64-S128"`); err != nil {
		return err
	}
	if err := c.em.Line(`target triple = "x86_64-pc-linux-gnu"`); err != nil {
		return err
	}
	if err := c.em.Line(""); err != nil {
		return err
	}
	if err := c.em.Line("declare i32 @printf(i8*, ...)"); err != nil {
		return err
	}
	if err := c.em.Line("declare i32 @__isoc99_scanf(i8*, ...)"); err != nil {
		return err
	}
	if err := c.em.Line(""); err != nil {
		return err
	}
	if err := c.em.Line(`%s = private unnamed_addr constant [4 x i8] c"%%d\0A\00", align 1`, strConstName); err != nil {
		return err
	}
	return c.em.Line("")
}

// lowerGlobalDecl emits a module-scope global (§4.6). Only integer scalars
// are specified; arrays and other primitive types at global scope are a
// Non-goal (§1).
func (c *Codegen) lowerGlobalDecl(d *ast.VarDecl) error {
	init := int32(0)
	if lit, ok := d.Init.(*ast.IntLit); ok {
		init = lit.Value
	}
	return c.em.Line("@%s = global i32 %d, align 4", d.Entry.Name, init)
}

// lowerMain lowers the program's top-level local declarations and
// statement body into `define i32 @main() { ... ret i32 0 }` (§6, §12).
// main is treated as an ordinary (non-main-in-the-§4.4-sense... it
// literally *is* main, so arrays it declares get concrete storage, not
// pointer parameters) function with its own numbering/local-slot/shadow-
// stack frame, consuming no parameters.
func (c *Codegen) lowerMain(locals []*ast.VarDecl, body []ast.Stmt) error {
	if err := c.em.Line("define i32 @main() {"); err != nil {
		return err
	}
	f := newFrame(0)
	f.counter.Skip() // implicit entry-block label (§3)
	guard := c.ctx.EnterFunc(false)
	defer guard.Close()
	for _, ld := range locals {
		if err := c.lowerLocalDecl(f, ld); err != nil {
			return err
		}
	}
	hasRet, err := c.lowerStmts(f, body)
	if err != nil {
		return err
	}
	if !hasRet {
		if err := c.em.Line("  ret i32 0"); err != nil {
			return err
		}
	}
	if err := assertEmpty(f, "main body"); err != nil {
		return err
	}
	return c.em.Line("}")
}

// paramLLType returns the LLVM parameter type for e, following the
// pointer-form array rule of §4.4/§4.6: rank 1 -> i32*, rank 2 -> [d1 x
// i32]*, scalar -> i32.
func paramLLType(e *symbol.Entry) string {
	switch e.Type.Rank() {
	case 0:
		return "i32"
	case 1:
		return "i32*"
	case 2:
		return arrayRowType(e.Type.Dims[1]) + "*"
	default:
		return "i32" // unreachable: rank > 2 is rejected at decode time
	}
}

// arrayRowType renders the LLVM type of one row of a rank-2 array, e.g.
// "[10 x i32]".
func arrayRowType(d1 int) string {
	return "[" + itoa(d1) + " x i32]"
}
