package lowering

import (
	"strings"

	"github.com/dcaiafa/p2llvm/ast"
	"github.com/dcaiafa/p2llvm/ir"
)

// lowerFunc emits one function definition (§4.7): signature, per-parameter
// alloca+store, local declarations, body, implicit `}`. Every FuncDecl in
// a Program is a non-main function in the §4.4 sense: the module's
// top-level body is the only thing that ever owns array storage as a
// concrete alloca; see lowerMain.
func (c *Codegen) lowerFunc(fn *ast.FuncDecl) error {
	types := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		types[i] = paramLLType(p.Entry)
	}
	if err := c.em.Line("define i32 @%s(%s) {", fn.Entry.Name, strings.Join(types, ", ")); err != nil {
		return err
	}

	f := newFrame(uint32(len(fn.Params)))
	f.counter.Skip() // implicit entry-block label (§3)

	guard := c.ctx.EnterFunc(true)
	defer guard.Close()

	for i, p := range fn.Params {
		if err := c.lowerParam(f, p, uint32(i)); err != nil {
			return err
		}
	}
	for _, ld := range fn.Locals {
		if err := c.lowerLocalDecl(f, ld); err != nil {
			return err
		}
	}

	if _, err := c.lowerStmts(f, fn.Body); err != nil {
		return err
	}
	// A function lacking an explicit return on some path is undefined
	// behavior of the generator (§4.7 Non-goal: synthesizing terminators
	// beyond what ReturnStmt emits); we trust the front-end here and do
	// not patch one in.

	if err := assertEmpty(f, "function body of "+fn.Entry.Name); err != nil {
		return err
	}
	return c.em.Line("}")
}

// lowerCall lowers a FunctionInvocation (§4.8): visit arguments
// left-to-right with ref_to_value=true, dealing_params=true; pop all N
// results and reverse them so argument order is preserved; mint one SSA
// number for the call result; push REG of the result.
func (c *Codegen) lowerCall(f *frame, call *ast.FunctionInvocation) error {
	argMode := mode{refToValue: true, dealingParams: true}
	for _, a := range call.Args {
		if err := c.lowerExpr(f, a, argMode); err != nil {
			return err
		}
	}
	argTexts := make([]string, len(call.Args))
	for i := len(call.Args) - 1; i >= 0; i-- {
		v, err := f.stack.Pop()
		if err != nil {
			return err
		}
		typ, text, err := callArgOperand(call.Args[i], v)
		if err != nil {
			return err
		}
		argTexts[i] = typ + " " + text
	}
	result := f.counter.Next()
	if err := c.em.Line("  %%%d = call i32 @%s(%s)", result, call.Callee.Name, strings.Join(argTexts, ", ")); err != nil {
		return err
	}
	f.stack.PushReg(result)
	return nil
}

// callArgOperand renders one call argument's LLVM type and operand text
// (§4.8): INT -> i32 <lit>; REG -> i32 %<n> for scalars, or the array
// pointer type (i32* / [d1 x i32]*) when the source argument is an array
// reference passed by its first-element address.
func callArgOperand(arg ast.Expr, v ir.Value) (typ, text string, err error) {
	text, err = operandText(v)
	if err != nil {
		return "", "", err
	}
	if vr, ok := arg.(*ast.VariableRef); ok && vr.Entry.Type.IsArray() && len(vr.Indices) == 0 {
		switch vr.Entry.Type.Rank() {
		case 1:
			return "i32*", text, nil
		case 2:
			return arrayRowType(vr.Entry.Type.Dims[1]) + "*", text, nil
		}
	}
	return "i32", text, nil
}
