// Package lowering implements the lowering visitor (§4.3–§4.11): the
// traversal that converts a fully resolved *ast.Program into textual LLVM
// IR, driving the Emitter, shadow stack, numbering authority, context
// stack and local-slot binding map of package ir.
package lowering

import (
	"github.com/dcaiafa/p2llvm/ast"
	"github.com/dcaiafa/p2llvm/ir"
	"github.com/pkg/errors"
)

// strConstName is the module-scope format-string constant shared by every
// print/read call (§4.9, §6).
const strConstName = "@.str"

// mode carries the per-visit flags that the source implementation kept as
// object fields (ref_to_value, dealing_params). Threading them as an
// explicit argument instead removes the aliasing hazards recursion creates
// over shared mutable fields (§9 DESIGN NOTES).
type mode struct {
	// refToValue selects l-value (false: want an address/symbolic target)
	// vs r-value (true: want a materialized value) context (§4.3).
	refToValue bool
	// dealingParams marks that the enclosing visit is a call-argument
	// list. No handler reads it: an unindexed array-typed VariableRef
	// lowers to its base address in every context (§4.4).
	dealingParams bool
}

var rvalue = mode{refToValue: true}
var lvalue = mode{refToValue: false}

// frame is the per-function lowering state: everything that is created
// fresh at the start of a function lowering and torn down at its end
// (§3 Lifecycles). The module-level Codegen.ctx scope/non-main stack is
// the only state that spans frames, since it is itself a properly
// nested push/pop structure rather than a flat mutable flag.
type frame struct {
	stack   *ir.Stack
	counter *ir.Counter
	binds   *ir.Binds
}

// Codegen lowers one *ast.Program into one Emitter's output stream. A
// Codegen instance is used for exactly one codegen run (§5 CONCURRENCY &
// RESOURCE MODEL): it owns no state beyond the output sink and the scope
// context stack, both reset/closed deterministically by the caller.
type Codegen struct {
	em  *ir.Emitter
	ctx *ir.Context
}

// New returns a Codegen that writes to em.
func New(em *ir.Emitter) *Codegen {
	return &Codegen{em: em, ctx: ir.NewContext()}
}

// Lower emits the full .ll file for prog: header, globals, function
// definitions, then the top-level body wrapped in @main (§6, §12).
func (c *Codegen) Lower(prog *ast.Program) error {
	if err := c.emitHeader(prog.SourcePath); err != nil {
		return err
	}
	for _, d := range prog.Decls {
		if err := c.lowerGlobalDecl(d); err != nil {
			return err
		}
	}
	for _, fn := range prog.Funcs {
		if err := c.lowerFunc(fn); err != nil {
			return err
		}
	}
	if err := c.lowerMain(prog.Locals, prog.Body); err != nil {
		return err
	}
	return nil
}

// newFrame starts a fresh function lowering frame. paramCount seeds the
// numbering counter at N, since an N-parameter function's parameters
// consume numbers 0..N-1 before anything else is minted (§3).
func newFrame(paramCount uint32) *frame {
	return &frame{
		stack:   ir.NewStack(),
		counter: ir.NewCounter(paramCount),
		binds:   ir.NewBinds(),
	}
}

// assertEmpty reports an error if the shadow stack is not empty. It is
// called once at the end of each function body (and of main), so a
// statement that left a value behind is caught there rather than at the
// statement itself (§3).
func assertEmpty(f *frame, where string) error {
	if n := f.stack.Len(); n != 0 {
		return errors.Errorf("lowering: shadow stack has %d leftover value(s) after %s", n, where)
	}
	return nil
}
