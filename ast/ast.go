// Package ast defines the shape of the fully type-checked, symbol-resolved
// AST this module's lowering engine consumes (§6 EXTERNAL INTERFACES).
//
// The lexer, parser and semantic analyzer that produce a tree of these
// nodes are external collaborators and are not part of this module (§1).
// What lives here is only the data contract: by the time a *Program
// reaches package lowering, every VariableRef and FunctionInvocation
// already carries a resolved *symbol.Entry, and every node's static type
// is already known.
package ast

import "github.com/dcaiafa/p2llvm/symbol"

// Program is the root of a fully resolved AST: module-scope declarations,
// function definitions, then the top-level statement body (lowered into
// @main, §4.7/§12).
type Program struct {
	SourcePath string
	Decls      []*VarDecl
	// Locals holds declarations made inside the top-level program block
	// that are NOT module-scope globals: per §4.4/§4.6, an array named at
	// program level owns concrete alloca storage in @main exactly like a
	// function-local array, rather than becoming an LLVM global. Scalar
	// module-scope variables go in Decls instead (§4.6).
	Locals []*VarDecl
	Funcs  []*FuncDecl
	Body   []Stmt
}

// VarDecl declares one variable, constant, or array, at whatever scope its
// Entry.Level indicates. On a scalar global, Init is the constant
// initializer (§4.6, §12). On a local, Init is lowered as a store right
// after the alloca; a local without Init gets no initializing store.
type VarDecl struct {
	Entry *symbol.Entry
	Init  Expr
}

// ParamDecl declares one function parameter. Parameters are always locals
// at the function's scope level.
type ParamDecl struct {
	Entry *symbol.Entry
}

// FuncDecl is one source-language function. Return type is fixed to
// integer (§4.7); Locals holds every local VarDecl visited before Body.
type FuncDecl struct {
	Entry  *symbol.Entry
	Params []*ParamDecl
	Locals []*VarDecl
	Body   []Stmt
}

// Stmt is implemented by every statement/declaration-visiting node. The
// shadow stack must be at the same depth after Stmt as before (§3).
type Stmt interface{ stmtNode() }

// Expr is implemented by every expression-producing node. Visiting an Expr
// pushes exactly one value onto the shadow stack (§3).
type Expr interface{ exprNode() }

// AssignStmt lowers to storing Value's materialized r-value into Target's
// l-value address (§4.3).
type AssignStmt struct {
	Target Expr // VariableRef, scalar or array-indexed
	Value  Expr
}

// IfStmt is the forward-patched if/then/[else] construct (§4.10).
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt // nil/empty when there is no else-branch
}

// WhileStmt is the forward-patched while loop (§4.10).
type WhileStmt struct {
	Cond Expr
	Body []Stmt
}

// ForStmt is the forward-patched counting loop (§4.10). Var is declared
// and initialized by the loop itself, scoped to the loop (its own Local
// context is pushed for the duration and popped on exit). Upper must be an
// integer literal or a register-valued expression per §4.10; only the
// literal form is exercised in the core scenarios.
type ForStmt struct {
	Var   *symbol.Entry
	Init  Expr
	Upper Expr
	Body  []Stmt
}

// PrintStmt lowers to one printf call with the shared %d format (§4.9).
type PrintStmt struct {
	Arg Expr
}

// ReadStmt lowers to one scanf call with the shared %d format; Target is
// visited in l-value mode (§4.9).
type ReadStmt struct {
	Target Expr
}

// ReturnStmt sets has_ret and lowers to `ret i32 <value>` (§4.11).
type ReturnStmt struct {
	Value Expr
}

func (*AssignStmt) stmtNode() {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()    {}
func (*PrintStmt) stmtNode()  {}
func (*ReadStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode() {}

// IntLit is an immediate 32-bit integer literal.
type IntLit struct{ Value int32 }

// FloatLit is an immediate 32-bit float literal. Float codegen is a
// Non-goal (§1): the value may ride the shadow stack but no handler lowers
// it to an instruction.
type FloatLit struct{ Value float32 }

// StringLit is an immediate interned string literal. String printing is a
// Non-goal (§1): the value may ride the shadow stack but nothing prints it.
type StringLit struct{ Value string }

// BinOp enumerates the binary operators of §4.5.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
)

// BinaryExpr visits Left then Right (§4.5) and produces one REG.
type BinaryExpr struct {
	Op          BinOp
	Left, Right Expr
}

// UnaryExpr is source-language negation: `sub nsw i32 0, x` (§4.5).
type UnaryExpr struct {
	Operand Expr
}

// VariableRef denotes a scalar or array variable/parameter reference.
// Indices is empty for a scalar. Whether it produces an address or a
// materialized value depends on the l-value/r-value mode the parent sets
// before visiting it (§4.3, §4.4).
type VariableRef struct {
	Entry   *symbol.Entry
	Indices []Expr // evaluated left-to-right, popped rightmost-first (§4.4)
}

// FunctionInvocation calls Callee with Args, visited left-to-right with
// ref_to_value=true and dealing_params=true (§4.8).
type FunctionInvocation struct {
	Callee *symbol.Entry
	Args   []Expr
}

func (*IntLit) exprNode()              {}
func (*FloatLit) exprNode()            {}
func (*StringLit) exprNode()           {}
func (*BinaryExpr) exprNode()          {}
func (*UnaryExpr) exprNode()           {}
func (*VariableRef) exprNode()         {}
func (*FunctionInvocation) exprNode()  {}
