package ast

import (
	"encoding/json"

	"github.com/dcaiafa/p2llvm/symbol"
	"github.com/dcaiafa/p2llvm/types"
	"github.com/pkg/errors"
)

// Decode reads the JSON interchange format produced by an external
// front-end (lexer/parser/analyzer, out of scope per §1) and returns a
// fully linked *Program: every name reference is resolved to a *symbol.Entry
// via table, the same way a real symbol manager would hand resolved
// entries to codegen. This is not semantic analysis — it performs no type
// checking and trusts that the input is already well-formed — it only
// turns textual names back into shared pointers, since JSON cannot encode
// Go pointer identity directly.
func Decode(data []byte, table symbol.Table) (*Program, error) {
	var w wireProgram
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "ast: decode program")
	}
	d := &decoder{table: table}
	return d.program(&w)
}

type decoder struct {
	table symbol.Table
}

type wireType struct {
	Elem string `json:"elem"`
	Dims []int  `json:"dims,omitempty"`
}

func (d *decoder) typ(w wireType) (types.Type, error) {
	var k types.Kind
	switch w.Elem {
	case "integer", "":
		k = types.Integer
	case "boolean":
		k = types.Boolean
	case "real":
		k = types.Real
	case "string":
		k = types.String
	case "void":
		k = types.Void
	default:
		return types.Type{}, errors.Errorf("ast: unknown type %q", w.Elem)
	}
	if len(w.Dims) > 2 {
		return types.Type{}, errors.Errorf("ast: array rank %d unsupported", len(w.Dims))
	}
	return types.Type{Elem: k, Dims: w.Dims}, nil
}

type wireEntry struct {
	Name  string   `json:"name"`
	Kind  string   `json:"kind"`
	Type  wireType `json:"type"`
	Level int      `json:"level"`
}

func (d *decoder) defineEntry(w wireEntry) (*symbol.Entry, error) {
	t, err := d.typ(w.Type)
	if err != nil {
		return nil, err
	}
	var k symbol.Kind
	switch w.Kind {
	case "variable", "":
		k = symbol.Variable
	case "parameter":
		k = symbol.Parameter
	case "constant":
		k = symbol.Constant
	case "function":
		k = symbol.Function
	default:
		return nil, errors.Errorf("ast: unknown symbol kind %q", w.Kind)
	}
	e := &symbol.Entry{Name: w.Name, Kind: k, Type: t, Level: w.Level}
	d.table.Reconstruct(e)
	return e, nil
}

func (d *decoder) ref(name string) (*symbol.Entry, error) {
	e, ok := d.table.Lookup(name)
	if !ok {
		return nil, errors.Errorf("ast: reference to undefined symbol %q", name)
	}
	return e, nil
}

type wireProgram struct {
	SourcePath string      `json:"source_path"`
	Globals    []wireEntry `json:"globals"`
	Decls      []wireDecl  `json:"decls"`
	Locals     []wireDecl  `json:"locals,omitempty"`
	Funcs      []wireFunc  `json:"funcs"`
	Body       []wireStmt  `json:"body"`
}

type wireDecl struct {
	Entry wireEntry       `json:"entry"`
	Init  json.RawMessage `json:"init,omitempty"`
}

type wireFunc struct {
	Entry  wireEntry       `json:"entry"`
	Params []wireEntry     `json:"params"`
	Locals []wireDecl      `json:"locals"`
	Body   []wireStmt      `json:"body"`
}

func (d *decoder) program(w *wireProgram) (*Program, error) {
	for _, g := range w.Globals {
		if _, err := d.defineEntry(g); err != nil {
			return nil, err
		}
	}
	p := &Program{SourcePath: w.SourcePath}
	for _, wd := range w.Decls {
		vd, err := d.varDecl(wd)
		if err != nil {
			return nil, err
		}
		p.Decls = append(p.Decls, vd)
	}
	for _, wl := range w.Locals {
		vd, err := d.varDecl(wl)
		if err != nil {
			return nil, err
		}
		p.Locals = append(p.Locals, vd)
	}
	for _, wf := range w.Funcs {
		fd, err := d.funcDecl(wf)
		if err != nil {
			return nil, err
		}
		p.Funcs = append(p.Funcs, fd)
	}
	body, err := d.stmts(w.Body)
	if err != nil {
		return nil, err
	}
	p.Body = body
	return p, nil
}

func (d *decoder) varDecl(w wireDecl) (*VarDecl, error) {
	e, err := d.defineEntry(w.Entry)
	if err != nil {
		return nil, err
	}
	vd := &VarDecl{Entry: e}
	if len(w.Init) > 0 {
		init, err := d.expr(w.Init)
		if err != nil {
			return nil, err
		}
		vd.Init = init
	}
	return vd, nil
}

func (d *decoder) funcDecl(w wireFunc) (*FuncDecl, error) {
	e, err := d.defineEntry(w.Entry)
	if err != nil {
		return nil, err
	}
	fd := &FuncDecl{Entry: e}
	for _, wp := range w.Params {
		pe, err := d.defineEntry(wp)
		if err != nil {
			return nil, err
		}
		fd.Params = append(fd.Params, &ParamDecl{Entry: pe})
	}
	for _, wl := range w.Locals {
		vd, err := d.varDecl(wl)
		if err != nil {
			return nil, err
		}
		fd.Locals = append(fd.Locals, vd)
	}
	body, err := d.stmts(w.Body)
	if err != nil {
		return nil, err
	}
	fd.Body = body
	return fd, nil
}

type wireStmt struct {
	Kind   string          `json:"kind"`
	Target json.RawMessage `json:"target,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
	Cond   json.RawMessage `json:"cond,omitempty"`
	Then   []wireStmt      `json:"then,omitempty"`
	Else   []wireStmt      `json:"else,omitempty"`
	Var    string           `json:"var,omitempty"`
	Init   json.RawMessage `json:"init,omitempty"`
	Upper  json.RawMessage `json:"upper,omitempty"`
	Body   []wireStmt      `json:"body,omitempty"`
	Arg    json.RawMessage `json:"arg,omitempty"`
}

func (d *decoder) stmts(ws []wireStmt) ([]Stmt, error) {
	out := make([]Stmt, 0, len(ws))
	for _, w := range ws {
		s, err := d.stmt(w)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) stmt(w wireStmt) (Stmt, error) {
	switch w.Kind {
	case "assign":
		target, err := d.expr(w.Target)
		if err != nil {
			return nil, err
		}
		value, err := d.expr(w.Value)
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Target: target, Value: value}, nil
	case "if":
		cond, err := d.expr(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := d.stmts(w.Then)
		if err != nil {
			return nil, err
		}
		els, err := d.stmts(w.Else)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Cond: cond, Then: then, Else: els}, nil
	case "while":
		cond, err := d.expr(w.Cond)
		if err != nil {
			return nil, err
		}
		body, err := d.stmts(w.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body}, nil
	case "for":
		init, err := d.expr(w.Init)
		if err != nil {
			return nil, err
		}
		upper, err := d.expr(w.Upper)
		if err != nil {
			return nil, err
		}
		body, err := d.stmts(w.Body)
		if err != nil {
			return nil, err
		}
		v, err := d.ref(w.Var)
		if err != nil {
			return nil, err
		}
		return &ForStmt{Var: v, Init: init, Upper: upper, Body: body}, nil
	case "print":
		arg, err := d.expr(w.Arg)
		if err != nil {
			return nil, err
		}
		return &PrintStmt{Arg: arg}, nil
	case "read":
		target, err := d.expr(w.Target)
		if err != nil {
			return nil, err
		}
		return &ReadStmt{Target: target}, nil
	case "return":
		value, err := d.expr(w.Value)
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Value: value}, nil
	default:
		return nil, errors.Errorf("ast: unknown statement kind %q", w.Kind)
	}
}

type wireExpr struct {
	Kind    string            `json:"kind"`
	Value   json.RawMessage   `json:"value,omitempty"`
	Name    string            `json:"name,omitempty"`
	Indices []json.RawMessage `json:"indices,omitempty"`
	Op      string            `json:"op,omitempty"`
	Left    json.RawMessage   `json:"left,omitempty"`
	Right   json.RawMessage   `json:"right,omitempty"`
	Operand json.RawMessage   `json:"operand,omitempty"`
	Callee  string            `json:"callee,omitempty"`
	Args    []json.RawMessage `json:"args,omitempty"`
}

var binOps = map[string]BinOp{
	"+": Add, "-": Sub, "*": Mul, "/": Div, "mod": Mod,
	"<": Lt, "<=": Le, ">": Gt, ">=": Ge, "=": Eq, "<>": Ne,
}

func (d *decoder) expr(raw json.RawMessage) (Expr, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var w wireExpr
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, errors.Wrap(err, "ast: decode expr")
	}
	switch w.Kind {
	case "int":
		var v int32
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, errors.Wrap(err, "ast: decode int literal")
		}
		return &IntLit{Value: v}, nil
	case "float":
		var v float32
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, errors.Wrap(err, "ast: decode float literal")
		}
		return &FloatLit{Value: v}, nil
	case "string":
		var v string
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, errors.Wrap(err, "ast: decode string literal")
		}
		return &StringLit{Value: v}, nil
	case "var":
		e, err := d.ref(w.Name)
		if err != nil {
			return nil, err
		}
		vr := &VariableRef{Entry: e}
		for _, ix := range w.Indices {
			ie, err := d.expr(ix)
			if err != nil {
				return nil, err
			}
			vr.Indices = append(vr.Indices, ie)
		}
		return vr, nil
	case "binary":
		op, ok := binOps[w.Op]
		if !ok {
			return nil, errors.Errorf("ast: unknown binary operator %q", w.Op)
		}
		left, err := d.expr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.expr(w.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op, Left: left, Right: right}, nil
	case "neg":
		operand, err := d.expr(w.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operand: operand}, nil
	case "call":
		callee, err := d.ref(w.Callee)
		if err != nil {
			return nil, err
		}
		fi := &FunctionInvocation{Callee: callee}
		for _, a := range w.Args {
			ae, err := d.expr(a)
			if err != nil {
				return nil, err
			}
			fi.Args = append(fi.Args, ae)
		}
		return fi, nil
	default:
		return nil, errors.Errorf("ast: unknown expression kind %q", w.Kind)
	}
}
