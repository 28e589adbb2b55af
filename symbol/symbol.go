// Package symbol describes the resolved-symbol contract handed to the
// lowering engine by the (external) semantic analyzer.
//
// The analyzer, lexer and parser are not part of this module: by the time
// an AST reaches package lowering, every identifier has already been
// resolved to an *Entry by whatever symbol manager the front-end used.
// This package only fixes the shape of that contract and provides a small
// table implementation good enough to resolve the JSON test/CLI fixtures
// used by package ast and cmd/p2llvm.
package symbol

import (
	"github.com/dcaiafa/p2llvm/types"
	"github.com/pkg/errors"
)

// Kind distinguishes what an Entry denotes.
type Kind int

const (
	Variable Kind = iota
	Parameter
	Constant
	Function
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Parameter:
		return "parameter"
	case Constant:
		return "constant"
	case Function:
		return "function"
	default:
		return "unknown"
	}
}

// Entry is a resolved identifier record. Level 0 means module (global)
// scope; Level > 0 is local to the function at that nesting depth. Entry
// values are shared by pointer: the lowering engine uses *Entry as a map
// key in its local-slot binding map, so two references to the same source
// identifier must resolve to the same *Entry.
type Entry struct {
	Name  string
	Kind  Kind
	Type  types.Type
	Level int
}

// Global reports whether the entry lives at module scope.
func (e *Entry) Global() bool { return e.Level == 0 }

// Table is the external symbol-manager interface referenced by §6 of the
// specification: lookup by name, plus scope reconstruct/remove so that
// shadowing and re-entering a scope behave correctly. The lowering engine
// itself does not call through this interface — AST nodes already carry
// resolved *Entry pointers — but front-ends (and the JSON AST loader used
// by this module's tests and CLI) use it to link names to entries.
type Table interface {
	Lookup(name string) (*Entry, bool)
	Reconstruct(e *Entry)
	Remove(name string)
}

// scope is one level of visibility: a set of names reconstructed at that
// level, so Remove can undo exactly what a matching Reconstruct added.
type scope struct {
	names map[string]*Entry
}

// MapTable is a minimal, map-backed Table. Each call to PushScope opens a
// new level; Reconstruct adds a name to the innermost open level; Remove
// deletes a name from whichever level currently holds it; PopScope removes
// every name added at the innermost level and closes it. This mirrors the
// push/pop discipline described in §4 DESIGN NOTES ("Scope stacks").
type MapTable struct {
	scopes []*scope
}

// NewMapTable returns a Table with a single (global) scope already open.
func NewMapTable() *MapTable {
	t := &MapTable{}
	t.PushScope()
	return t
}

// PushScope opens a new, innermost scope level.
func (t *MapTable) PushScope() {
	t.scopes = append(t.scopes, &scope{names: make(map[string]*Entry)})
}

// PopScope closes the innermost scope level, discarding every entry it
// reconstructed.
func (t *MapTable) PopScope() error {
	if len(t.scopes) == 0 {
		return errors.New("symbol: PopScope on empty scope stack")
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
	return nil
}

// Lookup searches from the innermost scope outward, so a local shadows a
// global of the same name.
func (t *MapTable) Lookup(name string) (*Entry, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if e, ok := t.scopes[i].names[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// Reconstruct makes e visible under e.Name at the innermost scope level.
func (t *MapTable) Reconstruct(e *Entry) {
	t.scopes[len(t.scopes)-1].names[e.Name] = e
}

// Remove hides name again at the innermost scope level that defines it.
func (t *MapTable) Remove(name string) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if _, ok := t.scopes[i].names[name]; ok {
			delete(t.scopes[i].names, name)
			return
		}
	}
}
