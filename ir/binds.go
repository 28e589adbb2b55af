package ir

import (
	"github.com/dcaiafa/p2llvm/symbol"
	"github.com/pkg/errors"
)

// Binds is the local-slot map: symbol entry -> SSA value number of the
// `alloca` holding its storage (§3 DATA MODEL). Entries are added at
// declaration time, never rebound, and are scoped to the enclosing
// function; the map is reset on function exit (§3 Lifecycles).
type Binds struct {
	slots map[*symbol.Entry]uint32
}

// NewBinds returns an empty local-slot map, created fresh for each
// function lowering.
func NewBinds() *Binds {
	return &Binds{slots: make(map[*symbol.Entry]uint32)}
}

// Bind records that e's storage lives in the alloca numbered slot. Binding
// an already-bound entry is an internal invariant violation: locals are
// never rebound (§3).
func (b *Binds) Bind(e *symbol.Entry, slot uint32) error {
	if _, ok := b.slots[e]; ok {
		return errors.Errorf("ir: symbol %q already bound to a local slot", e.Name)
	}
	b.slots[e] = slot
	return nil
}

// Slot returns the SSA value number of e's alloca.
func (b *Binds) Slot(e *symbol.Entry) (uint32, bool) {
	n, ok := b.slots[e]
	return n, ok
}
