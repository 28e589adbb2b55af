package ir

import "github.com/pkg/errors"

// ScopeKind distinguishes module scope from function-local scope.
type ScopeKind int

const (
	Global ScopeKind = iota
	Local
)

// Context is the scope-kind stack plus the parallel "inside a non-main
// function" bit stack described in §2. The non-main bit controls whether
// an array variable lowers to a concrete alloca (main) or a
// pointer-holding alloca (any non-main function, for its array
// parameters and array locals alike); §4.4, §4.6.
type Context struct {
	scopes    []ScopeKind
	nonMain   []bool
}

// NewContext returns a context with the module-level Global scope already
// pushed, matching a codegen run's lifecycle (§3 Lifecycles).
func NewContext() *Context {
	return &Context{scopes: []ScopeKind{Global}}
}

// PushScope enters a new scope level.
func (c *Context) PushScope(k ScopeKind) { c.scopes = append(c.scopes, k) }

// PopScope leaves the innermost scope level.
func (c *Context) PopScope() error {
	if len(c.scopes) <= 1 {
		return errors.New("ir: cannot pop the module scope")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
	return nil
}

// ScopeKind returns the innermost scope's kind.
func (c *Context) ScopeKind() ScopeKind { return c.scopes[len(c.scopes)-1] }

// InGlobalScope reports whether the innermost scope is module scope.
func (c *Context) InGlobalScope() bool { return c.ScopeKind() == Global }

// PushFunc enters a function body, recording whether it is the non-main
// kind (i.e. array parameters are passed as pointers rather than owning
// their storage).
func (c *Context) PushFunc(nonMain bool) { c.nonMain = append(c.nonMain, nonMain) }

// PopFunc leaves the current function body.
func (c *Context) PopFunc() error {
	if len(c.nonMain) == 0 {
		return errors.New("ir: PopFunc with no function on the stack")
	}
	c.nonMain = c.nonMain[:len(c.nonMain)-1]
	return nil
}

// InNonMainFunc reports whether the innermost function context is a
// non-main function, i.e. whether array parameters in scope are pointers
// rather than concrete array storage (§4.4, §4.6). It is false outside
// any function (module scope / main's implicit body).
func (c *Context) InNonMainFunc() bool {
	if len(c.nonMain) == 0 {
		return false
	}
	return c.nonMain[len(c.nonMain)-1]
}

// Guard closes a scope or function level on Close, pairing exactly with
// the push that created it regardless of how the visit that owns it
// returns (§9 DESIGN NOTES: "a scope-guard abstraction that releases on
// all exit paths").
type Guard struct {
	close func() error
}

// Close releases the guarded scope/function level.
func (g Guard) Close() error {
	if g.close == nil {
		return nil
	}
	return g.close()
}

// EnterScope pushes k and returns a Guard that pops it.
func (c *Context) EnterScope(k ScopeKind) Guard {
	c.PushScope(k)
	return Guard{close: c.PopScope}
}

// EnterFunc pushes a function context and returns a Guard that pops it.
func (c *Context) EnterFunc(nonMain bool) Guard {
	c.PushFunc(nonMain)
	return Guard{close: c.PopFunc}
}
