// Package recursion implements structural recursion checking: every
// self-call inside a recursive Fun's body must pass, at the function's
// declared decreasing parameter index, an argument that is a strict
// substructure of that same parameter (or a substructure of something
// descended from it through pattern matching), guaranteeing termination
// the same way Coq's guard condition does.
package recursion

import "zokernel/internal/ast"

// Strict records whether a substructure relationship is strict (properly
// smaller) or merely non-strict (possibly equal).
type Strict bool

func (s Strict) or(other Strict) Strict  { return s || other }
func (s Strict) and(other Strict) Strict { return s && other }

type entryKind int

const (
	entryIrrelevant entryKind = iota
	entryRecursiveFun
	entryNonrecursiveFun
	entryDecreasingParam
	entryDecreasingParamStrictSubstruct
)

// parentRef names the de Bruijn index of a DecreasingParam's ancestor
// parameter, and whether descent from it was strict.
type parentRef struct {
	deb    uint64
	strict Strict
}

// entry is one binder's recursion-checking status. Only one of the
// kind-specific fields is meaningful, selected by kind.
type entry struct {
	kind               entryKind
	decreasingArgIndex uint64
	definitionSrc      *ast.Fun[ast.Minimal]
	parent             *parentRef // entryDecreasingParam
	parentParam        uint64     // entryDecreasingParamStrictSubstruct
}

func irrelevant() entry { return entry{kind: entryIrrelevant} }

// upshift adjusts the de Bruijn references an entry stores internally
// (relative to its own binder) into absolute coordinates relative to a
// frame `amount` binders further out. Only DecreasingParam and
// DecreasingParamStrictSubstruct carry any reference to shift.
func (e entry) upshift(amount uint64) entry {
	switch e.kind {
	case entryDecreasingParam:
		if e.parent == nil {
			return e
		}
		shifted := parentRef{deb: e.parent.deb + amount, strict: e.parent.strict}
		return entry{kind: entryDecreasingParam, parent: &shifted}
	case entryDecreasingParamStrictSubstruct:
		return entry{kind: entryDecreasingParamStrictSubstruct, parentParam: e.parentParam + amount}
	default:
		return e
	}
}

// Context is a lazily linked recursion-checking context, one layer per
// group of binders introduced.
type Context struct {
	layer []entry
	outer *Context
}

func (c *Context) extend(layer []entry) *Context {
	return &Context{layer: layer, outer: c}
}

func irrelevantEntries(n int) []entry {
	if n <= 0 {
		return nil
	}
	out := make([]entry, n)
	for i := range out {
		out[i] = irrelevant()
	}
	return out
}

func (c *Context) getUnshifted(deb uint64) (entry, bool) {
	for cur := c; cur != nil; cur = cur.outer {
		n := uint64(len(cur.layer))
		if deb < n {
			return cur.layer[n-1-deb], true
		}
		deb -= n
	}
	return entry{}, false
}

func (c *Context) get(deb uint64) (entry, bool) {
	unshifted, ok := c.getUnshifted(deb)
	if !ok {
		return entry{}, false
	}
	return unshifted.upshift(deb + 1), true
}

type callRequirementKind int

const (
	callRequirementRecursive callRequirementKind = iota
	callRequirementAccessForbidden
)

type callRequirement struct {
	kind              callRequirementKind
	argIndex          uint64
	strictSuperstruct uint64
	definitionSrc     *ast.Fun[ast.Minimal]
}

func (c *Context) getCallRequirement(deb uint64) (callRequirement, bool) {
	e, ok := c.get(deb)
	if !ok {
		return callRequirement{}, false
	}
	switch e.kind {
	case entryRecursiveFun:
		return callRequirement{
			kind:              callRequirementRecursive,
			argIndex:          e.decreasingArgIndex,
			strictSuperstruct: deb + uint64(len(e.definitionSrc.ParamTypes)) - e.decreasingArgIndex,
			definitionSrc:     e.definitionSrc,
		}, true
	case entryNonrecursiveFun:
		return callRequirement{kind: callRequirementAccessForbidden, definitionSrc: e.definitionSrc}, true
	default:
		return callRequirement{}, false
	}
}

// isDescendant reports whether deb is a descendant of possibleAncestor in
// the parameter-substructure tree tracked by the context, and if so
// whether the descent was strict anywhere along the path.
func (c *Context) isDescendant(deb, possibleAncestor uint64) (Strict, bool) {
	if deb == possibleAncestor {
		return Strict(false), true
	}

	e, ok := c.get(deb)
	if !ok {
		return false, false
	}

	switch e.kind {
	case entryDecreasingParam:
		if e.parent == nil {
			return false, false
		}
		parentStrict, found := c.isDescendant(e.parent.deb, possibleAncestor)
		if !found {
			return false, false
		}
		return parentStrict.or(e.parent.strict), true
	case entryDecreasingParamStrictSubstruct:
		_, found := c.isDescendant(e.parentParam, possibleAncestor)
		if !found {
			return false, false
		}
		return Strict(true), true
	default:
		return false, false
	}
}
