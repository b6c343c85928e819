package types

import (
	"zokernel/internal/ast"
	"zokernel/internal/debs"
)

// TypeContext (Γ) is a lazily linked context of type layers: a cons-list
// whose head is the most recently introduced group of binders (e.g. one
// Ind's index types, or one Fun's parameter types) and whose tail is
// everything bound further out. Layers are never flattened into one
// slice, so extending Γ during a derivation is O(1) rather than O(n²)
// over the whole derivation.
type TypeContext struct {
	layer []ast.Expr[ast.Minimal]
	outer *TypeContext
}

// Extend returns a new context with layer pushed in front of tc. tc may
// be nil (the empty context).
func (tc *TypeContext) Extend(layer []ast.Expr[ast.Minimal]) *TypeContext {
	return &TypeContext{layer: layer, outer: tc}
}

// Len reports the total number of bound variables visible in tc.
func (tc *TypeContext) Len() uint64 {
	n := uint64(0)
	for c := tc; c != nil; c = c.outer {
		n += uint64(len(c.layer))
	}
	return n
}

// Get returns the type bound to de Bruijn index deb, counting from the
// innermost binder (deb 0) outward, and whether deb was in range. A
// layer's entries are stored with free variables relative to the layer's
// own binder depth, so a lookup at distance deb upshifts the stored type
// by deb+1 to account for every binder introduced between the entry's
// declaration and the point of lookup.
func (tc *TypeContext) Get(deb uint64) (ast.Expr[ast.Minimal], bool) {
	unshifted, ok := tc.getUnshifted(deb)
	if !ok {
		return ast.Expr[ast.Minimal]{}, false
	}
	return debs.Upshift(unshifted, deb+1), true
}

func (tc *TypeContext) getUnshifted(deb uint64) (ast.Expr[ast.Minimal], bool) {
	for c := tc; c != nil; c = c.outer {
		n := uint64(len(c.layer))
		if deb < n {
			return c.layer[n-1-deb], true
		}
		deb -= n
	}
	return ast.Expr[ast.Minimal]{}, false
}
