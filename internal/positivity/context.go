// Package positivity implements the Coq-style strict-positivity check: an
// inductive type's recursive self-reference may only appear in "strictly
// positive" position within each constructor's parameter types (never to
// the left of an arrow, never inside another type's argument position
// unless that type is itself non-recursive there), and must be entirely
// absent from the index arguments a constructor supplies.
//
// Three traversal modes share one restriction-status context: the
// top-level Checker threads the ambient context through every
// subexpression looking for nested Ind definitions; strictChecker
// asserts a restricted entry appears only in strictly-positive position;
// absenceChecker asserts a restricted entry does not appear at all.
package positivity

// restrictionEntry records, for one bound variable, whether it is a
// "restricted" recursive ind self-reference that absence/strict-positivity
// checking must watch for.
type restrictionEntry bool

// Context is a lazily linked restriction-status context, one layer per
// group of binders introduced (mirrors ast's de Bruijn binder structure).
type Context struct {
	layer []restrictionEntry
	outer *Context
}

func (c *Context) extend(layer []restrictionEntry) *Context {
	return &Context{layer: layer, outer: c}
}

func falseEntries(n int) []restrictionEntry {
	if n <= 0 {
		return nil
	}
	return make([]restrictionEntry, n)
}

func (c *Context) get(deb uint64) (restrictionEntry, bool) {
	for cur := c; cur != nil; cur = cur.outer {
		n := uint64(len(cur.layer))
		if deb < n {
			return cur.layer[n-1-deb], true
		}
		deb -= n
	}
	return false, false
}
