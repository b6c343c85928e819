package debs

import "zokernel/internal/ast"

// DownshiftSubstituter replaces Deb(0) with the last element of NewExprs,
// Deb(1) with the second-to-last, and so on; any remaining free Deb not
// covered by NewExprs is downshifted by len(NewExprs). This is the core
// of beta-reduction: applying a Fun/For to arguments substitutes each
// argument for the corresponding parameter and closes over the binders
// that application removed.
type DownshiftSubstituter[A ast.AuxDataFamily] struct {
	NewExprs []ast.Expr[A]
}

func (s DownshiftSubstituter[A]) ReplaceDeb(index uint64, aux A, cutoff uint64) ast.Expr[A] {
	if index < cutoff {
		return ast.NewDeb(index, aux)
	}

	adjusted := index - cutoff
	n := uint64(len(s.NewExprs))
	if adjusted < n {
		replacement := s.NewExprs[n-1-adjusted]
		// The replacement was authored at cutoff 0; re-express it under the
		// cutoff binders we have since descended through.
		return Upshift(replacement, cutoff)
	}

	return ast.NewDeb(index-n, aux)
}

// SubstituteAndDownshift substitutes newExprs for the innermost
// len(newExprs) free variables of e (Deb(0) matches the last element of
// newExprs) and downshifts every remaining free variable by
// len(newExprs).
func SubstituteAndDownshift[A ast.AuxDataFamily](e ast.Expr[A], newExprs []ast.Expr[A]) ast.Expr[A] {
	return Replace(e, DownshiftSubstituter[A]{NewExprs: newExprs}, 0)
}
