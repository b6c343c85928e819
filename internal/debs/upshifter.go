package debs

import "zokernel/internal/ast"

// Upshifter adds Amount to every free Deb index, used when an expression
// is moved under additional binders it did not originally have (e.g.
// instantiating a matchee's type one level deeper than where it was
// inferred).
type Upshifter[A ast.AuxDataFamily] struct {
	Amount uint64
}

func (u Upshifter[A]) ReplaceDeb(index uint64, aux A, cutoff uint64) ast.Expr[A] {
	if index < cutoff {
		return ast.NewDeb(index, aux)
	}
	return ast.NewDeb(index+u.Amount, aux)
}

// Upshift returns e with every free Deb index increased by amount.
func Upshift[A ast.AuxDataFamily](e ast.Expr[A], amount uint64) ast.Expr[A] {
	if amount == 0 {
		return e
	}
	return Replace(e, Upshifter[A]{Amount: amount}, 0)
}

// UpshiftWithConstantCutoff upshifts each item of an independent sequence
// by amount, all starting at the same cutoff.
func UpshiftWithConstantCutoff[A ast.AuxDataFamily](exprs []ast.Expr[A], amount, cutoff uint64) []ast.Expr[A] {
	return replaceWithConstantCutoff(exprs, Upshifter[A]{Amount: amount}, cutoff)
}

// UpshiftWithIncreasingCutoff upshifts each item of a dependent sequence
// by amount, with the cutoff increasing by one per item.
func UpshiftWithIncreasingCutoff[A ast.AuxDataFamily](exprs []ast.Expr[A], amount, startCutoff uint64) []ast.Expr[A] {
	return replaceWithIncreasingCutoff(exprs, Upshifter[A]{Amount: amount}, startCutoff)
}
