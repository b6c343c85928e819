// Package erasability checks the prop/set erasability restriction: a
// value whose type is erasable (a Prop) may be eliminated via Match into
// other erasable values freely, but eliminating it into non-erasable
// (Set) evidence is forbidden — except when the matchee's own type is a
// "singleton Prop" (at most one constructor, every one of whose
// parameters is itself erasable), which carries enough information to
// eliminate into anything, mirroring Coq's singleton-elimination rule.
//
// This check assumes its input is already well-typed (see the types
// package); it does not re-derive well-typedness itself, only layers an
// additional restriction on top of it.
package erasability

import (
	"zokernel/internal/ast"
	"zokernel/internal/debs"
	"zokernel/internal/eval"
	"zokernel/internal/types"
)

// Checker runs the erasability restriction over already well-typed
// expressions, reusing a TypeChecker to re-derive the types it needs
// along the way.
type Checker struct {
	TypeChecker *types.TypeChecker
}

// New returns a Checker built on tc.
func New(tc *types.TypeChecker) *Checker {
	return &Checker{TypeChecker: tc}
}

// CheckWellTyped checks that expr, already known to be well-typed under
// tcon, satisfies the erasability restriction.
func (c *Checker) CheckWellTyped(expr ast.Expr[ast.Minimal], tcon *types.TypeContext) error {
	return c.check(expr, tcon, nil)
}

func (c *Checker) check(expr ast.Expr[ast.Minimal], tcon *types.TypeContext, scon *types.SubstitutionContext) error {
	erasable, err := c.isTypeTypeErasable(expr, tcon, scon)
	if err != nil {
		return err
	}
	if erasable {
		// An erasable-typed value can always be erased regardless of
		// what its children do, so nothing nested needs checking.
		return nil
	}

	switch expr.Tag() {
	case ast.TagMatch:
		return c.checkMatch(expr, tcon, scon)
	case ast.TagFun:
		return c.checkFun(expr, tcon, scon)
	case ast.TagApp:
		return c.checkApp(expr, tcon, scon)
	default:
		// Ind/For/Universe erase entirely; a Vcon's only surviving part
		// is its static vcon_index; a Deb is its own sole dependency, so
		// it can never simultaneously depend on an erasable value and
		// produce non-erasable output.
		return nil
	}
}

// isTypeTypeErasable reports whether type(type(expr)) is an erasable
// universe. For every well-typed expr, type(type(expr)) is always a
// universe, so a mismatch here indicates expr was not actually
// well-typed under tcon/scon, which is a caller error.
func (c *Checker) isTypeTypeErasable(expr ast.Expr[ast.Minimal], tcon *types.TypeContext, scon *types.SubstitutionContext) (bool, error) {
	ty, err := c.TypeChecker.GetType(expr, tcon, scon)
	if err != nil {
		return false, err
	}
	tyty, err := c.TypeChecker.GetType(ty.Expr(), tcon, scon)
	if err != nil {
		return false, err
	}
	if !tyty.Expr().IsUniverse() {
		panic("erasability: type(type(expr)) must always be a universe")
	}
	return tyty.Expr().AsUniverse().Universe.Erasable, nil
}

func (c *Checker) checkMatch(expr ast.Expr[ast.Minimal], tcon *types.TypeContext, scon *types.SubstitutionContext) error {
	m := expr.AsMatch()

	matcheeType, err := c.TypeChecker.GetType(m.Matchee, tcon, scon)
	if err != nil {
		return err
	}
	matcheeInd, _, err := c.TypeChecker.AssertMatcheeTypeIsInductive(matcheeType)
	if err != nil {
		return err
	}

	returnTypeType, err := c.TypeChecker.AssertMatchReturnTypeIsUniverse(m, matcheeInd, tcon, scon)
	if err != nil {
		return err
	}

	if err := c.checkMatchErasabilityWithoutCheckingChildren(m, matcheeInd, returnTypeType, tcon, scon); err != nil {
		return err
	}

	return c.checkMatchCases(m, matcheeInd, tcon, scon)
}

// checkMatchErasabilityWithoutCheckingChildren is the one place ERZ001
// is raised. The restriction only bites when all three hold: the
// return type is itself non-erasable, the matchee's own ind is erasable
// (a Prop), and that ind is not a singleton Prop with all-erasable
// parameters (the one case Prop elimination into non-erasable evidence
// is still sound).
func (c *Checker) checkMatchErasabilityWithoutCheckingChildren(m *ast.Match[ast.Minimal], matcheeInd ast.Expr[ast.Minimal], returnTypeType eval.NormalForm, tcon *types.TypeContext, scon *types.SubstitutionContext) error {
	if returnTypeType.Expr().AsUniverse().Universe.Erasable {
		return nil
	}
	if !matcheeInd.AsInd().Universe.Erasable {
		return nil
	}

	singleton, err := c.doesIndHaveAtMostOneVconDefWhereAllParamsAreErasable(matcheeInd, tcon, scon)
	if err != nil {
		return err
	}
	if singleton {
		return nil
	}

	return errMatcheeErasableButReturnTypeNotErasable(m, matcheeInd, returnTypeType)
}

// doesIndHaveAtMostOneVconDefWhereAllParamsAreErasable implements the
// singleton-Prop exception: zero constructors is vacuously true (an
// empty Prop, like False, eliminates into anything); more than one
// constructor is never a singleton; exactly one constructor qualifies
// only if every one of its parameter types is itself erasable.
func (c *Checker) doesIndHaveAtMostOneVconDefWhereAllParamsAreErasable(ind ast.Expr[ast.Minimal], tcon *types.TypeContext, scon *types.SubstitutionContext) (bool, error) {
	defs := ind.AsInd().VconDefs
	if len(defs) > 1 {
		return false, nil
	}
	if len(defs) == 0 {
		return true, nil
	}

	indType := c.TypeChecker.IndTypeAssumingWellTyped(ind.AsInd())
	tconWithSelf := tcon.Extend([]ast.Expr[ast.Minimal]{indType.Expr()})

	paramTypeTypes, err := c.TypeChecker.GetTypesOfDependentExprs(defs[0].ParamTypes, tconWithSelf, scon)
	if err != nil {
		return false, err
	}
	for _, t := range paramTypeTypes {
		if !t.Expr().IsUniverse() || !t.Expr().AsUniverse().Universe.Erasable {
			return false, nil
		}
	}
	return true, nil
}

func (c *Checker) checkMatchCases(m *ast.Match[ast.Minimal], matcheeInd ast.Expr[ast.Minimal], tcon *types.TypeContext, scon *types.SubstitutionContext) error {
	for i, cs := range m.Cases {
		paramTypes := c.TypeChecker.VconDefParamTypes(matcheeInd, uint64(i))
		extended := tcon.Extend(paramTypes)
		if err := c.check(cs.ReturnVal, extended, scon); err != nil {
			return err
		}
	}
	return nil
}

// checkFun deliberately does not check ParamTypes or ReturnType: by
// convention their own type-types are assumed erasable Props, so only
// ReturnVal — checked under the param binders plus one more binder for
// the fun's own self-reference — can possibly fail the restriction.
func (c *Checker) checkFun(expr ast.Expr[ast.Minimal], tcon *types.TypeContext, scon *types.SubstitutionContext) error {
	f := expr.AsFun()

	normalizedParamTypes := c.TypeChecker.Evaluator.EvalExprs(f.ParamTypes).Exprs()
	tconWithParams := tcon.Extend(normalizedParamTypes)

	funType, err := c.TypeChecker.GetType(expr, tcon, scon)
	if err != nil {
		return err
	}
	selfType := debs.Upshift(funType.Expr(), uint64(len(f.ParamTypes)))
	tconWithParamsAndSelf := tconWithParams.Extend([]ast.Expr[ast.Minimal]{selfType})

	return c.check(f.ReturnVal, tconWithParamsAndSelf, scon)
}

func (c *Checker) checkApp(expr ast.Expr[ast.Minimal], tcon *types.TypeContext, scon *types.SubstitutionContext) error {
	a := expr.AsApp()

	if err := c.check(a.Callee, tcon, scon); err != nil {
		return err
	}
	for _, arg := range a.Args {
		if err := c.check(arg, tcon, scon); err != nil {
			return err
		}
	}
	return nil
}
