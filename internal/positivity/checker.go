package positivity

import (
	"zokernel/internal/ast"
	"zokernel/internal/eval"
)

// Checker threads an Evaluator through the top-level traversal that hunts
// for nested Ind definitions anywhere in an expression tree, checking each
// one it finds against the ambient restriction context. It never reports
// a positivity violation itself; violations are only ever raised once a
// nested Ind's own constructors are inspected by
// assertVconSatisfiesPositivity.
type Checker struct {
	eval *eval.Evaluator
}

// New returns a Checker that normalizes constructor parameter types and
// index arguments with ev before testing them.
func New(ev *eval.Evaluator) *Checker {
	return &Checker{eval: ev}
}

// CheckInd asserts that ind satisfies the strict positivity condition,
// assuming ind is otherwise well-typed. tconLen is the length of the
// ambient type context ind was checked in, used to seed an
// all-unrestricted base layer beneath ind's own self-reference.
func (c *Checker) CheckInd(ind *ast.Ind[ast.Minimal], tconLen uint64) error {
	base := (&Context{}).extend(falseEntries(int(tconLen)))
	return c.checkInd(ind, base)
}

func (c *Checker) check(expr ast.Expr[ast.Minimal], ctx *Context) error {
	switch expr.Tag() {
	case ast.TagInd:
		return c.checkInd(expr.AsInd(), ctx)
	case ast.TagVcon:
		return c.checkVcon(expr.AsVcon(), ctx)
	case ast.TagMatch:
		return c.checkMatch(expr.AsMatch(), ctx)
	case ast.TagFun:
		return c.checkFun(expr.AsFun(), ctx)
	case ast.TagApp:
		return c.checkApp(expr.AsApp(), ctx)
	case ast.TagFor:
		return c.checkFor(expr.AsFor(), ctx)
	case ast.TagDeb, ast.TagUniverse:
		return nil
	default:
		panic("positivity: Expr with no populated variant")
	}
}

func (c *Checker) checkInd(ind *ast.Ind[ast.Minimal], ctx *Context) error {
	if err := c.checkDependentExprs(ind.IndexTypes, ctx); err != nil {
		return err
	}
	extended := ctx.extend([]restrictionEntry{true})
	return c.checkVconDefs(ind, extended)
}

func (c *Checker) checkVconDefs(ind *ast.Ind[ast.Minimal], ctx *Context) error {
	for i := range ind.VconDefs {
		if err := c.checkVconDef(ind, i, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkVconDef(ind *ast.Ind[ast.Minimal], vconIndex int, ctx *Context) error {
	def := ind.VconDefs[vconIndex]

	if err := c.checkDependentExprs(def.ParamTypes, ctx); err != nil {
		return err
	}

	extended := ctx.extend(falseEntries(len(def.ParamTypes)))
	if err := c.checkIndependentExprs(def.IndexArgs, extended); err != nil {
		return err
	}

	return c.assertVconSatisfiesPositivity(ind, vconIndex, ctx)
}

func (c *Checker) checkVcon(vcon *ast.Vcon[ast.Minimal], ctx *Context) error {
	return c.checkInd(vcon.Ind.AsInd(), ctx)
}

func (c *Checker) checkMatch(m *ast.Match[ast.Minimal], ctx *Context) error {
	if err := c.check(m.Matchee, ctx); err != nil {
		return err
	}

	returnTypeCtx := ctx.extend(falseEntries(int(m.ReturnTypeArity)))
	if err := c.check(m.ReturnType, returnTypeCtx); err != nil {
		return err
	}

	for _, cs := range m.Cases {
		caseCtx := ctx.extend(falseEntries(int(cs.Arity)))
		if err := c.check(cs.ReturnVal, caseCtx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkFun(f *ast.Fun[ast.Minimal], ctx *Context) error {
	if err := c.checkDependentExprs(f.ParamTypes, ctx); err != nil {
		return err
	}

	withParams := ctx.extend(falseEntries(len(f.ParamTypes)))
	if err := c.check(f.ReturnType, withParams); err != nil {
		return err
	}

	withFun := withParams.extend([]restrictionEntry{false})
	return c.check(f.ReturnVal, withFun)
}

func (c *Checker) checkApp(a *ast.App[ast.Minimal], ctx *Context) error {
	if err := c.check(a.Callee, ctx); err != nil {
		return err
	}
	return c.checkIndependentExprs(a.Args, ctx)
}

func (c *Checker) checkFor(f *ast.For[ast.Minimal], ctx *Context) error {
	if err := c.checkDependentExprs(f.ParamTypes, ctx); err != nil {
		return err
	}
	extended := ctx.extend(falseEntries(len(f.ParamTypes)))
	return c.check(f.ReturnType, extended)
}

// checkDependentExprs checks a slice whose later elements' types may refer
// to earlier elements (e.g. index_types, param_types): expr i sees i
// preceding unrestricted binders already in scope.
func (c *Checker) checkDependentExprs(exprs []ast.Expr[ast.Minimal], ctx *Context) error {
	if len(exprs) == 0 {
		return nil
	}
	extension := falseEntries(len(exprs) - 1)
	for i, e := range exprs {
		extended := ctx.extend(extension[:i])
		if err := c.check(e, extended); err != nil {
			return err
		}
	}
	return nil
}

// checkIndependentExprs checks a slice whose elements share exactly the
// ambient context (e.g. index_args, app args): no binder accrues between
// elements.
func (c *Checker) checkIndependentExprs(exprs []ast.Expr[ast.Minimal], ctx *Context) error {
	for _, e := range exprs {
		if err := c.check(e, ctx); err != nil {
			return err
		}
	}
	return nil
}
