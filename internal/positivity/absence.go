package positivity

import (
	"zokernel/internal/ast"
	"zokernel/internal/eval"
)

// absenceChecker asserts that every restricted entry in ctx is wholly
// absent from the given expression: it may not be referenced anywhere,
// not even in a harmless-looking position. check returns the NodePath to
// the offending de Bruijn reference and true when a violation is found.
type absenceChecker struct {
	eval *eval.Evaluator
}

func (c *absenceChecker) check(expr ast.Expr[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	switch expr.Tag() {
	case ast.TagInd:
		return c.checkInd(expr.AsInd(), ctx, path)
	case ast.TagVcon:
		return c.checkVcon(expr.AsVcon(), ctx, path)
	case ast.TagMatch:
		return c.checkMatch(expr.AsMatch(), ctx, path)
	case ast.TagFun:
		return c.checkFun(expr.AsFun(), ctx, path)
	case ast.TagApp:
		return c.checkApp(expr.AsApp(), ctx, path)
	case ast.TagFor:
		return c.checkFor(expr.AsFor(), ctx, path)
	case ast.TagDeb:
		return c.checkDeb(expr.AsDeb(), ctx, path)
	case ast.TagUniverse:
		return nil, false
	default:
		panic("positivity: Expr with no populated variant")
	}
}

func (c *absenceChecker) checkInd(ind *ast.Ind[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	if p, bad := c.checkDependentExprs(ind.IndexTypes, ctx, path, ast.IndIndexTypes); bad {
		return p, true
	}

	extended := ctx.extend([]restrictionEntry{false})
	return c.checkVconDefs(ind, extended, path)
}

func (c *absenceChecker) checkVconDefs(ind *ast.Ind[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	for i, def := range ind.VconDefs {
		extendedPath := path.Append(ast.IndVconDefs, i)
		if p, bad := c.checkVconDef(def, ctx, extendedPath); bad {
			return p, true
		}
	}
	return nil, false
}

func (c *absenceChecker) checkVconDef(def ast.VconDef[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	if p, bad := c.checkDependentExprs(def.ParamTypes, ctx, path, ast.VconDefParamTypes); bad {
		return p, true
	}

	extended := ctx.extend(falseEntries(len(def.ParamTypes)))
	return c.checkIndependentExprs(def.IndexArgs, extended, path, ast.VconDefIndexArgs)
}

func (c *absenceChecker) checkVcon(vcon *ast.Vcon[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	pathToInd := path.Append(ast.VconInd, 0)
	return c.checkInd(vcon.Ind.AsInd(), ctx, pathToInd)
}

func (c *absenceChecker) checkMatch(m *ast.Match[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	pathToMatchee := path.Append(ast.MatchMatchee, 0)
	if p, bad := c.check(m.Matchee, ctx, pathToMatchee); bad {
		return p, true
	}

	returnTypeCtx := ctx.extend(falseEntries(int(m.ReturnTypeArity)))
	pathToReturnType := path.Append(ast.MatchReturnType, 0)
	if p, bad := c.check(m.ReturnType, returnTypeCtx, pathToReturnType); bad {
		return p, true
	}

	return c.checkMatchCases(m.Cases, ctx, path)
}

func (c *absenceChecker) checkMatchCases(cases []ast.MatchCase[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	for i, cs := range cases {
		extended := ctx.extend(falseEntries(int(cs.Arity)))
		extendedPath := path.Append(ast.MatchCases, i)
		if p, bad := c.check(cs.ReturnVal, extended, extendedPath); bad {
			return p, true
		}
	}
	return nil, false
}

func (c *absenceChecker) checkFun(f *ast.Fun[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	if p, bad := c.checkDependentExprs(f.ParamTypes, ctx, path, ast.FunParamTypes); bad {
		return p, true
	}

	withParams := ctx.extend(falseEntries(len(f.ParamTypes)))
	pathToReturnType := path.Append(ast.FunReturnType, 0)
	if p, bad := c.check(f.ReturnType, withParams, pathToReturnType); bad {
		return p, true
	}

	withFun := withParams.extend([]restrictionEntry{false})
	pathToReturnVal := path.Append(ast.FunReturnVal, 0)
	return c.check(f.ReturnVal, withFun, pathToReturnVal)
}

func (c *absenceChecker) checkApp(a *ast.App[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	pathToCallee := path.Append(ast.AppCallee, 0)
	if p, bad := c.check(a.Callee, ctx, pathToCallee); bad {
		return p, true
	}

	return c.checkIndependentExprs(a.Args, ctx, path, ast.AppArgs)
}

func (c *absenceChecker) checkFor(f *ast.For[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	if p, bad := c.checkDependentExprs(f.ParamTypes, ctx, path, ast.ForParamTypes); bad {
		return p, true
	}

	extended := ctx.extend(falseEntries(len(f.ParamTypes)))
	pathToReturnType := path.Append(ast.ForReturnType, 0)
	return c.check(f.ReturnType, extended, pathToReturnType)
}

func (c *absenceChecker) checkDeb(d *ast.Deb[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	entry, ok := ctx.get(d.Index)
	if !ok {
		panic("positivity: de Bruijn index out of range in an expression assumed well-typed apart from positivity")
	}
	if bool(entry) {
		return path, true
	}
	return nil, false
}

// checkDependentExprs checks a slice whose later elements may see earlier
// ones as additional binders (e.g. index_types, param_types). edge names
// the slice this is within, so each element's path step carries its index.
func (c *absenceChecker) checkDependentExprs(exprs []ast.Expr[ast.Minimal], ctx *Context, path ast.NodePath, edge ast.NodeEdge) (ast.NodePath, bool) {
	if len(exprs) == 0 {
		return nil, false
	}
	extension := falseEntries(len(exprs) - 1)
	for i, e := range exprs {
		extended := ctx.extend(extension[:i])
		extendedPath := path.Append(edge, i)
		if p, bad := c.check(e, extended, extendedPath); bad {
			return p, true
		}
	}
	return nil, false
}

// checkIndependentExprs checks a slice whose elements all share exactly
// the ambient context (e.g. index_args, app args).
func (c *absenceChecker) checkIndependentExprs(exprs []ast.Expr[ast.Minimal], ctx *Context, path ast.NodePath, edge ast.NodeEdge) (ast.NodePath, bool) {
	for i, e := range exprs {
		extendedPath := path.Append(edge, i)
		if p, bad := c.check(e, ctx, extendedPath); bad {
			return p, true
		}
	}
	return nil, false
}
