package positivity

import (
	"zokernel/internal/ast"
	"zokernel/internal/eval"
)

// strictChecker asserts that every restricted entry in ctx occurs only
// strictly positively in the given expression: it may be the head of a
// nested Ind's own recursive occurrence (never to the left of an arrow,
// never as an argument anywhere other than the callee position of the
// type being defined), but anywhere else its presence is a violation.
// Every shape other than App/For/Ind falls back to requiring the entry's
// outright absence, which is a stronger, always-sufficient condition.
type strictChecker struct {
	eval *eval.Evaluator
}

func (c *strictChecker) check(expr ast.Expr[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	switch expr.Tag() {
	case ast.TagInd:
		return c.checkInd(expr.AsInd(), ctx, path)
	case ast.TagDeb:
		return nil, false
	case ast.TagApp:
		return c.checkApp(expr.AsApp(), ctx, path)
	case ast.TagFor:
		return c.checkFor(expr.AsFor(), ctx, path)
	case ast.TagVcon, ast.TagMatch, ast.TagFun, ast.TagUniverse:
		return (&absenceChecker{eval: c.eval}).check(expr, ctx, path)
	default:
		panic("positivity: Expr with no populated variant")
	}
}

func (c *strictChecker) checkApp(a *ast.App[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	pathToCallee := path.Append(ast.AppCallee, 0)
	if p, bad := c.checkAppCallee(a.Callee, ctx, pathToCallee); bad {
		return p, true
	}

	return (&absenceChecker{eval: c.eval}).checkIndependentExprs(a.Args, ctx, path, ast.AppArgs)
}

// checkAppCallee special-cases a bare nested Ind or Deb in callee
// position (both permitted strictly-positively); every other callee
// shape falls back to the stricter absence check.
func (c *strictChecker) checkAppCallee(callee ast.Expr[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	switch callee.Tag() {
	case ast.TagInd:
		return c.checkInd(callee.AsInd(), ctx, path)
	case ast.TagDeb:
		return nil, false
	default:
		return (&absenceChecker{eval: c.eval}).check(callee, ctx, path)
	}
}

func (c *strictChecker) checkInd(ind *ast.Ind[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	absence := &absenceChecker{eval: c.eval}
	if p, bad := absence.checkDependentExprs(ind.IndexTypes, ctx, path, ast.IndIndexTypes); bad {
		return p, true
	}

	extended := ctx.extend([]restrictionEntry{true})
	return c.checkVconDefs(ind, extended, path)
}

func (c *strictChecker) checkVconDefs(ind *ast.Ind[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	for i, def := range ind.VconDefs {
		extendedPath := path.Append(ast.IndVconDefs, i)
		if p, bad := c.checkVconDef(def, ctx, extendedPath); bad {
			return p, true
		}
	}
	return nil, false
}

func (c *strictChecker) checkVconDef(def ast.VconDef[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	if p, bad := c.checkDependentExprs(def.ParamTypes, ctx, path, ast.VconDefParamTypes); bad {
		return p, true
	}

	extended := ctx.extend(falseEntries(len(def.ParamTypes)))
	return (&absenceChecker{eval: c.eval}).checkIndependentExprs(def.IndexArgs, extended, path, ast.VconDefIndexArgs)
}

func (c *strictChecker) checkFor(f *ast.For[ast.Minimal], ctx *Context, path ast.NodePath) (ast.NodePath, bool) {
	absence := &absenceChecker{eval: c.eval}
	if p, bad := absence.checkDependentExprs(f.ParamTypes, ctx, path, ast.ForParamTypes); bad {
		return p, true
	}

	extended := ctx.extend(falseEntries(len(f.ParamTypes)))
	pathToReturnType := path.Append(ast.ForReturnType, 0)
	return c.check(f.ReturnType, extended, pathToReturnType)
}

func (c *strictChecker) checkDependentExprs(exprs []ast.Expr[ast.Minimal], ctx *Context, path ast.NodePath, edge ast.NodeEdge) (ast.NodePath, bool) {
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
