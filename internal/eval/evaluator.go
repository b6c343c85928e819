package eval

import (
	"zokernel/internal/ast"
	"zokernel/internal/debs"
)

// Evaluator memoizes normal forms by the digest of the expression (or
// expression slice) that produced them. The zero value has nil caches,
// so an Evaluator is created with New.
type Evaluator struct {
	exprCache  map[ast.Digest]NormalForm
	exprsCache map[ast.Digest]NormalExprs

	maxDepth int // 0 means unlimited
	depth    int
}

// New returns a ready-to-use Evaluator with empty caches and no depth
// limit.
func New() *Evaluator {
	return &Evaluator{
		exprCache:  make(map[ast.Digest]NormalForm),
		exprsCache: make(map[ast.Digest]NormalExprs),
	}
}

// SetMaxDepth bounds how deeply Eval may recurse before it panics with
// ErrDepthExceeded, as a backstop against a `fun` that the recursion
// checker should have rejected but didn't (or a bug in the checker
// itself). A limit of 0 disables the guard.
func (ev *Evaluator) SetMaxDepth(n int) {
	ev.maxDepth = n
}

// ErrDepthExceeded is the panic value raised when evaluation recurses
// past the configured max depth.
var ErrDepthExceeded = &DepthExceededError{}

// DepthExceededError reports that evaluation recursed past the configured
// max depth.
type DepthExceededError struct{}

func (*DepthExceededError) Error() string {
	return "eval: recursion depth exceeded the configured limit"
}

// Eval reduces expr to normal form, memoizing the result by expr's
// digest.
func (ev *Evaluator) Eval(expr ast.Expr[ast.Minimal]) NormalForm {
	if result, ok := ev.exprCache[expr.Digest()]; ok {
		return result
	}

	if ev.maxDepth > 0 {
		ev.depth++
		if ev.depth > ev.maxDepth {
			panic(ErrDepthExceeded)
		}
		defer func() { ev.depth-- }()
	}

	return ev.evalUnseen(expr)
}

// EvalInd evaluates an Ind expression and returns it still tagged as an
// Ind; evaluating an Ind always yields another Ind (Testable Property 1
// preserves the variant).
func (ev *Evaluator) EvalInd(ind ast.Expr[ast.Minimal]) ast.Expr[ast.Minimal] {
	nf := ev.Eval(ind)
	if nf.expr.Tag() != ast.TagInd {
		panic("eval: evaluating an Ind must always return an Ind")
	}
	return nf.expr
}

// EvalExprs reduces every element of exprs to normal form, memoizing by
// the slice's combined digest.
func (ev *Evaluator) EvalExprs(exprs []ast.Expr[ast.Minimal]) NormalExprs {
	digest := ast.DigestSlice(exprs)
	if result, ok := ev.exprsCache[digest]; ok {
		return result
	}
	return ev.evalUnseenExprs(digest, exprs)
}

func (ev *Evaluator) evalUnseen(expr ast.Expr[ast.Minimal]) NormalForm {
	switch expr.Tag() {
	case ast.TagInd:
		return ev.evalUnseenInd(expr)
	case ast.TagVcon:
		return ev.evalUnseenVcon(expr)
	case ast.TagMatch:
		return ev.evalUnseenMatch(expr)
	case ast.TagFun:
		return ev.evalUnseenFun(expr)
	case ast.TagApp:
		return ev.evalUnseenApp(expr)
	case ast.TagFor:
		return ev.evalUnseenFor(expr)
	case ast.TagDeb, ast.TagUniverse:
		return wrap(expr)
	default:
		panic("eval: Expr with no populated variant")
	}
}

func (ev *Evaluator) evalUnseenInd(expr ast.Expr[ast.Minimal]) NormalForm {
	digest := expr.Digest()
	o := expr.AsInd()

	normalized := ast.NewInd(o.Universe, o.Name,
		ev.EvalExprs(o.IndexTypes).Exprs(),
		ev.evalVconDefs(o.VconDefs),
		ast.Minimal{})

	nf := wrap(normalized)
	ev.exprCache[digest] = nf
	ev.cacheSelfLoop(nf)
	return nf
}

func (ev *Evaluator) evalVconDefs(defs []ast.VconDef[ast.Minimal]) []ast.VconDef[ast.Minimal] {
	if len(defs) == 0 {
		return nil
	}
	out := make([]ast.VconDef[ast.Minimal], len(defs))
	for i, def := range defs {
		out[i] = ast.VconDef[ast.Minimal]{
			ParamTypes: ev.EvalExprs(def.ParamTypes).Exprs(),
			IndexArgs:  ev.EvalExprs(def.IndexArgs).Exprs(),
			Aux:        ast.Minimal{},
		}
	}
	return out
}

func (ev *Evaluator) evalUnseenVcon(expr ast.Expr[ast.Minimal]) NormalForm {
	digest := expr.Digest()
	o := expr.AsVcon()

	normalizedInd := ev.EvalInd(o.Ind)
	normalized := ast.NewVcon(normalizedInd, o.VconIndex, ast.Minimal{})

	nf := wrap(normalized)
	ev.exprCache[digest] = nf
	ev.cacheSelfLoop(nf)
	return nf
}

func (ev *Evaluator) evalUnseenMatch(expr ast.Expr[ast.Minimal]) NormalForm {
	o := expr.AsMatch()
	normalizedMatchee := ev.Eval(o.Matchee).Expr()

	if vcon, args, ok := tryAsVconOrVconApp(normalizedMatchee); ok {
		vconIndex := int(vcon.VconIndex)
		if vconIndex >= len(o.Cases) {
			// Stuck term: not enough match cases for this vcon's index. The
			// evaluator never errors; it returns the match unevaluated.
			return wrap(expr)
		}

		matchCase := o.Cases[vconIndex]
		substituted := debs.SubstituteAndDownshift(matchCase.ReturnVal, args)
		return ev.Eval(substituted)
	}

	digest := expr.Digest()
	cases := make([]ast.MatchCase[ast.Minimal], len(o.Cases))
	for i, c := range o.Cases {
		cases[i] = ast.MatchCase[ast.Minimal]{Arity: c.Arity, ReturnVal: ev.Eval(c.ReturnVal).Expr(), Aux: ast.Minimal{}}
	}
	normalized := ast.NewMatch(normalizedMatchee, o.ReturnTypeArity, ev.Eval(o.ReturnType).Expr(), cases, ast.Minimal{})

	nf := wrap(normalized)
	ev.exprCache[digest] = nf
	ev.cacheSelfLoop(nf)
	return nf
}

func (ev *Evaluator) evalUnseenFun(expr ast.Expr[ast.Minimal]) NormalForm {
	digest := expr.Digest()
	o := expr.AsFun()

	normalized, err := ast.NewFun(o.DecreasingIndex,
		ev.EvalExprs(o.ParamTypes).Exprs(),
		ev.Eval(o.ReturnType).Expr(),
		ev.Eval(o.ReturnVal).Expr(),
		ast.Minimal{})
	if err != nil {
		// expr is already a well-formed Fun; evaluating its children
		// can't make its parameter list empty.
		panic(err)
	}

	nf := wrap(normalized)
	ev.exprCache[digest] = nf
	ev.cacheSelfLoop(nf)
	return nf
}

func (ev *Evaluator) evalUnseenApp(expr ast.Expr[ast.Minimal]) NormalForm {
	o := expr.AsApp()
	normalizedCallee := ev.Eval(o.Callee).Expr()
	normalizedArgs := ev.EvalExprs(o.Args).Exprs()

	if normalizedCallee.Tag() == ast.TagFun {
		fn := normalizedCallee.AsFun()
		if canUnfoldApp(fn, normalizedArgs) {
			newExprs := append(append([]ast.Expr[ast.Minimal]{}, normalizedArgs...), normalizedCallee)
			substituted := debs.SubstituteAndDownshift(fn.ReturnVal, newExprs)
			return ev.Eval(substituted)
		}
	}

	digest := expr.Digest()
	normalized := ast.NewApp(normalizedCallee, normalizedArgs, ast.Minimal{})

	nf := wrap(normalized)
	ev.exprCache[digest] = nf
	ev.cacheSelfLoop(nf)
	return nf
}

func (ev *Evaluator) evalUnseenFor(expr ast.Expr[ast.Minimal]) NormalForm {
	digest := expr.Digest()
	o := expr.AsFor()

	normalized := ast.NewFor(ev.EvalExprs(o.ParamTypes).Exprs(), ev.Eval(o.ReturnType).Expr(), ast.Minimal{})

	nf := wrap(normalized)
	ev.exprCache[digest] = nf
	ev.cacheSelfLoop(nf)
	return nf
}

func (ev *Evaluator) evalUnseenExprs(digest ast.Digest, exprs []ast.Expr[ast.Minimal]) NormalExprs {
	out := make([]ast.Expr[ast.Minimal], len(exprs))
	for i, e := range exprs {
		out[i] = ev.Eval(e).Expr()
	}
	normalized := wrapExprs(out)
	ev.exprsCache[digest] = normalized
	ev.cacheExprsSelfLoop(normalized)
	return normalized
}

// cacheSelfLoop records that the normal form of a normal form is itself,
// so future lookups of an already-normalized expression are O(1).
func (ev *Evaluator) cacheSelfLoop(nf NormalForm) {
	ev.exprCache[nf.expr.Digest()] = nf
}

func (ev *Evaluator) cacheExprsSelfLoop(nf NormalExprs) {
	ev.exprsCache[ast.DigestSlice(nf.exprs)] = nf
}

// canUnfoldApp reports whether an application of fn to args may be
// unfolded (beta-reduced). Non-recursive functions (DecreasingIndex ==
// nil) always unfold. A recursive function only unfolds once its
// decreasing argument is itself a value constructor (or a fully-applied
// vcon), guaranteeing termination is driven by the vcon's finite depth
// rather than risking an infinite unfold loop on a stuck term.
func canUnfoldApp(fn *ast.Fun[ast.Minimal], args []ast.Expr[ast.Minimal]) bool {
	if fn.DecreasingIndex == nil {
		return true
	}
	idx := int(*fn.DecreasingIndex)
	if idx >= len(args) {
		// Ill-typed application; refuse to unfold rather than risk looping.
		return false
	}
	_, _, ok := tryAsVconOrVconApp(args[idx])
	return ok
}

// tryAsVconOrVconApp reports whether expr is a bare Vcon or an App whose
// callee is a Vcon, returning that Vcon and its (possibly empty) argument
// list.
func tryAsVconOrVconApp(expr ast.Expr[ast.Minimal]) (*ast.Vcon[ast.Minimal], []ast.Expr[ast.Minimal], bool) {
	if expr.Tag() == ast.TagVcon {
		return expr.AsVcon(), nil, true
	}
	if expr.Tag() == ast.TagApp {
		app := expr.AsApp()
		if app.Callee.Tag() == ast.TagVcon {
			return app.Callee.AsVcon(), app.Args, true
		}
	}
	return nil, nil, false
}
