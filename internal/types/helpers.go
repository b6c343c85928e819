package types

import (
	"zokernel/internal/ast"
	"zokernel/internal/debs"
	"zokernel/internal/eval"
)

// indOrIndApp reports whether e is an Ind or an Ind applied to arguments,
// returning the bare ind expression and (for the App case) its args.
func indOrIndApp(e ast.Expr[ast.Minimal]) (ast.Expr[ast.Minimal], []ast.Expr[ast.Minimal], bool) {
	switch e.Tag() {
	case ast.TagInd:
		return e, nil, true
	case ast.TagApp:
		app := e.AsApp()
		if app.Callee.Tag() == ast.TagInd {
			return app.Callee, app.Args, true
		}
	}
	return ast.Expr[ast.Minimal]{}, nil, false
}

// indCappOfDescendingDebs builds ind applied to its own index variables,
// for use as the type of a fresh matchee binder. It is stored as the last
// entry of a TypeContext layer after ind's index types, so it is read in
// the context directly under those n index binders (before the matchee's
// own binder): there ind's index i sits at Deb(n-1-i), so the args
// descend from Deb(n-1) to Deb(0).
func indCappOfDescendingDebs(ind ast.Expr[ast.Minimal]) ast.Expr[ast.Minimal] {
	n := len(ind.AsInd().IndexTypes)
	if n == 0 {
		return ind
	}
	args := make([]ast.Expr[ast.Minimal], n)
	for i := 0; i < n; i++ {
		args[i] = ast.NewDeb[ast.Minimal](uint64(n-1-i), ast.Minimal{})
	}
	return ast.NewApp(ind, args, ast.Minimal{})
}

// vconCappOfDescendingDebs builds the vconIndex'th constructor of ind
// applied to its own paramCount fresh parameters, in the same
// descending-deb convention as indCappOfDescendingDebs.
func vconCappOfDescendingDebs(ind ast.Expr[ast.Minimal], vconIndex uint64, paramCount int) ast.Expr[ast.Minimal] {
	vcon := ast.NewVcon(ind, vconIndex, ast.Minimal{})
	if paramCount == 0 {
		return vcon
	}
	args := make([]ast.Expr[ast.Minimal], paramCount)
	for i := 0; i < paramCount; i++ {
		args[i] = ast.NewDeb[ast.Minimal](uint64(paramCount-1-i), ast.Minimal{})
	}
	return ast.NewApp(vcon, args, ast.Minimal{})
}

// substituteIndSelfDependent replaces a VconDef's own recursive
// self-reference binder (de Bruijn index 0 at each expr's own position)
// with the concrete ind expression, across a dependent sequence (each
// expr sees one more binder than the last, from its own param siblings).
func substituteIndSelfDependent(exprs []ast.Expr[ast.Minimal], ind ast.Expr[ast.Minimal]) []ast.Expr[ast.Minimal] {
	if len(exprs) == 0 {
		return nil
	}
	sub := debs.DownshiftSubstituter[ast.Minimal]{NewExprs: []ast.Expr[ast.Minimal]{ind}}
	out := make([]ast.Expr[ast.Minimal], len(exprs))
	for i, e := range exprs {
		out[i] = debs.Replace[ast.Minimal](e, sub, uint64(i))
	}
	return out
}

// substituteIndSelfIndependent is substituteIndSelfDependent for a
// sequence whose elements all share one fixed binder depth (cutoff),
// such as a VconDef's IndexArgs, which all sit beneath the same params.
func substituteIndSelfIndependent(exprs []ast.Expr[ast.Minimal], ind ast.Expr[ast.Minimal], cutoff uint64) []ast.Expr[ast.Minimal] {
	if len(exprs) == 0 {
		return nil
	}
	sub := debs.DownshiftSubstituter[ast.Minimal]{NewExprs: []ast.Expr[ast.Minimal]{ind}}
	out := make([]ast.Expr[ast.Minimal], len(exprs))
	for i, e := range exprs {
		out[i] = debs.Replace[ast.Minimal](e, sub, cutoff)
	}
	return out
}

func firstNonUniverse(types []eval.NormalForm) (int, bool) {
	for i, t := range types {
		if !t.Expr().IsUniverse() {
			return i, true
		}
	}
	return 0, false
}

func firstUniverseExceeding(types []eval.NormalForm, maxLevel uint64) (int, uint64, bool) {
	for i, t := range types {
		if !t.Expr().IsUniverse() {
			continue
		}
		level := t.Expr().AsUniverse().Universe.Level
		if level > maxLevel {
			return i, level, true
		}
	}
	return 0, 0, false
}

func normalFormsToExprs(nfs []eval.NormalForm) []ast.Expr[ast.Minimal] {
	if len(nfs) == 0 {
		return nil
	}
	out := make([]ast.Expr[ast.Minimal], len(nfs))
	for i, n := range nfs {
		out[i] = n.Expr()
	}
	return out
}

// forUniverse computes the universe of a For (dependent product) type.
// ast.Universe adds an erasable/Prop flag that the grounding algorithm's
// universe (a bare level) has no equivalent for; this kernel resolves it
// with a Coq-style impredicativity rule: a product whose codomain is
// erasable is itself erasable at the codomain's own level regardless of
// its parameter universes, since an erasable codomain may quantify over
// anything without raising its level. A non-erasable codomain falls back
// to the ordinary predicative rule: the max level across every parameter
// and the codomain, non-erasable.
func forUniverse(codomain ast.Universe, paramTypeTypes []eval.NormalForm) ast.Universe {
	if codomain.Erasable {
		return codomain
	}
	level := codomain.Level
	for _, t := range paramTypeTypes {
		if t.Expr().Tag() != ast.TagUniverse {
			continue
		}
		if l := t.Expr().AsUniverse().Universe.Level; l > level {
			level = l
		}
	}
	return ast.Universe{Level: level, Erasable: false}
}
