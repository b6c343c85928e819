// Package debs implements the generic de Bruijn index replacer shared by
// the evaluator (beta-reduction), the type checker (instantiating a
// matchee's type under a match case), and the positivity checker
// (probing whether a bound variable occurs in a restricted position).
//
// Two independent cutoff disciplines are used when replacing debs across
// a slice of sibling expressions: a "constant" cutoff when the items are
// independent of one another (App.Args, Match.Cases), and an
// "increasing" cutoff when each item is checked in a context extended by
// the previous ones (Ind.IndexTypes, Fun/For.ParamTypes, VconDef.ParamTypes).
package debs

import "zokernel/internal/ast"

// Replacer decides what a Deb[A] node becomes at a given cutoff. cutoff
// is the number of binders introduced between the replacer's original
// call site and the Deb being visited.
type Replacer[A ast.AuxDataFamily] interface {
	ReplaceDeb(index uint64, aux A, cutoff uint64) ast.Expr[A]
}

// Replace walks e, rewriting every Deb node via r. cutoff starts at 0 at
// the top-level call and increases by the number of binders each
// descended-into position sits under (for Fun.ReturnVal, its params plus
// its own self-reference binder).
func Replace[A ast.AuxDataFamily](e ast.Expr[A], r Replacer[A], cutoff uint64) ast.Expr[A] {
	switch e.Tag() {
	case ast.TagInd:
		return replaceInd(e.AsInd(), r, cutoff)
	case ast.TagVcon:
		return replaceVcon(e.AsVcon(), r, cutoff)
	case ast.TagMatch:
		return replaceMatch(e.AsMatch(), r, cutoff)
	case ast.TagFun:
		return replaceFun(e.AsFun(), r, cutoff)
	case ast.TagApp:
		return replaceApp(e.AsApp(), r, cutoff)
	case ast.TagFor:
		return replaceFor(e.AsFor(), r, cutoff)
	case ast.TagDeb:
		d := e.AsDeb()
		return r.ReplaceDeb(d.Index, d.Aux, cutoff)
	case ast.TagUniverse:
		return e
	default:
		panic("debs: Expr with no populated variant")
	}
}

func replaceWithIncreasingCutoff[A ast.AuxDataFamily](exprs []ast.Expr[A], r Replacer[A], startCutoff uint64) []ast.Expr[A] {
	if len(exprs) == 0 {
		return nil
	}
	out := make([]ast.Expr[A], len(exprs))
	for i, e := range exprs {
		out[i] = Replace(e, r, startCutoff+uint64(i))
	}
	return out
}

func replaceWithConstantCutoff[A ast.AuxDataFamily](exprs []ast.Expr[A], r Replacer[A], cutoff uint64) []ast.Expr[A] {
	if len(exprs) == 0 {
		return nil
	}
	out := make([]ast.Expr[A], len(exprs))
	for i, e := range exprs {
		out[i] = Replace(e, r, cutoff)
	}
	return out
}

func replaceVconDefs[A ast.AuxDataFamily](defs []ast.VconDef[A], r Replacer[A], cutoff uint64) []ast.VconDef[A] {
	if len(defs) == 0 {
		return nil
	}
	out := make([]ast.VconDef[A], len(defs))
	for i, def := range defs {
		paramTypes := replaceWithIncreasingCutoff(def.ParamTypes, r, cutoff)
		indexArgs := replaceWithConstantCutoff(def.IndexArgs, r, cutoff+uint64(len(def.ParamTypes)))
		out[i] = ast.VconDef[A]{ParamTypes: paramTypes, IndexArgs: indexArgs, Aux: def.Aux}
	}
	return out
}

func replaceInd[A ast.AuxDataFamily](o *ast.Ind[A], r Replacer[A], cutoff uint64) ast.Expr[A] {
	indexTypes := replaceWithIncreasingCutoff(o.IndexTypes, r, cutoff)
	vconDefs := replaceVconDefs(o.VconDefs, r, cutoff+1)
	return ast.NewInd(o.Universe, o.Name, indexTypes, vconDefs, o.Aux)
}

func replaceVcon[A ast.AuxDataFamily](o *ast.Vcon[A], r Replacer[A], cutoff uint64) ast.Expr[A] {
	return ast.NewVcon(Replace(o.Ind, r, cutoff), o.VconIndex, o.Aux)
}

func replaceMatch[A ast.AuxDataFamily](o *ast.Match[A], r Replacer[A], cutoff uint64) ast.Expr[A] {
	matchee := Replace(o.Matchee, r, cutoff)
	returnType := Replace(o.ReturnType, r, cutoff+o.ReturnTypeArity)
	cases := make([]ast.MatchCase[A], len(o.Cases))
	for i, c := range o.Cases {
		cases[i] = ast.MatchCase[A]{
			Arity:     c.Arity,
			ReturnVal: Replace(c.ReturnVal, r, cutoff+c.Arity),
			Aux:       c.Aux,
		}
	}
	return ast.NewMatch(matchee, o.ReturnTypeArity, returnType, cases, o.Aux)
}

func replaceFun[A ast.AuxDataFamily](o *ast.Fun[A], r Replacer[A], cutoff uint64) ast.Expr[A] {
	paramTypes := replaceWithIncreasingCutoff(o.ParamTypes, r, cutoff)
	n := uint64(len(o.ParamTypes))
	returnType := Replace(o.ReturnType, r, cutoff+n)
	returnVal := Replace(o.ReturnVal, r, cutoff+n+1)
	fun, err := ast.NewFun(o.DecreasingIndex, paramTypes, returnType, returnVal, o.Aux)
	if err != nil {
		// o is already a well-formed Fun (NewFun rejected zero params when
		// it was first built); replacing its children can't make it empty.
		panic(err)
	}
	return fun
}

func replaceApp[A ast.AuxDataFamily](o *ast.App[A], r Replacer[A], cutoff uint64) ast.Expr[A] {
	callee := Replace(o.Callee, r, cutoff)
	args := replaceWithConstantCutoff(o.Args, r, cutoff)
	return ast.NewApp(callee, args, o.Aux)
}

func replaceFor[A ast.AuxDataFamily](o *ast.For[A], r Replacer[A], cutoff uint64) ast.Expr[A] {
	paramTypes := replaceWithIncreasingCutoff(o.ParamTypes, r, cutoff)
	returnType := Replace(o.ReturnType, r, cutoff+uint64(len(o.ParamTypes)))
	return ast.NewFor(paramTypes, returnType, o.Aux)
}
