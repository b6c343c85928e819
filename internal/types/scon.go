package types

import (
	"zokernel/internal/ast"
	"zokernel/internal/debs"
)

// LazySubstitution records a type-level equation From ≡ To learned while
// checking one match case — e.g. that the case's vcon-supplied index
// argument equals the matchee's corresponding index argument, or that
// the matchee itself equals its own parameterized vcon application. It
// is scoped to the Γ depth (TconLen) at which it was recorded, so a use
// at a deeper Γ can upshift it first.
type LazySubstitution struct {
	TconLen uint64
	From    ast.Expr[ast.Minimal]
	To      ast.Expr[ast.Minimal]
}

// SubstitutionContext (Σ) is a lazily linked context of substitution
// groups, mirroring TypeContext's cons-list shape: each match case
// pushes its own group of equations without touching the outer ones.
type SubstitutionContext struct {
	group []LazySubstitution
	outer *SubstitutionContext
}

// Extend returns a new context with group pushed in front of sc.
func (sc *SubstitutionContext) Extend(group []LazySubstitution) *SubstitutionContext {
	return &SubstitutionContext{group: group, outer: sc}
}

func (sc *SubstitutionContext) rules(currentTconLen uint64) []LazySubstitution {
	var out []LazySubstitution
	for c := sc; c != nil; c = c.outer {
		for _, s := range c.group {
			amount := currentTconLen - s.TconLen
			out = append(out, LazySubstitution{
				TconLen: currentTconLen,
				From:    debs.Upshift(s.From, amount),
				To:      debs.Upshift(s.To, amount),
			})
		}
	}
	return out
}

// TypesEqual decides whether expected and actual denote the same type,
// up to the equations recorded in scon. A bare digest comparison misses
// equalities a match case is entitled to assume (its matchee equals a
// parameterized vcon application even though the two sides' normal forms
// differ syntactically), so those equations are applied as a rewrite
// step before falling back to structural equality.
func TypesEqual(expected, actual ast.Expr[ast.Minimal], scon *SubstitutionContext, tconLen uint64) bool {
	if expected.Digest() == actual.Digest() {
		return true
	}

	rules := scon.rules(tconLen)
	if len(rules) == 0 {
		return false
	}

	rewrittenActual := rewriteToFixpoint(actual, rules)
	if rewrittenActual.Digest() == expected.Digest() {
		return true
	}

	rewrittenExpected := rewriteToFixpoint(expected, rules)
	return rewrittenExpected.Digest() == rewrittenActual.Digest()
}

const rewriteFixpointLimit = 8

// rewriteToFixpoint repeatedly applies the congruence-closure rewrite
// step until it stabilizes or the iteration limit is hit (a learned
// equation set from a single match case is always finite and small, so
// this terminates in practice well before the limit).
func rewriteToFixpoint(e ast.Expr[ast.Minimal], rules []LazySubstitution) ast.Expr[ast.Minimal] {
	for i := 0; i < rewriteFixpointLimit; i++ {
		next, changed := rewriteOnce(e, rules)
		if !changed {
			return e
		}
		e = next
	}
	return e
}

func rewriteOnce(e ast.Expr[ast.Minimal], rules []LazySubstitution) (ast.Expr[ast.Minimal], bool) {
	for _, r := range rules {
		if e.Digest() == r.From.Digest() {
			return r.To, true
		}
	}

	switch e.Tag() {
	case ast.TagApp:
		o := e.AsApp()
		callee, c1 := rewriteOnce(o.Callee, rules)
		args, c2 := rewriteExprsOnce(o.Args, rules)
		if !c1 && !c2 {
			return e, false
		}
		return ast.NewApp(callee, args, ast.Minimal{}), true

	case ast.TagVcon:
		o := e.AsVcon()
		ind, changed := rewriteOnce(o.Ind, rules)
		if !changed {
			return e, false
		}
		return ast.NewVcon(ind, o.VconIndex, ast.Minimal{}), true

	case ast.TagFor:
		o := e.AsFor()
		params, c1 := rewriteExprsOnce(o.ParamTypes, rules)
		ret, c2 := rewriteOnce(o.ReturnType, rules)
		if !c1 && !c2 {
			return e, false
		}
		return ast.NewFor(params, ret, ast.Minimal{}), true

	default:
		// Ind, Match, Fun, Deb, and Universe nodes are matched only at the
		// top level above: the equations this kernel records never target a
		// subexpression nested inside one of these (they arise from vcon
		// index-arg/matchee equalities, which only ever produce App/Vcon/For
		// shapes), so deeper congruence traversal is unneeded here.
		return e, false
	}
}

func rewriteExprsOnce(exprs []ast.Expr[ast.Minimal], rules []LazySubstitution) ([]ast.Expr[ast.Minimal], bool) {
	if len(exprs) == 0 {
		return exprs, false
	}
	out := make([]ast.Expr[ast.Minimal], len(exprs))
	changedAny := false
	for i, e := range exprs {
		next, changed := rewriteOnce(e, rules)
		out[i] = next
		changedAny = changedAny || changed
	}
	if !changedAny {
		return exprs, false
	}
	return out, true
}
