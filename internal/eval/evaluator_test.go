package eval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"zokernel/internal/ast"
	"zokernel/internal/eval"
)

func set0() ast.Universe { return ast.Universe{Level: 0, Erasable: false} }

// nat builds: Ind(Set0, "Nat", [], [zero: {}, succ: {params: [Deb(0)]}])
// Deb(0) inside succ's param type refers to the ind's own self-reference
// binder introduced by Ind (cutoff = 0 at top of vcon_defs, ind itself is
// bound at index 0 there).
func nat() ast.Expr[ast.Minimal] {
	return ast.NewInd[ast.Minimal](set0(), "Nat", nil, []ast.VconDef[ast.Minimal]{
		{},
		{ParamTypes: []ast.Expr[ast.Minimal]{ast.NewDeb[ast.Minimal](0, ast.Minimal{})}},
	}, ast.Minimal{})
}

func zero() ast.Expr[ast.Minimal] {
	return ast.NewVcon[ast.Minimal](nat(), 0, ast.Minimal{})
}

func succ(n ast.Expr[ast.Minimal]) ast.Expr[ast.Minimal] {
	return ast.NewApp[ast.Minimal](ast.NewVcon[ast.Minimal](nat(), 1, ast.Minimal{}), []ast.Expr[ast.Minimal]{n}, ast.Minimal{})
}

func TestEvalIndIsIdempotent(t *testing.T) {
	ev := eval.New()
	first := ev.Eval(nat())
	second := ev.Eval(first.Expr())
	require.Equal(t, first.Expr().Digest(), second.Expr().Digest(), "Testable Property 1: normalization is idempotent")
}

func TestEvalVconOfNatStaysStuckAsValue(t *testing.T) {
	ev := eval.New()
	nf := ev.Eval(succ(succ(zero())))
	require.Equal(t, ast.TagApp, nf.Expr().Tag(), "a fully-applied vcon has no redex and stays as-is")
}

func TestEvalStuckMatchReturnsUnevaluated(t *testing.T) {
	// match succ(zero) { case arity=0 => zero }  -- only one case for a 2-vcon Nat,
	// so matching on succ(zero) (vcon index 1) is out of range: the
	// evaluator must return the match node unevaluated rather than error.
	matchee := succ(zero())
	oneCase := []ast.MatchCase[ast.Minimal]{
		{Arity: 0, ReturnVal: zero()},
	}
	m := ast.NewMatch[ast.Minimal](matchee, 1, ast.NewUniverse[ast.Minimal](set0(), ast.Minimal{}), oneCase, ast.Minimal{})

	ev := eval.New()
	nf := ev.Eval(m)
	require.Equal(t, ast.TagMatch, nf.Expr().Tag(), "out-of-range vcon index must leave the match stuck, not error")
}

func TestEvalMatchOnZeroReducesToCaseZero(t *testing.T) {
	// match zero { zero-case => succ(zero); succ-case(n) => n }
	cases := []ast.MatchCase[ast.Minimal]{
		{Arity: 0, ReturnVal: succ(zero())},
		{Arity: 1, ReturnVal: ast.NewDeb[ast.Minimal](0, ast.Minimal{})},
	}
	m := ast.NewMatch[ast.Minimal](zero(), 1, ast.NewUniverse[ast.Minimal](set0(), ast.Minimal{}), cases, ast.Minimal{})

	ev := eval.New()
	nf := ev.Eval(m)
	require.Equal(t, ev.Eval(succ(zero())).Expr().Digest(), nf.Expr().Digest())
}

func TestEvalMatchOnSuccExtractsPredecessor(t *testing.T) {
	cases := []ast.MatchCase[ast.Minimal]{
		{Arity: 0, ReturnVal: zero()},
		{Arity: 1, ReturnVal: ast.NewDeb[ast.Minimal](0, ast.Minimal{})},
	}
	one := succ(zero())
	m := ast.NewMatch[ast.Minimal](one, 1, ast.NewUniverse[ast.Minimal](set0(), ast.Minimal{}), cases, ast.Minimal{})

	ev := eval.New()
	nf := ev.Eval(m)
	require.Equal(t, ev.Eval(zero()).Expr().Digest(), nf.Expr().Digest(), "matching succ(zero) on the succ-case binds n=zero")
}

func TestEvalAppUnfoldsNonRecursiveFun(t *testing.T) {
	// (fun (n: Nat): Nat => n) applied to succ(zero) reduces to succ(zero).
	// In the return value Deb(0) is the fun itself and Deb(1) is n.
	natTy := nat()
	identity, err := ast.NewFun[ast.Minimal](nil, []ast.Expr[ast.Minimal]{natTy}, natTy, ast.NewDeb[ast.Minimal](1, ast.Minimal{}), ast.Minimal{})
	require.NoError(t, err)
	app := ast.NewApp[ast.Minimal](identity, []ast.Expr[ast.Minimal]{succ(zero())}, ast.Minimal{})

	ev := eval.New()
	nf := ev.Eval(app)
	require.Equal(t, ev.Eval(succ(zero())).Expr().Digest(), nf.Expr().Digest())
}

func TestEvalAppDoesNotUnfoldRecursiveFunOnStuckDecreasingArg(t *testing.T) {
	// A recursive fun whose decreasing arg is a bare Deb (not a vcon) must
	// not unfold: S3, stuck recursion.
	natTy := nat()
	decreasing := uint64(0)
	// In the return value Deb(0) is the fun itself and Deb(1) is its param.
	selfCall := ast.NewApp[ast.Minimal](ast.NewDeb[ast.Minimal](0, ast.Minimal{}), []ast.Expr[ast.Minimal]{ast.NewDeb[ast.Minimal](1, ast.Minimal{})}, ast.Minimal{})
	recFn, err := ast.NewFun[ast.Minimal](&decreasing, []ast.Expr[ast.Minimal]{natTy}, natTy, selfCall, ast.Minimal{})
	require.NoError(t, err)

	freeVar := ast.NewDeb[ast.Minimal](5, ast.Minimal{})
	app := ast.NewApp[ast.Minimal](recFn, []ast.Expr[ast.Minimal]{freeVar}, ast.Minimal{})

	ev := eval.New()
	nf := ev.Eval(app)
	require.Equal(t, ast.TagApp, nf.Expr().Tag(), "application must remain stuck when the decreasing arg is not a vcon")
}

func TestEvalCachesSelfLoop(t *testing.T) {
	ev := eval.New()
	nf := ev.Eval(nat())
	again := ev.Eval(nf.Expr())
	require.Equal(t, nf.Expr().Digest(), again.Expr().Digest())
}
