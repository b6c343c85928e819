package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"zokernel/internal/ast"
)

func set0() ast.Universe { return ast.Universe{Level: 0, Erasable: false} }

func TestDigestDeterministic(t *testing.T) {
	mkNat := func() ast.Expr[ast.Minimal] {
		return ast.NewInd[ast.Minimal](set0(), "Nat", nil, []ast.VconDef[ast.Minimal]{
			{}, // zero
			{ParamTypes: []ast.Expr[ast.Minimal]{ast.NewDeb[ast.Minimal](0, ast.Minimal{})}}, // succ
		}, ast.Minimal{})
	}

	a := mkNat()
	b := mkNat()
	require.Equal(t, a.Digest(), b.Digest(), "structurally identical inds must hash identically")
}

func TestDigestIgnoresAuxData(t *testing.T) {
	type spanAux struct{ Line int }

	mk := func(line int) ast.Expr[spanAux] {
		return ast.NewDeb[spanAux](3, spanAux{Line: line})
	}

	d1 := mk(10).Digest()
	d2 := mk(99).Digest()
	require.Equal(t, d1, d2, "digest must be insensitive to aux data (Testable Property 7)")
}

func TestDigestDistinguishesStructure(t *testing.T) {
	d0 := ast.NewDeb[ast.Minimal](0, ast.Minimal{})
	d1 := ast.NewDeb[ast.Minimal](1, ast.Minimal{})
	require.NotEqual(t, d0.Digest(), d1.Digest())
}

func TestNullaryAppCollapsesToCallee(t *testing.T) {
	callee := ast.NewDeb[ast.Minimal](0, ast.Minimal{})
	app := ast.NewApp[ast.Minimal](callee, nil, ast.Minimal{})
	require.Equal(t, callee.Digest(), app.Digest())
	require.Equal(t, ast.TagDeb, app.Tag())
}

func TestNullaryForCollapsesToReturnType(t *testing.T) {
	ret := ast.NewUniverse[ast.Minimal](set0(), ast.Minimal{})
	forExpr := ast.NewFor[ast.Minimal](nil, ret, ast.Minimal{})
	require.Equal(t, ret.Digest(), forExpr.Digest())
	require.Equal(t, ast.TagUniverse, forExpr.Tag())
}

func TestFunRequiresAtLeastOneParam(t *testing.T) {
	ret := ast.NewUniverse[ast.Minimal](set0(), ast.Minimal{})
	_, err := ast.NewFun[ast.Minimal](nil, nil, ret, ret, ast.Minimal{})
	require.ErrorIs(t, err, ast.ErrFunHasZeroParams)
}

func TestNodePathRenders(t *testing.T) {
	p := ast.NodePath{}.Append(ast.IndVconDefs, 1).Append(ast.VconDefParamTypes, 0)
	require.Equal(t, "Ind.VconDefs[1] / VconDef.ParamTypes[0]", p.String())
}

func TestUniverseSucc(t *testing.T) {
	u := ast.Universe{Level: 2, Erasable: true}
	if diff := cmp.Diff(ast.Universe{Level: 3, Erasable: true}, u.Succ()); diff != "" {
		t.Fatalf("Succ mismatch (-want +got):\n%s", diff)
	}
}
