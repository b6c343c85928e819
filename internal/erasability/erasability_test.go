package erasability_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"zokernel/internal/ast"
	"zokernel/internal/erasability"
	"zokernel/internal/eval"
	"zokernel/internal/kernelerrors"
	"zokernel/internal/types"
)

func set0() ast.Universe  { return ast.Universe{Level: 0, Erasable: false} }
func prop0() ast.Universe { return ast.Universe{Level: 0, Erasable: true} }

func u(univ ast.Universe) ast.Expr[ast.Minimal] {
	return ast.NewUniverse[ast.Minimal](univ, ast.Minimal{})
}

// unit0 is `ind Unit0 : Set0 { tt() }`, a nonerasable Set0 type with one
// nullary constructor, used below purely as a concrete Set0-universe
// inhabitant (Unit0 itself has type Set0).
func unit0() ast.Expr[ast.Minimal] {
	return ast.NewInd[ast.Minimal](set0(), "Unit0", nil, []ast.VconDef[ast.Minimal]{{}}, ast.Minimal{})
}

// squash is `ind Squash : Prop1 { box(T: Set0) }`: an erasable (Prop)
// type whose sole constructor carries a nonerasable Set0 payload. Its
// one vcon def does not qualify for the singleton-Prop exception, since
// box's parameter type's own type (Set1) is not erasable. Squash itself
// must live at level 1, since its constructor's parameter type is a
// universe literal whose own type (Set1) has to fit under Squash's
// declared level.
func squash() ast.Expr[ast.Minimal] {
	box := ast.VconDef[ast.Minimal]{ParamTypes: []ast.Expr[ast.Minimal]{u(set0())}}
	return ast.NewInd[ast.Minimal](ast.Universe{Level: 1, Erasable: true}, "Squash", nil, []ast.VconDef[ast.Minimal]{box}, ast.Minimal{})
}

// erasBox is `ind ErasBox : Prop1 { box(T: Prop0) }`: an erasable type
// whose sole constructor carries an erasable payload, so it does
// qualify for the singleton-Prop exception. Like Squash, ErasBox must
// live at level 1 so its constructor's universe-literal parameter type
// (itself typed at Prop1) fits under ErasBox's own declared level.
func erasBox() ast.Expr[ast.Minimal] {
	box := ast.VconDef[ast.Minimal]{ParamTypes: []ast.Expr[ast.Minimal]{u(prop0())}}
	return ast.NewInd[ast.Minimal](ast.Universe{Level: 1, Erasable: true}, "ErasBox", nil, []ast.VconDef[ast.Minimal]{box}, ast.Minimal{})
}

// false0 is `ind False0 : Prop0 {}`, used only as a concrete Prop0
// inhabitant (False0 itself has type Prop0).
func false0() ast.Expr[ast.Minimal] {
	return ast.NewInd[ast.Minimal](prop0(), "False0", nil, nil, ast.Minimal{})
}

func newChecker() *erasability.Checker {
	return erasability.New(types.New(eval.New()))
}

func TestCheckWellTypedRejectsNonSingletonPropEliminatedIntoNonerasable(t *testing.T) {
	ind := squash()
	matchee := ast.NewApp[ast.Minimal](ast.NewVcon(ind, 0, ast.Minimal{}), []ast.Expr[ast.Minimal]{unit0()}, ast.Minimal{})

	m := ast.NewMatch[ast.Minimal](
		matchee, 1, u(set0()),
		[]ast.MatchCase[ast.Minimal]{{Arity: 1, ReturnVal: unit0()}},
		ast.Minimal{},
	)

	err := newChecker().CheckWellTyped(m, nil)
	require.Error(t, err)

	rep, ok := kernelerrors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, kernelerrors.ERZ001MatcheeErasableButReturnTypeNotErasable, rep.Code)
}

func TestCheckWellTypedAcceptsSingletonPropEliminatedIntoNonerasable(t *testing.T) {
	ind := erasBox()
	matchee := ast.NewApp[ast.Minimal](ast.NewVcon(ind, 0, ast.Minimal{}), []ast.Expr[ast.Minimal]{false0()}, ast.Minimal{})

	m := ast.NewMatch[ast.Minimal](
		matchee, 1, u(set0()),
		[]ast.MatchCase[ast.Minimal]{{Arity: 1, ReturnVal: unit0()}},
		ast.Minimal{},
	)

	require.NoError(t, newChecker().CheckWellTyped(m, nil))
}

func TestCheckWellTypedAcceptsErasableEliminatedIntoErasable(t *testing.T) {
	ind := squash()
	matchee := ast.NewApp[ast.Minimal](ast.NewVcon(ind, 0, ast.Minimal{}), []ast.Expr[ast.Minimal]{unit0()}, ast.Minimal{})

	m := ast.NewMatch[ast.Minimal](
		matchee, 1, u(prop0()),
		[]ast.MatchCase[ast.Minimal]{{Arity: 1, ReturnVal: false0()}},
		ast.Minimal{},
	)

	require.NoError(t, newChecker().CheckWellTyped(m, nil))
}

func TestCheckWellTypedAcceptsNonPropMatcheeIntoNonerasable(t *testing.T) {
	ind := unit0()

	m := ast.NewMatch[ast.Minimal](
		ast.NewVcon(ind, 0, ast.Minimal{}), 1, u(set0()),
		[]ast.MatchCase[ast.Minimal]{{Arity: 0, ReturnVal: unit0()}},
		ast.Minimal{},
	)

	require.NoError(t, newChecker().CheckWellTyped(m, nil))
}
