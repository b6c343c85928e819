package types

import (
	"fmt"

	"zokernel/internal/ast"
	"zokernel/internal/eval"
	"zokernel/internal/kernelerrors"
)

const phase = "typecheck"

func errInvalidDeb(index, tconLen uint64) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC001InvalidDeb,
		fmt.Sprintf("de Bruijn index %d is out of range in a context of length %d", index, tconLen),
		map[string]any{"index": index, "tcon_len": tconLen}))
}

func errInvalidVconIndex(ind ast.Expr[ast.Minimal], vconIndex uint64) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC002InvalidVconIndex,
		fmt.Sprintf("vcon index %d has no matching constructor definition", vconIndex),
		map[string]any{"vcon_index": vconIndex, "ind_digest": ind.Digest().String()}))
}

func errUnexpectedNonTypeExpression(expr ast.Expr[ast.Minimal], got eval.NormalForm) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC003UnexpectedNonTypeExpression,
		"expected a universe (Set_n or Prop_n) here, found a non-type expression",
		map[string]any{"expr_digest": expr.Digest().String(), "actual_type_digest": got.Expr().Digest().String()}))
}

func errUniverseInconsistencyInIndDef(offender ast.Expr[ast.Minimal], level, indLevel uint64) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC004UniverseInconsistencyInIndDef,
		fmt.Sprintf("index/param type lives in universe level %d, which exceeds the ind's own level %d", level, indLevel),
		map[string]any{"offender_digest": offender.Digest().String(), "level": level, "ind_level": indLevel}))
}

func errWrongNumberOfIndexArguments(expected, actual int) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC005WrongNumberOfIndexArguments,
		fmt.Sprintf("constructor definition supplies %d index arguments, ind declares %d indices", actual, expected),
		map[string]any{"expected": expected, "actual": actual}))
}

func errNonInductiveMatcheeType(matcheeType eval.NormalForm) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC006NonInductiveMatcheeType,
		"match expression's matchee does not have an inductive type",
		map[string]any{"matchee_type_digest": matcheeType.Expr().Digest().String()}))
}

func errWrongNumberOfMatchCases(expected, actual int) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC007WrongNumberOfMatchCases,
		fmt.Sprintf("matchee's ind has %d constructors but the match supplies %d cases", expected, actual),
		map[string]any{"expected": expected, "actual": actual}))
}

func errTypeMismatch(expr ast.Expr[ast.Minimal], expected, actual eval.NormalForm) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC008TypeMismatch,
		"expression's inferred type does not match the expected type",
		map[string]any{
			"expr_digest":     expr.Digest().String(),
			"expected_digest": expected.Expr().Digest().String(),
			"actual_digest":   actual.Expr().Digest().String(),
		}))
}

func errCalleeTypeIsNotAForExpression(calleeType eval.NormalForm) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC009CalleeTypeIsNotAForExpression,
		"application's callee does not have a for (product) type",
		map[string]any{"callee_type_digest": calleeType.Expr().Digest().String()}))
}

func errWrongNumberOfAppArguments(expected, actual int) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC010WrongNumberOfAppArguments,
		fmt.Sprintf("callee's for-type declares %d parameters, application supplies %d arguments", expected, actual),
		map[string]any{"expected": expected, "actual": actual}))
}

func errWrongMatchReturnTypeArity(expected, actual uint64) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC011WrongMatchReturnTypeArity,
		fmt.Sprintf("match declares return_type_arity %d, but the matchee's type supplies %d binders (indices plus the matchee itself)", actual, expected),
		map[string]any{"expected": expected, "actual": actual}))
}

func errWrongMatchCaseArity(caseIndex, expected, actual int) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.TC012WrongMatchCaseArity,
		fmt.Sprintf("match case %d declares arity %d, but its constructor takes %d parameters", caseIndex, actual, expected),
		map[string]any{"case_index": caseIndex, "expected": expected, "actual": actual}))
}
