package positivity

import (
	"zokernel/internal/ast"
	"zokernel/internal/kernelerrors"
)

const phase = "positivity"

func errParamTypeFailsStrictPositivity(path ast.NodePath, vconIndex int) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.POS001VconDefParamTypeFailsStrictPositivity,
		"constructor parameter type does not use the inductive type's own self-reference strictly positively",
		map[string]any{"vcon_index": vconIndex}).WithPath(path))
}

func errIndexArgMentionsRecursiveIndParam(path ast.NodePath, vconIndex int) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.POS002RecursiveIndParamInVconDefIndexArg,
		"constructor's index argument mentions the inductive type's own self-reference, which must be wholly absent there",
		map[string]any{"vcon_index": vconIndex}).WithPath(path))
}
