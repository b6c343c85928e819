package erasability

import (
	"zokernel/internal/ast"
	"zokernel/internal/eval"
	"zokernel/internal/kernelerrors"
)

const phase = "erasability"

func errMatcheeErasableButReturnTypeNotErasable(m *ast.Match[ast.Minimal], matcheeInd ast.Expr[ast.Minimal], returnTypeType eval.NormalForm) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.ERZ001MatcheeErasableButReturnTypeNotErasable,
		"match eliminates an erasable (Prop) matchee into a non-erasable return type, which is unsound except for a singleton Prop whose parameters are all themselves erasable",
		map[string]any{
			"matchee_digest":           m.Matchee.Digest().String(),
			"matchee_type_ind_digest":  matcheeInd.Digest().String(),
			"match_return_type_digest": m.ReturnType.Digest().String(),
			"return_type_type_digest":  returnTypeType.Expr().Digest().String(),
		}))
}
