package recursion

import (
	"errors"
	"fmt"

	"zokernel/internal/ast"
	"zokernel/internal/kernelerrors"
)

const phase = "recursion"

func errIllegalRecursiveCall(requiredArgIndex, requiredSuperstruct uint64) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.REC001IllegalRecursiveCall,
		fmt.Sprintf("recursive call's argument %d is not a strict substructure of the parameter at de Bruijn index %d", requiredArgIndex, requiredSuperstruct),
		map[string]any{"required_decreasing_arg_index": requiredArgIndex, "required_strict_superstruct": requiredSuperstruct}))
}

func errRecursiveFunParamInNonCalleePosition(deb uint64) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.REC002RecursiveFunParamInNonCalleePosition,
		"a recursive function's own self-reference may only appear as the callee of an application, never as a plain value",
		map[string]any{"deb": deb}))
}

func errDeclaredNonrecursiveButUsedRecursiveFunParam(deb uint64) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.REC003DeclaredNonrecursiveButUsedRecursiveFunParam,
		"function is declared nonrec but its body refers to its own self-reference",
		map[string]any{"deb": deb}))
}

func errDecreasingArgIndexTooBig(fun *ast.Fun[ast.Minimal], decreasingIndex uint64) error {
	return kernelerrors.WrapReport(kernelerrors.New(phase, kernelerrors.REC004DecreasingArgIndexTooBig,
		fmt.Sprintf("declared decreasing argument index %d is out of range for a function with %d parameters", decreasingIndex, len(fun.ParamTypes)),
		map[string]any{"decreasing_index": decreasingIndex, "param_count": len(fun.ParamTypes)}))
}

// ErrSuperstructOfMatchCaseUnimplemented is returned when recursion
// checking must determine whether a bare match expression (used directly
// as a recursive call's argument or decreasing-ness probe) is a
// substructure of some parameter. The source this package is ported from
// (zoc's check_fun_recursion.rs) leaves
// get_lowest_superstruct_param_of_match_case entirely unimplemented
// (a literal todo!()); this is a genuine gap in the original algorithm,
// preserved here rather than silently completed, since no other part of
// the corpus supplies the missing case-joining logic. The common path —
// a decreasing argument that is a Deb bound by a match case, rather than
// a bare match expression itself — does not hit this gap.
var ErrSuperstructOfMatchCaseUnimplemented = errors.New("recursion: substructure analysis of a match expression used directly as a recursive argument is not implemented")
