package positivity

import "zokernel/internal/ast"

// assertVconSatisfiesPositivity is the one place actual positivity
// violations are raised: every normalized parameter type of the
// constructor must use the ind's own self-reference (the restricted
// entry placed at the front of ctx by checkInd) only strictly positively,
// and every normalized index argument must not mention it at all.
func (c *Checker) assertVconSatisfiesPositivity(ind *ast.Ind[ast.Minimal], vconIndex int, ctx *Context) error {
	def := ind.VconDefs[vconIndex]

	normalizedParamTypes := c.eval.EvalExprs(def.ParamTypes).Exprs()
	paramExtension := falseEntries(max(len(normalizedParamTypes)-1, 0))
	strict := &strictChecker{eval: c.eval}
	for i, paramType := range normalizedParamTypes {
		extended := ctx.extend(paramExtension[:i])
		if path, violated := strict.check(paramType, extended, nil); violated {
			return errParamTypeFailsStrictPositivity(path, vconIndex)
		}
	}

	normalizedIndexArgs := c.eval.EvalExprs(def.IndexArgs).Exprs()
	extended := ctx.extend(falseEntries(len(def.ParamTypes)))
	absence := &absenceChecker{eval: c.eval}
	for _, indexArg := range normalizedIndexArgs {
		if path, violated := absence.check(indexArg, extended, nil); violated {
			return errIndexArgMentionsRecursiveIndParam(path, vconIndex)
		}
	}

	return nil
}
