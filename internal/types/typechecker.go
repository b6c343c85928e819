package types

import (
	"zokernel/internal/ast"
	"zokernel/internal/debs"
	"zokernel/internal/eval"
	"zokernel/internal/positivity"
)

// TypeChecker implements bidirectional type checking over the Minimal aux
// data family: GetType infers an expression's type, evaluating as it goes
// so that every returned type is already in normal form. Well-typedness of
// an Ind's constructors also triggers a strict positivity check; the
// structural recursion and erasability conditions are separate top-level
// passes run outside GetType (see the recursion and erasability packages),
// since neither affects whether an expression has the type it claims.
type TypeChecker struct {
	Evaluator  *eval.Evaluator
	Positivity *positivity.Checker
}

// New returns a TypeChecker sharing ev with its own positivity checker.
func New(ev *eval.Evaluator) *TypeChecker {
	return &TypeChecker{Evaluator: ev, Positivity: positivity.New(ev)}
}

// GetType infers expr's type under tcon, resolving any type-level
// equalities scon has learned from enclosing match cases.
func (tc *TypeChecker) GetType(expr ast.Expr[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) (eval.NormalForm, error) {
	switch expr.Tag() {
	case ast.TagInd:
		return tc.getTypeOfInd(expr.AsInd(), tcon, scon)
	case ast.TagVcon:
		return tc.getTypeOfVcon(expr.AsVcon(), tcon, scon)
	case ast.TagMatch:
		return tc.getTypeOfMatch(expr.AsMatch(), tcon, scon)
	case ast.TagFun:
		return tc.getTypeOfFun(expr.AsFun(), tcon, scon)
	case ast.TagApp:
		return tc.getTypeOfApp(expr.AsApp(), tcon, scon)
	case ast.TagFor:
		return tc.getTypeOfFor(expr.AsFor(), tcon, scon)
	case ast.TagDeb:
		return tc.getTypeOfDeb(expr.AsDeb(), tcon)
	case ast.TagUniverse:
		return tc.getTypeOfUniverse(expr.AsUniverse()), nil
	default:
		panic("types: Expr with no populated variant")
	}
}

func (tc *TypeChecker) getTypeOfDeb(d *ast.Deb[ast.Minimal], tcon *TypeContext) (eval.NormalForm, error) {
	ty, ok := tcon.Get(d.Index)
	if !ok {
		return eval.NormalForm{}, errInvalidDeb(d.Index, tcon.Len())
	}
	return tc.Evaluator.Eval(ty), nil
}

func (tc *TypeChecker) getTypeOfUniverse(u *ast.UniverseNode[ast.Minimal]) eval.NormalForm {
	succ := ast.NewUniverse[ast.Minimal](u.Universe.Succ(), ast.Minimal{})
	return tc.Evaluator.Eval(succ)
}

// ============================================================
// Ind
// ============================================================

func (tc *TypeChecker) getTypeOfInd(ind *ast.Ind[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) (eval.NormalForm, error) {
	if err := tc.performIndPrecheck(ind, tcon, scon); err != nil {
		return eval.NormalForm{}, err
	}
	return tc.IndTypeAssumingWellTyped(ind), nil
}

// IndTypeAssumingWellTyped builds an Ind's type (a For from its index
// types to its own universe) without rechecking well-typedness. Safe to
// call even when the ind's vcon defs are ill-typed, since it only reads
// the ind's own scalar fields and index types. Exposed for the
// erasability checker, which needs the same type to bind an ind's own
// self-reference while probing its constructors' param-type types.
func (tc *TypeChecker) IndTypeAssumingWellTyped(ind *ast.Ind[ast.Minimal]) eval.NormalForm {
	normalizedIndexTypes := tc.Evaluator.EvalExprs(ind.IndexTypes).Exprs()
	universeNode := ast.NewUniverse[ast.Minimal](ind.Universe, ast.Minimal{})
	forExpr := ast.NewFor(normalizedIndexTypes, universeNode, ast.Minimal{})
	return tc.Evaluator.Eval(forExpr)
}

func (tc *TypeChecker) performIndPrecheck(ind *ast.Ind[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) error {
	indexTypeTypes, err := tc.GetTypesOfDependentExprs(ind.IndexTypes, tcon, scon)
	if err != nil {
		return err
	}
	if offender, ok := firstNonUniverse(indexTypeTypes); ok {
		return errUnexpectedNonTypeExpression(ind.IndexTypes[offender], indexTypeTypes[offender])
	}

	predictedIndType := tc.IndTypeAssumingWellTyped(ind)

	if offender, level, ok := firstUniverseExceeding(indexTypeTypes, ind.Universe.Level); ok {
		return errUniverseInconsistencyInIndDef(ind.IndexTypes[offender], level, ind.Universe.Level)
	}

	if err := tc.assertIndVconDefsAreWellTyped(ind, predictedIndType, tcon, scon); err != nil {
		return err
	}

	return tc.Positivity.CheckInd(ind, tcon.Len())
}

func (tc *TypeChecker) assertIndVconDefsAreWellTyped(ind *ast.Ind[ast.Minimal], predictedIndType eval.NormalForm, tcon *TypeContext, scon *SubstitutionContext) error {
	for _, def := range ind.VconDefs {
		if err := tc.assertVconDefIsWellTyped(ind, predictedIndType, def, tcon, scon); err != nil {
			return err
		}
	}
	return nil
}

func (tc *TypeChecker) assertVconDefIsWellTyped(ind *ast.Ind[ast.Minimal], predictedIndType eval.NormalForm, def ast.VconDef[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) error {
	tconWithSelf := tcon.Extend([]ast.Expr[ast.Minimal]{predictedIndType.Expr()})

	paramTypeTypes, err := tc.GetTypesOfDependentExprs(def.ParamTypes, tconWithSelf, scon)
	if err != nil {
		return err
	}
	if offender, ok := firstNonUniverse(paramTypeTypes); ok {
		return errUnexpectedNonTypeExpression(def.ParamTypes[offender], paramTypeTypes[offender])
	}

	// Note: extending the context for the index args with the param
	// types themselves (not their universe levels) — the only reading
	// under which a vcon's index args, which mention the constructor's
	// own parameters, type-check at all.
	normalizedParamTypes := tc.Evaluator.EvalExprs(def.ParamTypes).Exprs()
	tconWithParams := tconWithSelf.Extend(normalizedParamTypes)

	if _, err := tc.GetTypesOfIndependentExprs(def.IndexArgs, tconWithParams, scon); err != nil {
		return err
	}

	if len(ind.IndexTypes) != len(def.IndexArgs) {
		return errWrongNumberOfIndexArguments(len(ind.IndexTypes), len(def.IndexArgs))
	}

	if offender, level, ok := firstUniverseExceeding(paramTypeTypes, ind.Universe.Level); ok {
		return errUniverseInconsistencyInIndDef(def.ParamTypes[offender], level, ind.Universe.Level)
	}

	return nil
}

// ============================================================
// Vcon
// ============================================================

func (tc *TypeChecker) getTypeOfVcon(v *ast.Vcon[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) (eval.NormalForm, error) {
	if _, err := tc.getTypeOfInd(v.Ind.AsInd(), tcon, scon); err != nil {
		return eval.NormalForm{}, err
	}

	ind := v.Ind.AsInd()
	if int(v.VconIndex) >= len(ind.VconDefs) {
		return eval.NormalForm{}, errInvalidVconIndex(v.Ind, v.VconIndex)
	}

	return tc.typeOfTrustedVconDef(ind.VconDefs[v.VconIndex], v.Ind), nil
}

// typeOfTrustedVconDef assumes ind (and hence def) is already well-typed.
// def's ParamTypes/IndexArgs are written under one extra binder for the
// ind's own recursive self-reference; that binder is eliminated here by
// substituting the concrete ind for it, yielding a type closed over
// nothing but def's own parameters.
func (tc *TypeChecker) typeOfTrustedVconDef(def ast.VconDef[ast.Minimal], ind ast.Expr[ast.Minimal]) eval.NormalForm {
	substitutedParamTypes := substituteIndSelfDependent(def.ParamTypes, ind)
	substitutedIndexArgs := substituteIndSelfIndependent(def.IndexArgs, ind, uint64(len(def.ParamTypes)))

	normalizedParamTypes := tc.Evaluator.EvalExprs(substitutedParamTypes).Exprs()
	normalizedInd := tc.Evaluator.EvalInd(ind)
	normalizedIndexArgs := tc.Evaluator.EvalExprs(substitutedIndexArgs).Exprs()

	returnType := ast.NewApp(normalizedInd, normalizedIndexArgs, ast.Minimal{})
	forExpr := ast.NewFor(normalizedParamTypes, returnType, ast.Minimal{})
	return tc.Evaluator.Eval(forExpr)
}

// ============================================================
// Match
// ============================================================

func (tc *TypeChecker) getTypeOfMatch(m *ast.Match[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) (eval.NormalForm, error) {
	if err := tc.performMatchPrecheck(m, tcon, scon); err != nil {
		return eval.NormalForm{}, err
	}
	// ReturnType is written under the matchee type's index binders and the
	// matchee's own binder; the match's type substitutes the actual index
	// args and the actual matchee for them.
	matcheeType, err := tc.GetType(m.Matchee, tcon, scon)
	if err != nil {
		return eval.NormalForm{}, err
	}
	_, matcheeArgs, _ := indOrIndApp(matcheeType.Expr())
	substitution := append(append([]ast.Expr[ast.Minimal]{}, matcheeArgs...), tc.Evaluator.Eval(m.Matchee).Expr())
	normalizedReturnType := tc.Evaluator.Eval(m.ReturnType).Expr()
	return tc.Evaluator.Eval(debs.SubstituteAndDownshift(normalizedReturnType, substitution)), nil
}

func (tc *TypeChecker) performMatchPrecheck(m *ast.Match[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) error {
	matcheeType, err := tc.GetType(m.Matchee, tcon, scon)
	if err != nil {
		return err
	}

	matcheeInd, matcheeArgs, ok := indOrIndApp(matcheeType.Expr())
	if !ok {
		return errNonInductiveMatcheeType(matcheeType)
	}

	vconDefs := matcheeInd.AsInd().VconDefs
	if len(vconDefs) != len(m.Cases) {
		return errWrongNumberOfMatchCases(len(vconDefs), len(m.Cases))
	}

	correctReturnTypeArity := uint64(1 + len(matcheeArgs))
	if m.ReturnTypeArity != correctReturnTypeArity {
		return errWrongMatchReturnTypeArity(correctReturnTypeArity, m.ReturnTypeArity)
	}

	if _, err := tc.AssertMatchReturnTypeIsUniverse(m, matcheeInd, tcon, scon); err != nil {
		return err
	}

	normalizedReturnType := tc.Evaluator.Eval(m.ReturnType).Expr()
	return tc.checkMatchCases(m, normalizedReturnType, matcheeInd, tcon, scon)
}

func (tc *TypeChecker) checkMatchCases(m *ast.Match[ast.Minimal], normalizedReturnType ast.Expr[ast.Minimal], matcheeInd ast.Expr[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) error {
	for i := range m.Cases {
		if err := tc.checkMatchCase(m, i, matcheeInd, normalizedReturnType, tcon, scon); err != nil {
			return err
		}
	}
	return nil
}

// checkMatchCase instantiates the match's dependent return type for one
// case by substituting that case's own index args and its generic vcon
// application for the (indices..., matchee) binders ReturnType is
// written under, then checks the case's return_val against the result.
func (tc *TypeChecker) checkMatchCase(m *ast.Match[ast.Minimal], caseIndex int, matcheeInd ast.Expr[ast.Minimal], normalizedReturnType ast.Expr[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) error {
	def := matcheeInd.AsInd().VconDefs[caseIndex]
	cs := m.Cases[caseIndex]

	paramTypesRaw := substituteIndSelfDependent(def.ParamTypes, matcheeInd)
	paramTypes := tc.Evaluator.EvalExprs(paramTypesRaw).Exprs()
	paramCount := len(paramTypes)

	if int(cs.Arity) != paramCount {
		return errWrongMatchCaseArity(caseIndex, paramCount, int(cs.Arity))
	}

	extendedTcon := tcon.Extend(paramTypes)

	indexArgsRaw := substituteIndSelfIndependent(def.IndexArgs, matcheeInd, uint64(len(def.ParamTypes)))
	indexArgs := tc.Evaluator.EvalExprs(indexArgsRaw).Exprs()

	vconCapp := vconCappOfDescendingDebs(matcheeInd, uint64(caseIndex), paramCount)

	substitution := append(append([]ast.Expr[ast.Minimal]{}, indexArgs...), vconCapp)
	expectedReturnType := tc.Evaluator.Eval(debs.SubstituteAndDownshift(normalizedReturnType, substitution))

	actualReturnType, err := tc.GetType(cs.ReturnVal, extendedTcon, scon)
	if err != nil {
		return err
	}

	if !TypesEqual(expectedReturnType.Expr(), actualReturnType.Expr(), scon, extendedTcon.Len()) {
		return errTypeMismatch(cs.ReturnVal, expectedReturnType, actualReturnType)
	}

	return nil
}

// ============================================================
// Fun
// ============================================================

func (tc *TypeChecker) getTypeOfFun(f *ast.Fun[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) (eval.NormalForm, error) {
	paramTypeTypes, err := tc.GetTypesOfDependentExprs(f.ParamTypes, tcon, scon)
	if err != nil {
		return eval.NormalForm{}, err
	}
	if offender, ok := firstNonUniverse(paramTypeTypes); ok {
		return eval.NormalForm{}, errUnexpectedNonTypeExpression(f.ParamTypes[offender], paramTypeTypes[offender])
	}
	normalizedParamTypes := tc.Evaluator.EvalExprs(f.ParamTypes).Exprs()
	tconWithParams := tcon.Extend(normalizedParamTypes)

	returnTypeType, err := tc.GetType(f.ReturnType, tconWithParams, scon)
	if err != nil {
		return eval.NormalForm{}, err
	}
	if !returnTypeType.Expr().IsUniverse() {
		return eval.NormalForm{}, errUnexpectedNonTypeExpression(f.ReturnType, returnTypeType)
	}
	normalizedReturnType := tc.Evaluator.Eval(f.ReturnType)

	funType := ast.NewFor(normalizedParamTypes, normalizedReturnType.Expr(), ast.Minimal{})
	normalizedFunType := tc.Evaluator.Eval(funType)

	tconWithParamsAndSelf := tconWithParams.Extend([]ast.Expr[ast.Minimal]{normalizedFunType.Expr()})
	returnValType, err := tc.GetType(f.ReturnVal, tconWithParamsAndSelf, scon)
	if err != nil {
		return eval.NormalForm{}, err
	}

	// normalizedReturnType was derived under the param binders only; the
	// return value sees one more binder (the fun's own self-reference),
	// so the expected type must be upshifted before comparison.
	expectedReturnValType := tc.Evaluator.Eval(debs.Upshift(normalizedReturnType.Expr(), 1))
	if !TypesEqual(expectedReturnValType.Expr(), returnValType.Expr(), scon, tconWithParamsAndSelf.Len()) {
		return eval.NormalForm{}, errTypeMismatch(f.ReturnVal, expectedReturnValType, returnValType)
	}

	return normalizedFunType, nil
}

// ============================================================
// App
// ============================================================

func (tc *TypeChecker) getTypeOfApp(a *ast.App[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) (eval.NormalForm, error) {
	calleeType, err := tc.GetType(a.Callee, tcon, scon)
	if err != nil {
		return eval.NormalForm{}, err
	}
	if calleeType.Expr().Tag() != ast.TagFor {
		return eval.NormalForm{}, errCalleeTypeIsNotAForExpression(calleeType)
	}
	forType := calleeType.Expr().AsFor()

	if len(a.Args) != len(forType.ParamTypes) {
		return eval.NormalForm{}, errWrongNumberOfAppArguments(len(forType.ParamTypes), len(a.Args))
	}

	argTypes, err := tc.GetTypesOfIndependentExprs(a.Args, tcon, scon)
	if err != nil {
		return eval.NormalForm{}, err
	}
	normalizedArgs := tc.Evaluator.EvalExprs(a.Args).Exprs()

	for i := range normalizedArgs {
		substitutedParamType := debs.SubstituteAndDownshift(forType.ParamTypes[i], normalizedArgs[:i])
		normalizedExpected := tc.Evaluator.Eval(substitutedParamType)
		if !TypesEqual(normalizedExpected.Expr(), argTypes[i].Expr(), scon, tcon.Len()) {
			return eval.NormalForm{}, errTypeMismatch(a.Args[i], normalizedExpected, argTypes[i])
		}
	}

	substitutedReturnType := debs.SubstituteAndDownshift(forType.ReturnType, normalizedArgs)
	return tc.Evaluator.Eval(substitutedReturnType), nil
}

// ============================================================
// For
// ============================================================

func (tc *TypeChecker) getTypeOfFor(f *ast.For[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) (eval.NormalForm, error) {
	paramTypeTypes, err := tc.GetTypesOfDependentExprs(f.ParamTypes, tcon, scon)
	if err != nil {
		return eval.NormalForm{}, err
	}
	if offender, ok := firstNonUniverse(paramTypeTypes); ok {
		return eval.NormalForm{}, errUnexpectedNonTypeExpression(f.ParamTypes[offender], paramTypeTypes[offender])
	}
	normalizedParamTypes := tc.Evaluator.EvalExprs(f.ParamTypes).Exprs()
	tconWithParams := tcon.Extend(normalizedParamTypes)

	returnTypeType, err := tc.GetType(f.ReturnType, tconWithParams, scon)
	if err != nil {
		return eval.NormalForm{}, err
	}
	if returnTypeType.Expr().Tag() != ast.TagUniverse {
		return eval.NormalForm{}, errUnexpectedNonTypeExpression(f.ReturnType, returnTypeType)
	}

	resultUniverse := forUniverse(returnTypeType.Expr().AsUniverse().Universe, paramTypeTypes)
	universeExpr := ast.NewUniverse[ast.Minimal](resultUniverse, ast.Minimal{})
	return tc.Evaluator.Eval(universeExpr), nil
}

// ============================================================
// Shared helpers
// ============================================================

// GetTypesOfDependentExprs types a sequence whose later elements may
// refer to earlier ones (Ind.IndexTypes, Fun/For.ParamTypes,
// VconDef.ParamTypes): expr i is checked with the first i results
// already in scope.
func (tc *TypeChecker) GetTypesOfDependentExprs(exprs []ast.Expr[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) ([]eval.NormalForm, error) {
	out := make([]eval.NormalForm, 0, len(exprs))
	for _, e := range exprs {
		extended := tcon.Extend(normalFormsToExprs(out))
		ty, err := tc.GetType(e, extended, scon)
		if err != nil {
			return nil, err
		}
		out = append(out, ty)
	}
	return out, nil
}

// GetTypesOfIndependentExprs types a sequence whose elements share
// exactly the ambient context (VconDef.IndexArgs, App.Args).
func (tc *TypeChecker) GetTypesOfIndependentExprs(exprs []ast.Expr[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) ([]eval.NormalForm, error) {
	out := make([]eval.NormalForm, len(exprs))
	for i, e := range exprs {
		ty, err := tc.GetType(e, tcon, scon)
		if err != nil {
			return nil, err
		}
		out[i] = ty
	}
	return out, nil
}

// AssertMatcheeTypeIsInductive reports the ind (and its index
// instantiation, if any) that matcheeType denotes, for callers outside
// this package that already hold a matchee's type and need the same
// inductive-type test performed internally while checking a Match (the
// erasability checker is the only such caller).
func (tc *TypeChecker) AssertMatcheeTypeIsInductive(matcheeType eval.NormalForm) (ast.Expr[ast.Minimal], []ast.Expr[ast.Minimal], error) {
	ind, args, ok := indOrIndApp(matcheeType.Expr())
	if !ok {
		return ast.Expr[ast.Minimal]{}, nil, errNonInductiveMatcheeType(matcheeType)
	}
	return ind, args, nil
}

// AssertExprTypeIsUniverse infers expr's type and asserts it is a
// universe, returning it. Exposed for the erasability checker, which
// needs a match's return type's type without redoing the rest of a
// match precheck.
func (tc *TypeChecker) AssertExprTypeIsUniverse(expr ast.Expr[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) (eval.NormalForm, error) {
	ty, err := tc.GetType(expr, tcon, scon)
	if err != nil {
		return eval.NormalForm{}, err
	}
	if !ty.Expr().IsUniverse() {
		return eval.NormalForm{}, errUnexpectedNonTypeExpression(expr, ty)
	}
	return ty, nil
}

// AssertMatchReturnTypeIsUniverse types m's ReturnType under the
// context it is actually written against — matcheeInd's own index
// types, followed by a fresh binder for the matchee itself applied to
// those indices — and asserts the result is a universe. Exposed so the
// erasability checker can probe a match's return-type-type without
// redoing the surrounding well-typedness check.
func (tc *TypeChecker) AssertMatchReturnTypeIsUniverse(m *ast.Match[ast.Minimal], matcheeInd ast.Expr[ast.Minimal], tcon *TypeContext, scon *SubstitutionContext) (eval.NormalForm, error) {
	indexTypes := matcheeInd.AsInd().IndexTypes
	layer := append(append([]ast.Expr[ast.Minimal]{}, indexTypes...), indCappOfDescendingDebs(matcheeInd))
	extended := tcon.Extend(layer)
	return tc.AssertExprTypeIsUniverse(m.ReturnType, extended, scon)
}

// VconDefParamTypes returns the vconIndex'th constructor's parameter
// types for ind, with the ind's own recursive self-reference binder
// eliminated (substituted with ind itself) and every type normalized —
// the same closed form typeOfTrustedVconDef builds when typing a bare
// Vcon, exposed here for callers (erasability) that need just the
// parameter types to extend a context for one match case, without
// constructing the vcon's full product type.
func (tc *TypeChecker) VconDefParamTypes(ind ast.Expr[ast.Minimal], vconIndex uint64) []ast.Expr[ast.Minimal] {
	def := ind.AsInd().VconDefs[vconIndex]
	substituted := substituteIndSelfDependent(def.ParamTypes, ind)
	return tc.Evaluator.EvalExprs(substituted).Exprs()
}
