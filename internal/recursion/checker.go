package recursion

import "zokernel/internal/ast"

// Check asserts expr satisfies the structural recursion condition,
// starting from an empty context (no ambient recursive fun is in scope).
func Check(expr ast.Expr[ast.Minimal]) error {
	return checkExpr(expr, nil)
}

func checkExpr(expr ast.Expr[ast.Minimal], rcon *Context) error {
	switch expr.Tag() {
	case ast.TagInd:
		return checkInd(expr.AsInd(), rcon)
	case ast.TagVcon:
		return checkVcon(expr.AsVcon(), rcon)
	case ast.TagMatch:
		return checkMatch(expr.AsMatch(), rcon)
	case ast.TagFun:
		return checkFun(expr.AsFun(), nil, rcon)
	case ast.TagApp:
		return checkApp(expr.AsApp(), rcon)
	case ast.TagFor:
		return checkFor(expr.AsFor(), rcon)
	case ast.TagDeb:
		return checkDeb(expr.AsDeb(), rcon)
	case ast.TagUniverse:
		return nil
	default:
		panic("recursion: Expr with no populated variant")
	}
}

func checkInd(ind *ast.Ind[ast.Minimal], rcon *Context) error {
	if err := checkDependentExprs(ind.IndexTypes, rcon); err != nil {
		return err
	}
	extended := rcon.extend([]entry{irrelevant()})
	return checkVconDefs(ind.VconDefs, extended)
}

func checkVconDefs(defs []ast.VconDef[ast.Minimal], rcon *Context) error {
	for _, def := range defs {
		if err := checkVconDef(def, rcon); err != nil {
			return err
		}
	}
	return nil
}

func checkVconDef(def ast.VconDef[ast.Minimal], rcon *Context) error {
	if err := checkDependentExprs(def.ParamTypes, rcon); err != nil {
		return err
	}
	extended := rcon.extend(irrelevantEntries(len(def.ParamTypes)))
	return checkIndependentExprs(def.IndexArgs, extended)
}

func checkVcon(vcon *ast.Vcon[ast.Minimal], rcon *Context) error {
	return checkInd(vcon.Ind.AsInd(), rcon)
}

func checkMatch(m *ast.Match[ast.Minimal], rcon *Context) error {
	if err := checkExpr(m.Matchee, rcon); err != nil {
		return err
	}

	paramDeb, _, found, err := getLowestSuperstructParam(m.Matchee, rcon)
	if err != nil {
		return err
	}

	return checkMatchCases(m.Cases, paramDeb, found, rcon)
}

func checkMatchCases(cases []ast.MatchCase[ast.Minimal], paramDeb uint64, haveParamDeb bool, rcon *Context) error {
	for _, cs := range cases {
		extension := rconExtensionOfIrrelevantOrStrictSubstructEntries(paramDeb, haveParamDeb, int(cs.Arity))
		extended := rcon.extend(extension)
		if err := checkExpr(cs.ReturnVal, extended); err != nil {
			return err
		}
	}
	return nil
}

func rconExtensionOfIrrelevantOrStrictSubstructEntries(deb uint64, haveDeb bool, length int) []entry {
	if !haveDeb {
		return irrelevantEntries(length)
	}
	if length <= 0 {
		return nil
	}
	out := make([]entry, length)
	for i := range out {
		out[i] = entry{kind: entryDecreasingParamStrictSubstruct, parentParam: deb + uint64(i)}
	}
	return out
}

func checkFun(fun *ast.Fun[ast.Minimal], appArgStatus []entry, rcon *Context) error {
	if err := checkDependentExprs(fun.ParamTypes, rcon); err != nil {
		return err
	}
	if err := checkFunReturnType(fun, rcon); err != nil {
		return err
	}

	extension, err := getFunRconExtension(fun, appArgStatus)
	if err != nil {
		return err
	}
	extended := rcon.extend(extension)

	return checkExpr(fun.ReturnVal, extended)
}

func checkFunReturnType(fun *ast.Fun[ast.Minimal], rcon *Context) error {
	extended := rcon.extend(irrelevantEntries(len(fun.ParamTypes)))
	return checkExpr(fun.ReturnType, extended)
}

func getFunRconExtension(fun *ast.Fun[ast.Minimal], appArgStatus []entry) ([]entry, error) {
	funEntry, err := getFunEntryAndAssertDecreasingIndexIsValid(fun)
	if err != nil {
		return nil, err
	}
	paramEntries := getFunParamEntries(fun, appArgStatus)
	return append(paramEntries, funEntry), nil
}

func getFunEntryAndAssertDecreasingIndexIsValid(fun *ast.Fun[ast.Minimal]) (entry, error) {
	if fun.DecreasingIndex == nil {
		return entry{kind: entryNonrecursiveFun, definitionSrc: fun}, nil
	}
	idx := *fun.DecreasingIndex
	if int(idx) >= len(fun.ParamTypes) {
		return entry{}, errDecreasingArgIndexTooBig(fun, idx)
	}
	return entry{kind: entryRecursiveFun, decreasingArgIndex: idx, definitionSrc: fun}, nil
}

func getFunParamEntries(fun *ast.Fun[ast.Minimal], appArgStatus []entry) []entry {
	if appArgStatus != nil {
		return appArgStatus
	}

	n := len(fun.ParamTypes)
	out := make([]entry, n)
	if fun.DecreasingIndex == nil {
		// Every param of a nonrec function is vacuously decreasing: it
		// never needs to satisfy a recursive call requirement.
		for i := range out {
			out[i] = entry{kind: entryDecreasingParam}
		}
		return out
	}

	idx := *fun.DecreasingIndex
	for i := range out {
		if uint64(i) == idx {
			out[i] = entry{kind: entryDecreasingParam}
		} else {
			out[i] = irrelevant()
		}
	}
	return out
}

func checkApp(app *ast.App[ast.Minimal], rcon *Context) error {
	skipCalleeCheck := false

	switch app.Callee.Tag() {
	case ast.TagDeb:
		calleeDeb := app.Callee.AsDeb().Index
		if req, ok := rcon.getCallRequirement(calleeDeb); ok {
			switch req.kind {
			case callRequirementRecursive:
				if err := assertArgSatisfiesRecursiveCallRequirement(app, req, rcon); err != nil {
					return err
				}
			case callRequirementAccessForbidden:
				return errDeclaredNonrecursiveButUsedRecursiveFunParam(calleeDeb)
			}
			skipCalleeCheck = true
		}

	case ast.TagFun:
		callee := app.Callee.AsFun()
		argStatus, err := buildAppArgStatus(callee, app.Args, rcon)
		if err != nil {
			return err
		}
		if err := checkFun(callee, argStatus, rcon); err != nil {
			return err
		}
		skipCalleeCheck = true
	}

	if !skipCalleeCheck {
		if err := checkExpr(app.Callee, rcon); err != nil {
			return err
		}
	}

	return checkIndependentExprs(app.Args, rcon)
}

func buildAppArgStatus(callee *ast.Fun[ast.Minimal], args []ast.Expr[ast.Minimal], rcon *Context) ([]entry, error) {
	out := make([]entry, len(args))
	for i, arg := range args {
		isDecreasingSlot := callee.DecreasingIndex == nil || uint64(i) == *callee.DecreasingIndex
		if !isDecreasingSlot {
			out[i] = irrelevant()
			continue
		}

		paramDeb, strict, found, err := getLowestSuperstructParam(arg, rcon)
		if err != nil {
			return nil, err
		}
		if !found {
			out[i] = entry{kind: entryDecreasingParam}
			continue
		}
		shifted := parentRef{deb: paramDeb + uint64(i), strict: strict}
		out[i] = entry{kind: entryDecreasingParam, parent: &shifted}
	}
	return out, nil
}

func assertArgSatisfiesRecursiveCallRequirement(app *ast.App[ast.Minimal], req callRequirement, rcon *Context) error {
	if int(req.argIndex) >= len(app.Args) {
		// The user-supplied decreasing index or argument count is
		// already ill-typed; the type checker reports that separately,
		// so this deliberately does not also error here.
		return nil
	}

	arg := app.Args[req.argIndex]
	ok, err := isStrictSubstruct(arg, req.strictSuperstruct, rcon)
	if err != nil {
		return err
	}
	if !ok {
		return errIllegalRecursiveCall(req.argIndex, req.strictSuperstruct)
	}
	return nil
}

func checkFor(f *ast.For[ast.Minimal], rcon *Context) error {
	if err := checkDependentExprs(f.ParamTypes, rcon); err != nil {
		return err
	}
	extended := rcon.extend(irrelevantEntries(len(f.ParamTypes)))
	return checkExpr(f.ReturnType, extended)
}

func checkDeb(d *ast.Deb[ast.Minimal], rcon *Context) error {
	req, ok := rcon.getCallRequirement(d.Index)
	if !ok {
		return nil
	}
	switch req.kind {
	case callRequirementRecursive:
		return errRecursiveFunParamInNonCalleePosition(d.Index)
	case callRequirementAccessForbidden:
		return errDeclaredNonrecursiveButUsedRecursiveFunParam(d.Index)
	default:
		return nil
	}
}

func checkDependentExprs(exprs []ast.Expr[ast.Minimal], rcon *Context) error {
	extension := irrelevantEntries(len(exprs))
	for i, e := range exprs {
		extended := rcon.extend(extension[:i])
		if err := checkExpr(e, extended); err != nil {
			return err
		}
	}
	return nil
}

func checkIndependentExprs(exprs []ast.Expr[ast.Minimal], rcon *Context) error {
	for _, e := range exprs {
		if err := checkExpr(e, rcon); err != nil {
			return err
		}
	}
	return nil
}
