package recursion

import "zokernel/internal/ast"

// getLowestSuperstructParam reports, if expr is a (possibly strict)
// substructure of some parameter tracked in rcon, the de Bruijn index of
// the lowest such parameter in the substructure tree and whether descent
// to it was strict. If expr is not recognizably a substructure of
// anything, it returns found=false.
func getLowestSuperstructParam(expr ast.Expr[ast.Minimal], rcon *Context) (uint64, Strict, bool, error) {
	switch expr.Tag() {
	case ast.TagInd, ast.TagVcon, ast.TagFun, ast.TagApp, ast.TagFor, ast.TagUniverse:
		return 0, false, false, nil
	case ast.TagMatch:
		return getLowestSuperstructParamOfMatch(expr.AsMatch(), rcon)
	case ast.TagDeb:
		return getLowestSuperstructParamOfDeb(expr.AsDeb(), rcon)
	default:
		panic("recursion: Expr with no populated variant")
	}
}

func getLowestSuperstructParamOfMatch(m *ast.Match[ast.Minimal], rcon *Context) (uint64, Strict, bool, error) {
	if len(m.Cases) == 0 {
		// A zero-case match is vacuously a strict substructure of every
		// parameter, but this package (like its grounding source) does
		// not attempt that: see ErrSuperstructOfMatchCaseUnimplemented's
		// doc comment for the broader gap this sits inside.
		return 0, false, false, nil
	}

	matcheeDeb, matcheeStrict, matcheeFound, err := getLowestSuperstructParam(m.Matchee, rcon)
	if err != nil {
		return 0, false, false, err
	}

	lowestDeb, lowestStrict, ok, err := getLowestSuperstructParamOfMatchCase(m.Cases[0], matcheeDeb, matcheeStrict, matcheeFound, rcon)
	if err != nil {
		return 0, false, false, err
	}
	if !ok {
		return 0, false, false, nil
	}

	for _, cs := range m.Cases[1:] {
		caseDeb, caseStrict, ok, err := getLowestSuperstructParamOfMatchCase(cs, matcheeDeb, matcheeStrict, matcheeFound, rcon)
		if err != nil {
			return 0, false, false, err
		}
		if !ok {
			return 0, false, false, nil
		}
		lowestDeb, lowestStrict, ok = getLowestCommonAncestorParam(lowestDeb, lowestStrict, caseDeb, caseStrict, rcon)
		if !ok {
			return 0, false, false, nil
		}
	}

	return lowestDeb, lowestStrict, true, nil
}

// getLowestSuperstructParamOfMatchCase is unimplemented in the source
// this package ports (a literal todo!() in
// check_fun_recursion.rs::get_lowest_superstruct_param_of_match_case).
// See ErrSuperstructOfMatchCaseUnimplemented.
func getLowestSuperstructParamOfMatchCase(_ ast.MatchCase[ast.Minimal], _ uint64, _ Strict, _ bool, _ *Context) (uint64, Strict, bool, error) {
	return 0, false, false, ErrSuperstructOfMatchCaseUnimplemented
}

func getLowestSuperstructParamOfDeb(d *ast.Deb[ast.Minimal], rcon *Context) (uint64, Strict, bool, error) {
	e, ok := rcon.get(d.Index)
	if !ok {
		return 0, false, false, nil
	}
	switch e.kind {
	case entryDecreasingParamStrictSubstruct:
		return e.parentParam, Strict(true), true, nil
	case entryDecreasingParam:
		return d.Index, Strict(false), true, nil
	default:
		return 0, false, false, nil
	}
}

func getLowestCommonAncestorParam(aDeb uint64, aStrict Strict, bDeb uint64, bStrict Strict, rcon *Context) (uint64, Strict, bool) {
	if aStrictB, ok := rcon.isDescendant(aDeb, bDeb); ok {
		return bDeb, bStrict.and(aStrict.or(aStrictB)), true
	}
	if bStrictA, ok := rcon.isDescendant(bDeb, aDeb); ok {
		return aDeb, aStrict.and(bStrict.or(bStrictA)), true
	}
	return 0, false, false
}

// isStrictSubstruct reports whether expr is a strict substructure of the
// parameter at possibleSuperstruct.
func isStrictSubstruct(expr ast.Expr[ast.Minimal], possibleSuperstruct uint64, rcon *Context) (bool, error) {
	lowestDeb, lowestStrict, ok, err := getLowestSuperstructParam(expr, rcon)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if lowestDeb == possibleSuperstruct {
		return bool(lowestStrict), nil
	}

	if descendantStrict, found := rcon.isDescendant(lowestDeb, possibleSuperstruct); found {
		return bool(lowestStrict) || bool(descendantStrict), nil
	}

	return false, nil
}
