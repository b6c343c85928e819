package types_test

import (
	"strings"
	"testing"

	"zokernel/internal/ast"
	"zokernel/internal/eval"
	"zokernel/internal/kernelerrors"
	"zokernel/internal/sexpr"
	"zokernel/internal/types"
)

// defSeq expands a sequence of named definitions, each of which may
// reference any earlier name, then substitutes the fully-expanded names
// into final. Mirrors the compounding-substitution fixtures ported from
// original_source's should_succeed test suite, adapted to plain string
// substitution since this kernel's concrete syntax has no let-binding
// form of its own.
func defSeq(defs [][2]string, final string) string {
	expanded := make([]string, len(defs))
	for i, d := range defs {
		body := d[1]
		for j := 0; j < i; j++ {
			body = strings.ReplaceAll(body, defs[j][0], expanded[j])
		}
		expanded[i] = body
	}
	out := final
	for i, d := range defs {
		out = strings.ReplaceAll(out, d[0], expanded[i])
	}
	return out
}

func mustParse(t *testing.T, src string) ast.Expr[ast.Minimal] {
	t.Helper()
	expr, err := sexpr.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return expr
}

// getType parses src and types it under the empty context with a fresh
// evaluator and type checker.
func getType(t *testing.T, src string) (eval.NormalForm, error) {
	t.Helper()
	expr := mustParse(t, src)
	tc := types.New(eval.New())
	return tc.GetType(expr, nil, nil)
}

func requireCode(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a type error, got none")
	}
	rep, ok := kernelerrors.AsReport(err)
	if !ok {
		t.Fatalf("expected a *kernelerrors.Report, got %T: %v", err, err)
	}
	if rep.Code != want {
		t.Errorf("got code %s, want %s (message: %s)", rep.Code, want, rep.Message)
	}
}

const natDef = `(ind Set0 "Nat" () ((()()) ((0)())))`

// TestGetTypeErrors covers every TC0## error variant with a minimal
// ill-typed fixture, ported in spirit from original_source's
// typecheck/error.rs variants and match_.rs's arity assertions.
func TestGetTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{
			name: "unbound de Bruijn index",
			src:  "0",
			code: kernelerrors.TC001InvalidDeb,
		},
		{
			name: "vcon index has no matching constructor",
			src:  `(vcon ` + natDef + ` 5)`,
			code: kernelerrors.TC002InvalidVconIndex,
		},
		{
			name: "ind index type is a value, not a type",
			src:  `(ind Set1 "Bad" ((vcon ` + natDef + ` 0)) ())`,
			code: kernelerrors.TC003UnexpectedNonTypeExpression,
		},
		{
			name: "ind index type's universe exceeds the ind's own level",
			src:  `(ind Set0 "Bad" (Set0) ())`,
			code: kernelerrors.TC004UniverseInconsistencyInIndDef,
		},
		{
			name: "vcon def supplies the wrong number of index arguments",
			src:  `(ind Set1 "Bad" (Set0) ((() ())))`,
			code: kernelerrors.TC005WrongNumberOfIndexArguments,
		},
		{
			// Matching on a fun's own self-reference (de Bruijn index 0 in
			// its body) is always ill-typed this way: a fun's type is a
			// For, never an inductive type.
			name: "match on a non-inductive matchee type",
			src:  `(fun nonrec (Set0) Set0 (match 0 1 Set0 ()))`,
			code: kernelerrors.TC006NonInductiveMatcheeType,
		},
		{
			name: "match supplies the wrong number of cases",
			src:  `(fun nonrec (` + natDef + `) ` + natDef + ` (match 1 1 ` + natDef + ` ((0 0))))`,
			code: kernelerrors.TC007WrongNumberOfMatchCases,
		},
		{
			name: "fun's declared return type doesn't match its body's actual type",
			src:  `(fun nonrec (Set0) Set0 Set0)`,
			code: kernelerrors.TC008TypeMismatch,
		},
		{
			name: "application's callee is not a for-type",
			src:  `((vcon ` + natDef + ` 0) (vcon ` + natDef + ` 0))`,
			code: kernelerrors.TC009CalleeTypeIsNotAForExpression,
		},
		{
			name: "application supplies the wrong number of arguments",
			src:  `((fun nonrec (Set0) Set0 1) Set0 Set0)`,
			code: kernelerrors.TC010WrongNumberOfAppArguments,
		},
		{
			name: "match declares the wrong return-type arity",
			src:  `(fun nonrec (` + natDef + `) ` + natDef + ` (match 1 2 ` + natDef + ` ((0 0) (1 0))))`,
			code: kernelerrors.TC011WrongMatchReturnTypeArity,
		},
		{
			name: "match case declares the wrong arity for its constructor",
			src:  `(fun nonrec (` + natDef + `) ` + natDef + ` (match 1 1 ` + natDef + ` ((1 0) (1 0))))`,
			code: kernelerrors.TC012WrongMatchCaseArity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := getType(t, tt.src)
			requireCode(t, err, tt.code)
		})
	}
}

// TestGetTypePeanoAdditionTypechecks ports should_succeed.rs's add_2_3:
// adding two Peano naturals by structural recursion typechecks to Nat
// itself.
func TestGetTypePeanoAdditionTypechecks(t *testing.T) {
	defs := [][2]string{
		{"<NAT>", natDef},
		{"<0>", `(vcon <NAT> 0)`},
		{"<SUCC>", `(vcon <NAT> 1)`},
		{"<2>", `(<SUCC> (<SUCC> <0>))`},
		{"<3>", `(<SUCC> <2>)`},
		{"<ADD>", `
(fun 0 (<NAT> <NAT>) <NAT>
    (match 2 1 <NAT> (
        (0 1)
        (1 (1 0 (<SUCC> 2)))
    ))
)`},
	}
	src := defSeq(defs, `(<ADD> <2> <3>)`)

	ty, err := getType(t, src)
	if err != nil {
		t.Fatalf("GetType failed: %v", err)
	}

	natType, natErr := getType(t, natDef)
	if natErr != nil {
		t.Fatalf("GetType(Nat) failed: %v", natErr)
	}
	if ty.Expr().Digest() != natType.Expr().Digest() {
		t.Errorf("add's result type digest %v, want Nat's own digest %v", ty.Expr().Digest(), natType.Expr().Digest())
	}
}

// TestGetTypeExFalsoQuodlibetTypechecks ports should_succeed.rs's
// ex_falso: from an uninhabited Prop, any type is derivable by matching
// on zero cases.
func TestGetTypeExFalsoQuodlibetTypechecks(t *testing.T) {
	defs := [][2]string{
		{"<NAT>", natDef},
		{"<FALSE>", `(ind Prop0 "False" () ())`},
	}
	src := defSeq(defs, `(fun nonrec (<FALSE>) <NAT> (match 1 1 <NAT> ()))`)

	if _, err := getType(t, src); err != nil {
		t.Fatalf("GetType failed: %v", err)
	}
}

// TestGetTypeMatchThreadsVconArguments checks that matching a
// fully-applied, multi-parameter value constructor typechecks, and that
// evaluating the match performs iota reduction with the constructor's
// own arguments substituted into the matching case's pattern binders
// rather than just its index/matchee binders.
func TestGetTypeMatchThreadsVconArguments(t *testing.T) {
	defs := [][2]string{
		{"<NAT>", natDef},
		{"<0>", `(vcon <NAT> 0)`},
		{"<DUMMY>", `(ind Set1 "Dummy" () ((()()) (()()) ((<NAT> <NAT>)())))`},
		{"<MATCHEE>", `((vcon <DUMMY> 2) <0> <0>)`},
	}
	src := defSeq(defs, `(match <MATCHEE> 1 <NAT> ((0 <0>) (0 <0>) (2 1)))`)

	expr := mustParse(t, src)
	tc := types.New(eval.New())
	ty, err := tc.GetType(expr, nil, nil)
	if err != nil {
		t.Fatalf("GetType failed: %v", err)
	}
	natType, natErr := getType(t, natDef)
	if natErr != nil {
		t.Fatalf("GetType(Nat) failed: %v", natErr)
	}
	if ty.Expr().Digest() != natType.Expr().Digest() {
		t.Errorf("match's result type digest %v, want Nat's own digest %v", ty.Expr().Digest(), natType.Expr().Digest())
	}

	zero := mustParse(t, defSeq(defs[:2], "<0>"))
	ev := eval.New()
	normalized := ev.Eval(expr)
	if normalized.Expr().Digest() != zero.Digest() {
		t.Errorf("evaluating the match gave digest %v, want the substituted vcon argument's digest %v",
			normalized.Expr().Digest(), zero.Digest())
	}
}
