package sexpr

import (
	"testing"

	"zokernel/internal/ast"
)

func mustParse(t *testing.T, src string) ast.Expr[ast.Minimal] {
	t.Helper()
	expr, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return expr
}

func TestParseUniverseLiteral(t *testing.T) {
	expr := mustParse(t, "Set0")
	u := expr.AsUniverse()
	if u == nil {
		t.Fatalf("expected a UniverseNode, got tag %v", expr.Tag())
	}
	if u.Universe.Level != 0 || u.Universe.Erasable {
		t.Errorf("got %v, want Set0", u.Universe)
	}

	expr = mustParse(t, "Prop3")
	u = expr.AsUniverse()
	if u == nil || u.Universe.Level != 3 || !u.Universe.Erasable {
		t.Errorf("Prop3: got %v", expr)
	}
}

func TestParseDeb(t *testing.T) {
	expr := mustParse(t, "7")
	d := expr.AsDeb()
	if d == nil || d.Index != 7 {
		t.Fatalf("got %v, want Deb(7)", expr)
	}
}

func TestParseUniverseLeadingZeroRejected(t *testing.T) {
	_, err := Parse([]byte("Set01"))
	if err == nil {
		t.Fatal("expected a parse error for Set01")
	}
}

// TestParseNatInd parses S1's `Nat = ind Set0 "Nat" () ((()()) ((0)()))`
// and checks its shape: zero indices, two nullary-vcon-arity-varying defs
// — the zero constructor (no params, no index args) and the successor
// constructor (one param, no index args).
func TestParseNatInd(t *testing.T) {
	expr := mustParse(t, `(ind Set0 "Nat" () ((()()) ((0)())))`)
	ind := expr.AsInd()
	if ind == nil {
		t.Fatalf("expected an Ind, got tag %v", expr.Tag())
	}
	if ind.Universe.Level != 0 || ind.Universe.Erasable {
		t.Errorf("got universe %v, want Set0", ind.Universe)
	}
	if ind.Name != "Nat" {
		t.Errorf("got name %q, want Nat", ind.Name)
	}
	if len(ind.IndexTypes) != 0 {
		t.Errorf("got %d index types, want 0", len(ind.IndexTypes))
	}
	if len(ind.VconDefs) != 2 {
		t.Fatalf("got %d vcon defs, want 2", len(ind.VconDefs))
	}
	if len(ind.VconDefs[0].ParamTypes) != 0 || len(ind.VconDefs[0].IndexArgs) != 0 {
		t.Errorf("zero constructor: got %+v", ind.VconDefs[0])
	}
	if len(ind.VconDefs[1].ParamTypes) != 1 || len(ind.VconDefs[1].IndexArgs) != 0 {
		t.Errorf("succ constructor: got %+v", ind.VconDefs[1])
	}
	// succ's sole param type is the bare Deb(0) reference to Nat itself.
	paramDeb := ind.VconDefs[1].ParamTypes[0].AsDeb()
	if paramDeb == nil || paramDeb.Index != 0 {
		t.Errorf("succ's param type: got %+v, want Deb(0)", ind.VconDefs[1].ParamTypes[0])
	}
}

func TestParseVcon(t *testing.T) {
	nat := `(ind Set0 "Nat" () ((()()) ((0)())))`
	expr := mustParse(t, "(vcon "+nat+" 1)")
	vcon := expr.AsVcon()
	if vcon == nil {
		t.Fatalf("expected a Vcon, got tag %v", expr.Tag())
	}
	if vcon.VconIndex != 1 {
		t.Errorf("got vcon index %d, want 1", vcon.VconIndex)
	}
	if vcon.Ind.AsInd() == nil {
		t.Errorf("vcon.Ind did not parse as an Ind")
	}
}

// TestParseAddFun parses S1's recursive addition function:
// `fun 0 (Nat Nat) Nat (match 2 1 Nat ((0 1) (1 (1 0 (succ 2)))))`.
func TestParseAddFun(t *testing.T) {
	nat := `(ind Set0 "Nat" () ((()()) ((0)())))`
	src := `(fun 0 (` + nat + ` ` + nat + `) ` + nat + ` (match 2 1 ` + nat + ` ((0 1) (1 (1 0 ((vcon ` + nat + ` 1) 2))))))`

	expr := mustParse(t, src)
	fun := expr.AsFun()
	if fun == nil {
		t.Fatalf("expected a Fun, got tag %v", expr.Tag())
	}
	if fun.DecreasingIndex == nil || *fun.DecreasingIndex != 0 {
		t.Fatalf("got decreasing index %v, want 0", fun.DecreasingIndex)
	}
	if len(fun.ParamTypes) != 2 {
		t.Fatalf("got %d param types, want 2", len(fun.ParamTypes))
	}

	mtch := fun.ReturnVal.AsMatch()
	if mtch == nil {
		t.Fatalf("expected the body to be a Match, got tag %v", fun.ReturnVal.Tag())
	}
	if mtch.ReturnTypeArity != 1 {
		t.Errorf("got return type arity %d, want 1", mtch.ReturnTypeArity)
	}
	if len(mtch.Cases) != 2 {
		t.Fatalf("got %d match cases, want 2", len(mtch.Cases))
	}
	if mtch.Cases[0].Arity != 0 {
		t.Errorf("zero case: got arity %d, want 0", mtch.Cases[0].Arity)
	}
	if mtch.Cases[1].Arity != 1 {
		t.Errorf("succ case: got arity %d, want 1", mtch.Cases[1].Arity)
	}
}

func TestParseNonrecFun(t *testing.T) {
	src := `(fun nonrec (Set0) Set0 0)`
	expr := mustParse(t, src)
	fun := expr.AsFun()
	if fun == nil {
		t.Fatalf("expected a Fun, got tag %v", expr.Tag())
	}
	if fun.DecreasingIndex != nil {
		t.Errorf("got decreasing index %v, want nil (nonrec)", *fun.DecreasingIndex)
	}
}

func TestParseFunZeroParamsRejected(t *testing.T) {
	_, err := Parse([]byte(`(fun nonrec () Set0 0)`))
	if err == nil {
		t.Fatal("expected an error for a zero-parameter fun, got none")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("expected a *ParseError, got %T: %v", err, err)
	}
}

func TestParseFor(t *testing.T) {
	expr := mustParse(t, "(for (Set0 Set0) Set0)")
	f := expr.AsFor()
	if f == nil {
		t.Fatalf("expected a For, got tag %v", expr.Tag())
	}
	if len(f.ParamTypes) != 2 {
		t.Errorf("got %d param types, want 2", len(f.ParamTypes))
	}
}

func TestParseForNullaryCollapses(t *testing.T) {
	expr := mustParse(t, "(for () Set0)")
	if expr.AsFor() != nil {
		t.Error("a nullary `for` should collapse to its return type, not stay a For node")
	}
	if expr.AsUniverse() == nil {
		t.Errorf("expected the collapsed expression to be the bare return type, got tag %v", expr.Tag())
	}
}

func TestParseAppNullaryCollapses(t *testing.T) {
	// A single-element list parses as an application of zero arguments,
	// which smart-constructs down to the bare callee.
	expr := mustParse(t, "(0)")
	if expr.AsApp() != nil {
		t.Error("a nullary application should collapse to its callee, not stay an App node")
	}
	if expr.AsDeb() == nil {
		t.Errorf("expected the collapsed expression to be Deb(0), got tag %v", expr.Tag())
	}
}

// TestParseApp exercises the generic application fallback form on the
// nested de Bruijn application from S6: `((16 1 0))`-style nesting.
func TestParseApp(t *testing.T) {
	expr := mustParse(t, "(16 1 0)")
	app := expr.AsApp()
	if app == nil {
		t.Fatalf("expected an App, got tag %v", expr.Tag())
	}
	if app.Callee.AsDeb() == nil || app.Callee.AsDeb().Index != 16 {
		t.Errorf("got callee %+v, want Deb(16)", app.Callee)
	}
	if len(app.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(app.Args))
	}
}

func TestParseTrailingInputRejected(t *testing.T) {
	_, err := Parse([]byte("0 0"))
	if err == nil {
		t.Fatal("expected an error for trailing input after a complete expression")
	}
}

func TestParseUnterminatedListRejected(t *testing.T) {
	_, err := Parse([]byte("(vcon 0 1"))
	if err == nil {
		t.Fatal("expected an error for an unterminated list")
	}
}
