package cmd

import (
	"bytes"
	"os"
	"testing"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// what was written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestRunEvalUniverseLiteral(t *testing.T) {
	evalExpr = "Set0"
	defer func() { evalExpr = "" }()

	out := captureStdout(t, func() {
		if err := runEval(evalCmd, nil); err != nil {
			t.Fatalf("runEval failed: %v", err)
		}
	})

	if !bytes.Contains([]byte(out), []byte("Set1")) {
		t.Errorf("expected Set0's type Set1 in output, got: %s", out)
	}
	if !bytes.Contains([]byte(out), []byte("Set0")) {
		t.Errorf("expected Set0's value in output, got: %s", out)
	}
}

func TestRunEvalRejectsIllTypedTerm(t *testing.T) {
	// A bare de Bruijn index with nothing bound is ill-typed (invalid Deb).
	evalExpr = "0"
	defer func() { evalExpr = "" }()

	err := runEval(evalCmd, nil)
	if err == nil {
		t.Fatal("expected an error for an unbound de Bruijn index")
	}
}

func TestRunTypecheckAcceptsNatInd(t *testing.T) {
	typecheckExpr = `(ind Set0 "Nat" () ((()()) ((0)())))`
	defer func() { typecheckExpr = "" }()

	out := captureStdout(t, func() {
		if err := runTypecheck(typecheckCmd, nil); err != nil {
			t.Fatalf("runTypecheck failed: %v", err)
		}
	})

	if !bytes.Contains([]byte(out), []byte("ok")) {
		t.Errorf("expected ok in output, got: %s", out)
	}
}
