// Package eval implements weak-head-plus-congruence evaluation to normal
// form over the Minimal aux-data family, with per-category memoization
// caches and self-loop cache seeding so that re-evaluating an
// already-normal term is O(1).
package eval

import "zokernel/internal/ast"

// NormalForm wraps an expression that is guaranteed to be the result of a
// completed call to Eval, so that a caller cannot accidentally treat an
// un-evaluated expression as normalized. There is no public constructor:
// the only way to get a NormalForm is to call Eval (EvalExprs returns the
// slice counterpart, NormalExprs).
type NormalForm struct {
	expr ast.Expr[ast.Minimal]
}

// Expr returns the wrapped normal-form expression.
func (n NormalForm) Expr() ast.Expr[ast.Minimal] { return n.expr }

func wrap(e ast.Expr[ast.Minimal]) NormalForm { return NormalForm{expr: e} }

// NormalExprs wraps a slice of normal-form expressions, mirroring
// NormalForm for the evaluator's per-slice cache.
type NormalExprs struct {
	exprs []ast.Expr[ast.Minimal]
}

// Exprs returns the wrapped slice.
func (n NormalExprs) Exprs() []ast.Expr[ast.Minimal] { return n.exprs }

func wrapExprs(es []ast.Expr[ast.Minimal]) NormalExprs { return NormalExprs{exprs: es} }
