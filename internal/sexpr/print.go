package sexpr

import (
	"strconv"
	"strings"

	"zokernel/internal/ast"
)

// Print renders expr back into the list-form surface syntax this package
// reads — the inverse of Parse, used by the CLI and REPL to echo evaluated
// and type-checked results.
func Print(expr ast.Expr[ast.Minimal]) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

func writeExpr(b *strings.Builder, expr ast.Expr[ast.Minimal]) {
	switch expr.Tag() {
	case ast.TagDeb:
		b.WriteString(strconv.FormatUint(expr.AsDeb().Index, 10))
	case ast.TagUniverse:
		b.WriteString(expr.AsUniverse().Universe.String())
	case ast.TagInd:
		writeInd(b, expr.AsInd())
	case ast.TagVcon:
		writeVcon(b, expr.AsVcon())
	case ast.TagMatch:
		writeMatch(b, expr.AsMatch())
	case ast.TagFun:
		writeFun(b, expr.AsFun())
	case ast.TagApp:
		writeApp(b, expr.AsApp())
	case ast.TagFor:
		writeFor(b, expr.AsFor())
	}
}

func writeExprSeq(b *strings.Builder, exprs []ast.Expr[ast.Minimal]) {
	b.WriteByte('(')
	for i, e := range exprs {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeExpr(b, e)
	}
	b.WriteByte(')')
}

func writeInd(b *strings.Builder, ind *ast.Ind[ast.Minimal]) {
	b.WriteString("(ind ")
	b.WriteString(ind.Universe.String())
	b.WriteString(" \"")
	b.WriteString(escapeString(ind.Name))
	b.WriteString("\" ")
	writeExprSeq(b, ind.IndexTypes)
	b.WriteByte(' ')
	b.WriteByte('(')
	for i, def := range ind.VconDefs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('(')
		writeExprSeq(b, def.ParamTypes)
		b.WriteByte(' ')
		writeExprSeq(b, def.IndexArgs)
		b.WriteByte(')')
	}
	b.WriteString("))")
}

func writeVcon(b *strings.Builder, v *ast.Vcon[ast.Minimal]) {
	b.WriteString("(vcon ")
	writeExpr(b, v.Ind)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(v.VconIndex, 10))
	b.WriteByte(')')
}

func writeMatch(b *strings.Builder, m *ast.Match[ast.Minimal]) {
	b.WriteString("(match ")
	writeExpr(b, m.Matchee)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(m.ReturnTypeArity, 10))
	b.WriteByte(' ')
	writeExpr(b, m.ReturnType)
	b.WriteByte(' ')
	b.WriteByte('(')
	for i, c := range m.Cases {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('(')
		b.WriteString(strconv.FormatUint(c.Arity, 10))
		b.WriteByte(' ')
		writeExpr(b, c.ReturnVal)
		b.WriteByte(')')
	}
	b.WriteString("))")
}

func writeFun(b *strings.Builder, f *ast.Fun[ast.Minimal]) {
	b.WriteString("(fun ")
	if f.DecreasingIndex == nil {
		b.WriteString("nonrec")
	} else {
		b.WriteString(strconv.FormatUint(*f.DecreasingIndex, 10))
	}
	b.WriteByte(' ')
	writeExprSeq(b, f.ParamTypes)
	b.WriteByte(' ')
	writeExpr(b, f.ReturnType)
	b.WriteByte(' ')
	writeExpr(b, f.ReturnVal)
	b.WriteByte(')')
}

func writeApp(b *strings.Builder, a *ast.App[ast.Minimal]) {
	b.WriteByte('(')
	writeExpr(b, a.Callee)
	for _, arg := range a.Args {
		b.WriteByte(' ')
		writeExpr(b, arg)
	}
	b.WriteByte(')')
}

func writeFor(b *strings.Builder, f *ast.For[ast.Minimal]) {
	b.WriteString("(for ")
	writeExprSeq(b, f.ParamTypes)
	b.WriteByte(' ')
	writeExpr(b, f.ReturnType)
	b.WriteByte(')')
}

// escapeString re-encodes any byte outside the lexer's plain-string range
// as a {0xNN} escape, the inverse of readHexEscape.
func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"', '{', '}':
			b.WriteString("{0x")
			b.WriteString(strconv.FormatInt(int64(r), 16))
			b.WriteByte('}')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
