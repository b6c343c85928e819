package sexpr

import (
	"fmt"

	"zokernel/internal/ast"
)

// Parser turns a token stream into ast.Expr[ast.Minimal] values. It holds
// exactly one token of lookahead, which is all the list-form grammar
// needs: every production is distinguished by its first token.
type Parser struct {
	l         *Lexer
	curToken  Token
	peekToken Token
}

// NewParser creates a Parser over src, which is first passed through Normalize.
func NewParser(src []byte) (*Parser, error) {
	p := &Parser{l: New(string(Normalize(src)))}
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) next() error {
	p.curToken = p.peekToken
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	p.peekToken = tok
	return nil
}

// Parse reads exactly one expression from src and asserts nothing follows
// it but end of input.
func Parse(src []byte) (ast.Expr[ast.Minimal], error) {
	p, err := NewParser(src)
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	if p.curToken.Type != EOF {
		return ast.Expr[ast.Minimal]{}, p.errorf("unexpected trailing input after expression: %s", p.curToken)
	}
	return expr, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.curToken.Line, Column: p.curToken.Column, NearToken: p.curToken, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(t TokenType) error {
	if p.curToken.Type != t {
		return p.errorf("expected %s, got %s", t, p.curToken.Type)
	}
	return p.next()
}

// parseExpr dispatches on the current token: a NUMBER is a de Bruijn
// reference, a UNIVERSE is a universe-token expression, and an LPAREN
// opens one of the five keyword-headed forms or, failing that, a generic
// application.
func (p *Parser) parseExpr() (ast.Expr[ast.Minimal], error) {
	switch p.curToken.Type {
	case NUMBER:
		index := p.curToken.Number
		if err := p.next(); err != nil {
			return ast.Expr[ast.Minimal]{}, err
		}
		return ast.NewDeb[ast.Minimal](index, ast.Minimal{}), nil

	case UNIVERSE:
		u := ast.Universe{Level: p.curToken.Number, Erasable: p.curToken.Erasable}
		if err := p.next(); err != nil {
			return ast.Expr[ast.Minimal]{}, err
		}
		return ast.NewUniverse[ast.Minimal](u, ast.Minimal{}), nil

	case LPAREN:
		return p.parseList()

	default:
		return ast.Expr[ast.Minimal]{}, p.errorf("expected an expression, got %s", p.curToken.Type)
	}
}

func (p *Parser) parseList() (ast.Expr[ast.Minimal], error) {
	if err := p.expect(LPAREN); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}

	switch p.curToken.Type {
	case IND:
		return p.parseInd()
	case VCON:
		return p.parseVcon()
	case MATCH:
		return p.parseMatch()
	case FUN:
		return p.parseFun()
	case FOR:
		return p.parseFor()
	default:
		return p.parseApp()
	}
}

// parseExprSeq reads a parenthesized, possibly-empty sequence of
// expressions: `(e1 e2 ... en)`, consuming both its opening and its
// closing paren.
func (p *Parser) parseExprSeq() ([]ast.Expr[ast.Minimal], error) {
	if err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var out []ast.Expr[ast.Minimal]
	for p.curToken.Type != RPAREN {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	if err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Parser) parseNumber() (uint64, error) {
	if p.curToken.Type != NUMBER {
		return 0, p.errorf("expected a number, got %s", p.curToken.Type)
	}
	n := p.curToken.Number
	return n, p.next()
}

// parseInd parses `(ind <universe> <string> (<indexTypes>) (<vconDef>*))`.
func (p *Parser) parseInd() (ast.Expr[ast.Minimal], error) {
	if err := p.expect(IND); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	if p.curToken.Type != UNIVERSE {
		return ast.Expr[ast.Minimal]{}, p.errorf("expected a universe literal, got %s", p.curToken.Type)
	}
	universe := ast.Universe{Level: p.curToken.Number, Erasable: p.curToken.Erasable}
	if err := p.next(); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}

	if p.curToken.Type != STRING {
		return ast.Expr[ast.Minimal]{}, p.errorf("expected a name string, got %s", p.curToken.Type)
	}
	name := p.curToken.Literal
	if err := p.next(); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}

	indexTypes, err := p.parseExprSeq()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}

	vconDefs, err := p.parseVconDefs()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}

	if err := p.expect(RPAREN); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	return ast.NewInd[ast.Minimal](universe, name, indexTypes, vconDefs, ast.Minimal{}), nil
}

// parseVconDefs parses `(<vconDef>*)` where each vconDef is
// `((<paramTypes>) (<indexArgs>))`.
func (p *Parser) parseVconDefs() ([]ast.VconDef[ast.Minimal], error) {
	if err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var defs []ast.VconDef[ast.Minimal]
	for p.curToken.Type != RPAREN {
		def, err := p.parseVconDef()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, p.expect(RPAREN)
}

func (p *Parser) parseVconDef() (ast.VconDef[ast.Minimal], error) {
	if err := p.expect(LPAREN); err != nil {
		return ast.VconDef[ast.Minimal]{}, err
	}
	paramTypes, err := p.parseExprSeq()
	if err != nil {
		return ast.VconDef[ast.Minimal]{}, err
	}
	indexArgs, err := p.parseExprSeq()
	if err != nil {
		return ast.VconDef[ast.Minimal]{}, err
	}
	if err := p.expect(RPAREN); err != nil {
		return ast.VconDef[ast.Minimal]{}, err
	}
	return ast.VconDef[ast.Minimal]{ParamTypes: paramTypes, IndexArgs: indexArgs}, nil
}

// parseVcon parses `(vcon <ind-expr> <number>)`.
func (p *Parser) parseVcon() (ast.Expr[ast.Minimal], error) {
	if err := p.expect(VCON); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	ind, err := p.parseExpr()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	vconIndex, err := p.parseNumber()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	if err := p.expect(RPAREN); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	return ast.NewVcon(ind, vconIndex, ast.Minimal{}), nil
}

// parseMatch parses
// `(match <matchee-expr> <number> <return-type-expr> (<case>*))` where
// each case is `(<number> <return-val-expr>)`.
func (p *Parser) parseMatch() (ast.Expr[ast.Minimal], error) {
	if err := p.expect(MATCH); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	matchee, err := p.parseExpr()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	returnTypeArity, err := p.parseNumber()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	returnType, err := p.parseExpr()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}

	if err := p.expect(LPAREN); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	var cases []ast.MatchCase[ast.Minimal]
	for p.curToken.Type != RPAREN {
		c, err := p.parseMatchCase()
		if err != nil {
			return ast.Expr[ast.Minimal]{}, err
		}
		cases = append(cases, c)
	}
	if err := p.expect(RPAREN); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}

	if err := p.expect(RPAREN); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	return ast.NewMatch(matchee, returnTypeArity, returnType, cases, ast.Minimal{}), nil
}

func (p *Parser) parseMatchCase() (ast.MatchCase[ast.Minimal], error) {
	if err := p.expect(LPAREN); err != nil {
		return ast.MatchCase[ast.Minimal]{}, err
	}
	arity, err := p.parseNumber()
	if err != nil {
		return ast.MatchCase[ast.Minimal]{}, err
	}
	returnVal, err := p.parseExpr()
	if err != nil {
		return ast.MatchCase[ast.Minimal]{}, err
	}
	if err := p.expect(RPAREN); err != nil {
		return ast.MatchCase[ast.Minimal]{}, err
	}
	return ast.MatchCase[ast.Minimal]{Arity: arity, ReturnVal: returnVal}, nil
}

// parseFun parses
// `(fun <nonrec|number> (<paramTypes>) <return-type-expr> <return-val-expr>)`.
func (p *Parser) parseFun() (ast.Expr[ast.Minimal], error) {
	if err := p.expect(FUN); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}

	var decreasingIndex *uint64
	switch p.curToken.Type {
	case NONREC:
		if err := p.next(); err != nil {
			return ast.Expr[ast.Minimal]{}, err
		}
	case NUMBER:
		n, err := p.parseNumber()
		if err != nil {
			return ast.Expr[ast.Minimal]{}, err
		}
		decreasingIndex = &n
	default:
		return ast.Expr[ast.Minimal]{}, p.errorf("expected 'nonrec' or a decreasing-argument index, got %s", p.curToken.Type)
	}

	paramTypesTok := p.curToken
	paramTypes, err := p.parseExprSeq()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	returnType, err := p.parseExpr()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	returnVal, err := p.parseExpr()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	if err := p.expect(RPAREN); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}

	fun, err := ast.NewFun(decreasingIndex, paramTypes, returnType, returnVal, ast.Minimal{})
	if err != nil {
		return ast.Expr[ast.Minimal]{}, &ParseError{
			Line: paramTypesTok.Line, Column: paramTypesTok.Column,
			NearToken: paramTypesTok, Message: err.Error(),
		}
	}
	return fun, nil
}

// parseFor parses `(for (<paramTypes>) <return-type-expr>)`.
func (p *Parser) parseFor() (ast.Expr[ast.Minimal], error) {
	if err := p.expect(FOR); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	paramTypes, err := p.parseExprSeq()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	returnType, err := p.parseExpr()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	if err := p.expect(RPAREN); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	return ast.NewFor(paramTypes, returnType, ast.Minimal{}), nil
}

// parseApp parses the fallback form `(<callee-expr> <arg-expr>*)`: any
// parenthesized list whose head is not one of the five reserved keywords
// is a flat application, the callee followed by zero or more arguments.
func (p *Parser) parseApp() (ast.Expr[ast.Minimal], error) {
	callee, err := p.parseExpr()
	if err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	var args []ast.Expr[ast.Minimal]
	for p.curToken.Type != RPAREN {
		arg, err := p.parseExpr()
		if err != nil {
			return ast.Expr[ast.Minimal]{}, err
		}
		args = append(args, arg)
	}
	if err := p.expect(RPAREN); err != nil {
		return ast.Expr[ast.Minimal]{}, err
	}
	return ast.NewApp(callee, args, ast.Minimal{}), nil
}
