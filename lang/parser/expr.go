package parser

import (
	"github.com/emosaker/leaf/lang/ast"
	"github.com/emosaker/leaf/lang/token"
)

// precedence returns the binding power of a binary operator token, or 0 if
// tok is not a binary operator.
func precedence(tok token.Token) int {
	switch tok {
	case token.OROR:
		return 1
	case token.ANDAND:
		return 2
	case token.EQEQ, token.NEQ:
		return 3
	case token.LT, token.GT, token.LE, token.GE:
		return 4
	case token.PIPE:
		return 5
	case token.CIRCUMFLEX:
		return 6
	case token.AMPERSAND:
		return 7
	case token.LTLT, token.GTGT:
		return 8
	case token.PLUS, token.MINUS:
		return 9
	case token.STAR, token.SLASH, token.PERCENT:
		return 10
	case token.STARSTAR:
		return 11
	}
	return 0
}

const rightAssocPow = 11 // ** binds right-to-left

func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseBinary(1)
}

func (p *parser) parseBinary(minPrec int) (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec := precedence(p.tok())
		if prec == 0 || prec < minPrec {
			return lhs, nil
		}
		opTok := p.advance()
		nextMin := prec + 1
		if prec == rightAssocPow {
			nextMin = prec
		}
		rhs, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryExpr{OpPos: opTok.Pos, Op: opTok.Tok, X: lhs, Y: rhs}
	}
}

func (p *parser) parseUnary() (ast.Expr, error) {
	switch p.tok() {
	case token.MINUS, token.BANG:
		opTok := p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{OpPos: opTok.Pos, Op: opTok.Tok, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok() {
		case token.LPAREN:
			lp := p.advance()
			var args []ast.Expr
			for p.tok() != token.RPAREN {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.tok() == token.COMMA {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			x = &ast.CallExpr{LParenPos: lp.Pos, Fun: x, Args: args}
		case token.LBRACK:
			lb := p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			x = &ast.IndexExpr{LBrackPos: lb.Pos, X: x, Index: idx}
		case token.DOT:
			dot := p.advance()
			sel, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			x = &ast.SelectorExpr{DotPos: dot.Pos, X: x, Sel: sel.Val.Raw}
		default:
			return x, nil
		}
	}
}

func (p *parser) parseAtom() (ast.Expr, error) {
	tv := p.cur()
	switch tv.Tok {
	case token.IDENT:
		p.advance()
		return &ast.Ident{NamePos: tv.Pos, Name: tv.Val.Raw}, nil
	case token.INT:
		p.advance()
		return &ast.IntLit{ValPos: tv.Pos, Value: tv.Val.Int}, nil
	case token.FLOAT:
		p.advance()
		return &ast.FloatLit{ValPos: tv.Pos, Value: tv.Val.Float}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLit{ValPos: tv.Pos, Value: tv.Val.String}, nil
	case token.TRUE:
		p.advance()
		return &ast.BoolLit{ValPos: tv.Pos, Value: true}, nil
	case token.FALSE:
		p.advance()
		return &ast.BoolLit{ValPos: tv.Pos, Value: false}, nil
	case token.NULL:
		p.advance()
		return &ast.NullLit{ValPos: tv.Pos}, nil
	case token.LPAREN:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return x, nil
	case token.LBRACE:
		return p.parseBraceLit()
	case token.FN:
		return p.parseFuncLit()
	}
	return nil, p.errorf("unexpected %s in expression", tv.Tok.GoString())
}

func (p *parser) parseBraceLit() (ast.Expr, error) {
	lb := p.advance()
	if p.tok() == token.RBRACE {
		p.advance()
		return &ast.ArrayLit{LBracePos: lb.Pos}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok() == token.COLON {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit := &ast.MapLit{LBracePos: lb.Pos, Keys: []ast.Expr{first}, Vals: []ast.Expr{val}}
		for p.tok() == token.COMMA {
			p.advance()
			if p.tok() == token.RBRACE {
				break
			}
			k, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lit.Keys = append(lit.Keys, k)
			lit.Vals = append(lit.Vals, v)
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return lit, nil
	}
	lit := &ast.ArrayLit{LBracePos: lb.Pos, Elems: []ast.Expr{first}}
	for p.tok() == token.COMMA {
		p.advance()
		if p.tok() == token.RBRACE {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Elems = append(lit.Elems, e)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *parser) parseFuncLit() (ast.Expr, error) {
	fnTok := p.advance()
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseFuncBody()
	if err != nil {
		return nil, err
	}
	return &ast.FuncLit{FnPos: fnTok.Pos, Params: params, Body: body}, nil
}
