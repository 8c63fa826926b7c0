package parser

import (
	"github.com/emosaker/leaf/lang/ast"
	"github.com/emosaker/leaf/lang/token"
)

func (p *parser) parseStmt() (ast.Stmt, error) {
	p.skipSemis()
	switch p.tok() {
	case token.VAR, token.CONST, token.REF:
		s, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		p.skipSemis()
		return s, nil
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.RETURN:
		s, err := p.parseReturn()
		if err != nil {
			return nil, err
		}
		p.skipSemis()
		return s, nil
	case token.INCLUDE:
		s, err := p.parseInclude()
		if err != nil {
			return nil, err
		}
		p.skipSemis()
		return s, nil
	case token.FN:
		return p.parseFuncDecl()
	case token.CLASS:
		return p.parseClassDecl()
	case token.LBRACE:
		return p.parseBlock()
	default:
		s, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}
		p.skipSemis()
		return s, nil
	}
}

func (p *parser) parseBlock() (*ast.BlockStmt, error) {
	lb, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	b := &ast.BlockStmt{LBracePos: lb.Pos}
	p.skipSemis()
	for p.tok() != token.RBRACE {
		if p.tok() == token.EOF {
			return nil, p.errorf("unterminated block, expected '}'")
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
		p.skipSemis()
	}
	p.advance() // '}'
	return b, nil
}

func (p *parser) parseTypeAnnotation() (string, error) {
	if p.tok() != token.COLON {
		return "", nil
	}
	p.advance()
	id, err := p.expect(token.IDENT)
	if err != nil {
		return "", err
	}
	return id.Val.Raw, nil
}

func (p *parser) parseDecl() (*ast.DeclStmt, error) {
	kwTok := p.advance()
	var kind ast.DeclKind
	switch kwTok.Tok {
	case token.VAR:
		kind = ast.DeclVar
	case token.CONST:
		kind = ast.DeclConst
	case token.REF:
		kind = ast.DeclRef
	}
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	typeName, err := p.parseTypeAnnotation()
	if err != nil {
		return nil, err
	}
	decl := &ast.DeclStmt{KwPos: kwTok.Pos, Kind: kind, Name: name.Val.Raw, TypeName: typeName}
	if p.tok() == token.EQ {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decl.Value = val
	} else if kind != ast.DeclRef {
		return nil, p.errorf("%s declaration requires an initializer", kwTok.Tok.GoString())
	}
	return decl, nil
}

func (p *parser) parseIf() (*ast.IfStmt, error) {
	ifTok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{IfPos: ifTok.Pos, Cond: cond, Body: body}
	if p.tok() == token.ELSE {
		p.advance()
		if p.tok() == token.IF {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseIf
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlock
		}
	}
	return stmt, nil
}

func (p *parser) parseWhile() (*ast.WhileStmt, error) {
	whileTok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{WhilePos: whileTok.Pos, Cond: cond, Body: body}, nil
}

func (p *parser) parseReturn() (*ast.ReturnStmt, error) {
	retTok := p.advance()
	stmt := &ast.ReturnStmt{RetPos: retTok.Pos}
	if p.tok() != token.SEMI && p.tok() != token.RBRACE && p.tok() != token.EOF {
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Value = val
	}
	return stmt, nil
}

func (p *parser) parseInclude() (*ast.IncludeStmt, error) {
	incTok := p.advance()
	path, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	return &ast.IncludeStmt{IncPos: incTok.Pos, Path: path.Val.String}, nil
}

func (p *parser) parseParams() ([]*ast.Param, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for p.tok() != token.RPAREN {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		typeName, err := p.parseTypeAnnotation()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{Name: name.Val.Raw, NamePos: name.Pos, TypeName: typeName})
		if p.tok() == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) parseFuncBody() ([]ast.Stmt, error) {
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return block.Stmts, nil
}

func (p *parser) parseFuncDecl() (ast.Stmt, error) {
	fnTok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseFuncBody()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{FnPos: fnTok.Pos, Name: name.Val.Raw, Params: params, Body: body}, nil
}

func (p *parser) parseClassDecl() (ast.Stmt, error) {
	classTok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	decl := &ast.ClassDecl{ClassPos: classTok.Pos, Name: name.Val.Raw}
	p.skipSemis()
	for p.tok() != token.RBRACE {
		fname, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		field := &ast.ClassField{Name: fname.Val.Raw, NamePos: fname.Pos}
		if p.tok() == token.EQ {
			p.advance()
			val, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			field.Default = val
		}
		decl.Fields = append(decl.Fields, field)
		if p.tok() == token.COMMA {
			p.advance()
		}
		p.skipSemis()
	}
	p.advance() // '}'
	return decl, nil
}

func (p *parser) parseSimpleStmt() (ast.Stmt, error) {
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok() == token.EQ {
		switch x.(type) {
		case *ast.Ident, *ast.IndexExpr, *ast.SelectorExpr:
		default:
			return nil, p.errorf("invalid assignment target")
		}
		eqPos := p.advance().Pos
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{EqPos: eqPos, Lhs: x, Rhs: rhs}, nil
	}
	return &ast.ExprStmt{X: x}, nil
}
