// Package parser implements a recursive-descent parser for leaf source,
// producing the lang/ast tree consumed by lang/compiler.
package parser

import (
	"fmt"

	"github.com/emosaker/leaf/lang/ast"
	"github.com/emosaker/leaf/lang/scanner"
	"github.com/emosaker/leaf/lang/token"
)

// Error is a single parse failure, reported with the position of the
// offending token.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// Parse tokenizes and parses a complete source file, stopping at the first
// error encountered (scan or syntax).
func Parse(filename string, src []byte) (*ast.File, error) {
	toks, err := scanner.ScanAll(filename, src)
	if err != nil {
		if el, ok := err.(scanner.ErrorList); ok && len(el) > 0 {
			return nil, &Error{Pos: el[0].Pos, Msg: el[0].Msg}
		}
		return nil, err
	}
	p := &parser{filename: filename, toks: toks}
	return p.parseFile()
}

type parser struct {
	filename string
	toks     []scanner.TokenAndValue
	i        int
}

func (p *parser) cur() scanner.TokenAndValue { return p.toks[p.i] }

func (p *parser) tok() token.Token { return p.toks[p.i].Tok }

func (p *parser) advance() scanner.TokenAndValue {
	tv := p.toks[p.i]
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return tv
}

func (p *parser) errorf(format string, args ...interface{}) *Error {
	return &Error{Pos: p.cur().Pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(tok token.Token) (scanner.TokenAndValue, error) {
	if p.tok() != tok {
		return scanner.TokenAndValue{}, p.errorf("expected %s, found %s", tok.GoString(), p.tok().GoString())
	}
	return p.advance(), nil
}

func (p *parser) parseFile() (*ast.File, error) {
	f := &ast.File{Name: p.filename}
	for p.tok() != token.EOF {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		f.Stmts = append(f.Stmts, s)
	}
	return f, nil
}

func (p *parser) skipSemis() {
	for p.tok() == token.SEMI {
		p.advance()
	}
}
