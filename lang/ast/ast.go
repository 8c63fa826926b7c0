// Package ast defines the abstract syntax tree produced by lang/parser and
// consumed by lang/compiler.
package ast

import "github.com/emosaker/leaf/lang/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// File is the root node of a parsed source file.
type File struct {
	Name  string
	Stmts []Stmt
}

func (f *File) Pos() token.Position {
	if len(f.Stmts) == 0 {
		return token.Position{Filename: f.Name, Line: 1, Col: 1}
	}
	return f.Stmts[0].Pos()
}
