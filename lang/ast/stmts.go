package ast

import "github.com/emosaker/leaf/lang/token"

func (*DeclStmt) stmtNode()   {}
func (*AssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode() {}
func (*IncludeStmt) stmtNode() {}
func (*FuncDecl) stmtNode()   {}
func (*ClassDecl) stmtNode()  {}
func (*BlockStmt) stmtNode()  {}

// DeclKind distinguishes var/const/ref declarations.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclConst
	DeclRef
)

// DeclStmt declares a local binding: `var x = e`, `const x: int = e`,
// `ref x = y`.
type DeclStmt struct {
	KwPos    token.Position
	Kind     DeclKind
	Name     string
	TypeName string // empty if unannotated
	Value    Expr   // nil for `ref` targets that only alias
}

func (s *DeclStmt) Pos() token.Position { return s.KwPos }

// AssignStmt assigns to an existing lvalue: identifier, index, or selector.
type AssignStmt struct {
	EqPos token.Position
	Lhs   Expr
	Rhs   Expr
}

func (s *AssignStmt) Pos() token.Position { return s.Lhs.Pos() }

// ExprStmt is an expression evaluated for its side effects (typically a
// call).
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }

// BlockStmt is a brace-delimited sequence of statements.
type BlockStmt struct {
	LBracePos token.Position
	Stmts     []Stmt
}

func (s *BlockStmt) Pos() token.Position { return s.LBracePos }

// IfStmt is `if cond { ... } else { ... }`; Else is nil when absent and may
// be a *BlockStmt or a nested *IfStmt (else if chaining).
type IfStmt struct {
	IfPos token.Position
	Cond  Expr
	Body  *BlockStmt
	Else  Stmt
}

func (s *IfStmt) Pos() token.Position { return s.IfPos }

// WhileStmt is `while cond { ... }`.
type WhileStmt struct {
	WhilePos token.Position
	Cond     Expr
	Body     *BlockStmt
}

func (s *WhileStmt) Pos() token.Position { return s.WhilePos }

// ReturnStmt is `return` or `return e`.
type ReturnStmt struct {
	RetPos token.Position
	Value  Expr // nil if bare return
}

func (s *ReturnStmt) Pos() token.Position { return s.RetPos }

// IncludeStmt is `include "path"`.
type IncludeStmt struct {
	IncPos token.Position
	Path   string
}

func (s *IncludeStmt) Pos() token.Position { return s.IncPos }

// FuncDecl is a named function declaration: `fn name(params) { ... }`.
type FuncDecl struct {
	FnPos  token.Position
	Name   string
	Params []*Param
	Body   []Stmt
}

func (s *FuncDecl) Pos() token.Position { return s.FnPos }

// ClassDecl is `class Name { field1, field2, ... }`, compiling to a
// constructor function that builds a flat array of its members' name and
// initial-value pairs.
type ClassDecl struct {
	ClassPos token.Position
	Name     string
	Fields   []*ClassField
}

func (s *ClassDecl) Pos() token.Position { return s.ClassPos }

// ClassField is a single member of a class body, with an optional default
// initializer.
type ClassField struct {
	Name    string
	NamePos token.Position
	Default Expr // nil if unset (defaults to null)
}
