package ast

import "github.com/emosaker/leaf/lang/token"

func (*Ident) exprNode()        {}
func (*IntLit) exprNode()       {}
func (*FloatLit) exprNode()     {}
func (*StringLit) exprNode()    {}
func (*BoolLit) exprNode()      {}
func (*NullLit) exprNode()      {}
func (*ArrayLit) exprNode()     {}
func (*MapLit) exprNode()       {}
func (*FuncLit) exprNode()      {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}
func (*IndexExpr) exprNode()    {}
func (*SelectorExpr) exprNode() {}

// Ident is a bare identifier reference.
type Ident struct {
	NamePos token.Position
	Name    string
}

func (e *Ident) Pos() token.Position { return e.NamePos }

// IntLit is an integer literal.
type IntLit struct {
	ValPos token.Position
	Value  int64
}

func (e *IntLit) Pos() token.Position { return e.ValPos }

// FloatLit is a floating-point literal.
type FloatLit struct {
	ValPos token.Position
	Value  float64
}

func (e *FloatLit) Pos() token.Position { return e.ValPos }

// StringLit is a string literal.
type StringLit struct {
	ValPos token.Position
	Value  string
}

func (e *StringLit) Pos() token.Position { return e.ValPos }

// BoolLit is `true` or `false`.
type BoolLit struct {
	ValPos token.Position
	Value  bool
}

func (e *BoolLit) Pos() token.Position { return e.ValPos }

// NullLit is the `null` literal.
type NullLit struct {
	ValPos token.Position
}

func (e *NullLit) Pos() token.Position { return e.ValPos }

// ArrayLit is an array literal `{e1, e2, ...}`.
type ArrayLit struct {
	LBracePos token.Position
	Elems     []Expr
}

func (e *ArrayLit) Pos() token.Position { return e.LBracePos }

// MapLit is a map literal `{k1: v1, k2: v2, ...}`.
type MapLit struct {
	LBracePos token.Position
	Keys      []Expr
	Vals      []Expr
}

func (e *MapLit) Pos() token.Position { return e.LBracePos }

// FuncLit is an anonymous function expression: `fn(params) { ... }`.
type FuncLit struct {
	FnPos  token.Position
	Params []*Param
	Body   []Stmt
}

func (e *FuncLit) Pos() token.Position { return e.FnPos }

// Param is a single function parameter, optionally type-annotated.
type Param struct {
	Name     string
	NamePos  token.Position
	TypeName string // empty if unannotated
}

// UnaryExpr is a prefix unary operation: `-x`, `!x`.
type UnaryExpr struct {
	OpPos token.Position
	Op    token.Token
	X     Expr
}

func (e *UnaryExpr) Pos() token.Position { return e.OpPos }

// BinaryExpr is an infix binary operation.
type BinaryExpr struct {
	OpPos token.Position
	Op    token.Token
	X, Y  Expr
}

func (e *BinaryExpr) Pos() token.Position { return e.X.Pos() }

// CallExpr is a function call `f(args...)`.
type CallExpr struct {
	LParenPos token.Position
	Fun       Expr
	Args      []Expr
}

func (e *CallExpr) Pos() token.Position { return e.Fun.Pos() }

// IndexExpr is an index operation `x[y]`.
type IndexExpr struct {
	LBrackPos token.Position
	X, Index  Expr
}

func (e *IndexExpr) Pos() token.Position { return e.X.Pos() }

// SelectorExpr is a field access `x.name`.
type SelectorExpr struct {
	DotPos token.Position
	X      Expr
	Sel    string
}

func (e *SelectorExpr) Pos() token.Position { return e.X.Pos() }
