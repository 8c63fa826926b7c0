package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emosaker/leaf/lang/ast"
)

func TestParseVarDecl(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`var x = 1 + 2`))
	require.NoError(t, err)
	require.Len(t, f.Stmts, 1)
	decl, ok := f.Stmts[0].(*ast.DeclStmt)
	require.True(t, ok)
	require.Equal(t, ast.DeclVar, decl.Kind)
	require.Equal(t, "x", decl.Name)
	bin, ok := decl.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	_ = bin
}

func TestParseConstRequiresInit(t *testing.T) {
	_, err := Parse("t.leaf", []byte(`const x`))
	require.Error(t, err)
}

func TestParseRefWithoutInit(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`ref x`))
	require.NoError(t, err)
	decl := f.Stmts[0].(*ast.DeclStmt)
	require.Equal(t, ast.DeclRef, decl.Kind)
	require.Nil(t, decl.Value)
}

func TestParseIfElse(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`
		if x < 1 {
			return 1
		} else if x < 2 {
			return 2
		} else {
			return 3
		}
	`))
	require.NoError(t, err)
	stmt, ok := f.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	require.IsType(t, &ast.IfStmt{}, stmt.Else)
}

func TestParseWhile(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`while true { }`))
	require.NoError(t, err)
	_, ok := f.Stmts[0].(*ast.WhileStmt)
	require.True(t, ok)
}

func TestParseFuncDecl(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`
		fn add(a, b: int) {
			return a + b
		}
	`))
	require.NoError(t, err)
	fn, ok := f.Stmts[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "int", fn.Params[1].TypeName)
}

func TestParseClassDecl(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`
		class Point {
			x = 0,
			y = 0
		}
	`))
	require.NoError(t, err)
	cls, ok := f.Stmts[0].(*ast.ClassDecl)
	require.True(t, ok)
	require.Equal(t, "Point", cls.Name)
	require.Len(t, cls.Fields, 2)
}

func TestParseArrayAndMapLit(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`var a = {1, 2, 3}
var m = {"k": 1, "j": 2}`))
	require.NoError(t, err)
	a := f.Stmts[0].(*ast.DeclStmt).Value.(*ast.ArrayLit)
	require.Len(t, a.Elems, 3)
	m := f.Stmts[1].(*ast.DeclStmt).Value.(*ast.MapLit)
	require.Len(t, m.Keys, 2)
}

func TestParseCallIndexSelector(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`foo(1, 2)[0].bar`))
	require.NoError(t, err)
	sel, ok := f.Stmts[0].(*ast.ExprStmt).X.(*ast.SelectorExpr)
	require.True(t, ok)
	require.Equal(t, "bar", sel.Sel)
	idx, ok := sel.X.(*ast.IndexExpr)
	require.True(t, ok)
	call, ok := idx.X.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
}

func TestParseOperatorPrecedence(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`var r = 1 + 2 * 3 ** 2`))
	require.NoError(t, err)
	bin := f.Stmts[0].(*ast.DeclStmt).Value.(*ast.BinaryExpr)
	mul, ok := bin.Y.(*ast.BinaryExpr)
	require.True(t, ok)
	pow, ok := mul.Y.(*ast.BinaryExpr)
	require.True(t, ok)
	_ = pow
}

func TestParseAssignment(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`x[0] = 1`))
	require.NoError(t, err)
	assign, ok := f.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	require.IsType(t, &ast.IndexExpr{}, assign.Lhs)
}

func TestParseInclude(t *testing.T) {
	f, err := Parse("t.leaf", []byte(`include "other.leaf"`))
	require.NoError(t, err)
	inc, ok := f.Stmts[0].(*ast.IncludeStmt)
	require.True(t, ok)
	require.Equal(t, "other.leaf", inc.Path)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse("t.leaf", []byte(`var = 1`))
	require.Error(t, err)
}
