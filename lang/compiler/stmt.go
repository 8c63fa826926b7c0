package compiler

import (
	"github.com/emosaker/leaf/lang/ast"
)

func (c *compiler) compileStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.DeclStmt:
		return c.compileDecl(s)
	case *ast.AssignStmt:
		return c.compileAssign(s)
	case *ast.ExprStmt:
		if err := c.compileExpr(s.X); err != nil {
			return err
		}
		c.emit(EncodeE(POP, 1), s.Pos())
		c.cur.top--
		return nil
	case *ast.IfStmt:
		return c.compileIf(s)
	case *ast.WhileStmt:
		return c.compileWhile(s)
	case *ast.ReturnStmt:
		return c.compileReturn(s)
	case *ast.IncludeStmt:
		return c.compileInclude(s)
	case *ast.FuncDecl:
		return c.compileFuncDecl(s)
	case *ast.ClassDecl:
		return c.compileClassDecl(s)
	case *ast.BlockStmt:
		return c.compileBlock(s)
	}
	return c.errorf(s.Pos(), "unsupported statement")
}

func (c *compiler) compileBlock(b *ast.BlockStmt) error {
	c.cur.pushScope()
	for _, stmt := range b.Stmts {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	c.popScope(b.Pos())
	return nil
}

func (c *compiler) compileDecl(d *ast.DeclStmt) error {
	offset := c.cur.top
	if d.Value != nil {
		if err := c.compileExpr(d.Value); err != nil {
			return err
		}
	} else {
		c.emit(EncodeE(PUSHNULL, 0), d.KwPos)
		c.cur.top++
	}
	isConst := d.Kind == ast.DeclConst
	if !c.cur.declareLocal(d.Name, isConst, offset) {
		return c.errorf(d.KwPos, "%q redeclared in this scope", d.Name)
	}
	return nil
}

// compileAssign handles `lhs = rhs` for identifier, index and selector
// targets. Identifier targets resolve through the same three-tier lookup
// as reads; index/selector targets lower to SET.
func (c *compiler) compileAssign(a *ast.AssignStmt) error {
	switch lhs := a.Lhs.(type) {
	case *ast.Ident:
		return c.compileAssignIdent(lhs, a.Rhs)
	case *ast.IndexExpr:
		if err := c.compileExpr(lhs.X); err != nil {
			return err
		}
		if err := c.compileExpr(lhs.Index); err != nil {
			return err
		}
		if err := c.compileExpr(a.Rhs); err != nil {
			return err
		}
		c.emit(EncodeABC(SET, 0, 0, 0), a.EqPos)
		c.cur.top -= 3
		return nil
	case *ast.SelectorExpr:
		if err := c.compileExpr(lhs.X); err != nil {
			return err
		}
		c.emit(EncodeE(PUSHS, uint32(c.internString(lhs.Sel))), lhs.DotPos)
		c.cur.top++
		if err := c.compileExpr(a.Rhs); err != nil {
			return err
		}
		c.emit(EncodeABC(SET, 0, 0, 0), a.EqPos)
		c.cur.top -= 3
		return nil
	}
	return c.errorf(a.Pos(), "invalid assignment target")
}

func (c *compiler) compileAssignIdent(id *ast.Ident, rhs ast.Expr) error {
	f := c.cur
	if loc, ok := f.resolveLocal(id.Name); ok {
		if loc.isConst {
			return c.errorf(id.NamePos, "cannot assign to const %q", id.Name)
		}
		if err := c.compileExpr(rhs); err != nil {
			return err
		}
		c.emit(EncodeE(ASSIGN, uint32(loc.offset)), id.NamePos)
		f.top--
		return nil
	}
	if idx, ok := c.resolveUpvalue(f, id.Name); ok {
		if err := c.compileExpr(rhs); err != nil {
			return err
		}
		c.emit(EncodeE(SETUPVAL, uint32(idx)), id.NamePos)
		f.top--
		return nil
	}
	if err := c.compileExpr(rhs); err != nil {
		return err
	}
	c.emit(EncodeE(SETGLOBAL, uint32(c.internString(id.Name))), id.NamePos)
	f.top--
	return nil
}

func (c *compiler) compileIf(s *ast.IfStmt) error {
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	c.cur.top--
	jmpIfNotIdx := c.emit(EncodeE(JMPIFNOT, 0), s.IfPos)
	if err := c.compileBlock(s.Body); err != nil {
		return err
	}
	if s.Else != nil {
		jmpEndIdx := c.emit(EncodeE(JMP, 0), s.IfPos)
		c.patchJump(jmpIfNotIdx)
		switch elseStmt := s.Else.(type) {
		case *ast.BlockStmt:
			if err := c.compileBlock(elseStmt); err != nil {
				return err
			}
		case *ast.IfStmt:
			if err := c.compileIf(elseStmt); err != nil {
				return err
			}
		}
		c.patchJump(jmpEndIdx)
	} else {
		c.patchJump(jmpIfNotIdx)
	}
	return nil
}

func (c *compiler) compileWhile(s *ast.WhileStmt) error {
	condPC := len(c.cur.code)
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	c.cur.top--
	jmpIfNotIdx := c.emit(EncodeE(JMPIFNOT, 0), s.WhilePos)
	if err := c.compileBlock(s.Body); err != nil {
		return err
	}
	backDist := uint32((len(c.cur.code) - condPC) * 4)
	c.emit(EncodeE(JMPBACK, backDist), s.WhilePos)
	c.patchJump(jmpIfNotIdx)
	return nil
}

func (c *compiler) compileReturn(s *ast.ReturnStmt) error {
	if s.Value == nil {
		c.emit(EncodeABC(RET, 0, 0, 0), s.RetPos)
		return nil
	}
	if err := c.compileExpr(s.Value); err != nil {
		return err
	}
	c.emit(EncodeABC(RET, 1, 0, 0), s.RetPos)
	c.cur.top--
	return nil
}

func (c *compiler) compileInclude(s *ast.IncludeStmt) error {
	if c.loader == nil {
		return c.errorf(s.IncPos, "include is unsupported without a source loader")
	}
	included, err := c.loader(s.Path)
	if err != nil {
		return c.errorf(s.IncPos, "include %q: %s", s.Path, err)
	}
	for _, stmt := range included.Stmts {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) compileFuncDecl(d *ast.FuncDecl) error {
	offset := c.cur.top
	if err := c.compileFuncLit(d.FnPos, d.Name, d.Params, d.Body); err != nil {
		return err
	}
	if !c.cur.declareLocal(d.Name, false, offset) {
		return c.errorf(d.FnPos, "%q redeclared in this scope", d.Name)
	}
	return nil
}

// compileClassDecl lowers a class body to a zero-argument constructor
// function, registered as a local under the class name, whose body pushes
// each member's name and default value and closes with CLS instead of
// RET. CLS and NEWMAP build the same flat-pairs representation, so class
// instances support `.field` access through the same runtime path as map
// literals.
func (c *compiler) compileClassDecl(d *ast.ClassDecl) error {
	parent := c.cur
	offset := parent.top
	child := c.pushFrame(parent, d.Name, 0)
	for _, field := range d.Fields {
		child.top++ // name pushed inline below, accounted via PUSHS
		c.emit(EncodeE(PUSHS, uint32(c.internString(field.Name))), field.NamePos)
		if field.Default != nil {
			if err := c.compileExpr(field.Default); err != nil {
				c.cur = parent
				return err
			}
		} else {
			c.emit(EncodeE(PUSHNULL, 0), field.NamePos)
			child.top++
		}
	}
	c.emit(EncodeE(CLS, uint32(len(d.Fields))), d.ClassPos)
	proto := c.frameToPrototype(child)
	c.cur = parent

	idx := len(parent.protos)
	parent.protos = append(parent.protos, proto)
	c.emit(EncodeE(CL, uint32(idx)), d.ClassPos)
	parent.top++
	for _, up := range child.upvalues {
		c.emit(EncodeAD(CAPTURE, uint8(up.kind), uint16(up.source)), d.ClassPos)
	}
	if !parent.declareLocal(d.Name, false, offset) {
		return c.errorf(d.ClassPos, "%q redeclared in this scope", d.Name)
	}
	return nil
}
