package compiler

import (
	"github.com/emosaker/leaf/lang/ast"
	"github.com/emosaker/leaf/lang/token"
)

func binaryOpcode(tok token.Token) (Opcode, bool) {
	switch tok {
	case token.PLUS:
		return ADD, true
	case token.MINUS:
		return SUB, true
	case token.STAR:
		return MUL, true
	case token.SLASH:
		return DIV, true
	case token.STARSTAR:
		return POW, true
	case token.EQEQ:
		return EQ, true
	case token.NEQ:
		return NE, true
	case token.LT:
		return LT, true
	case token.GT:
		return GT, true
	case token.LE:
		return LE, true
	case token.GE:
		return GE, true
	case token.AMPERSAND:
		return BAND, true
	case token.PIPE:
		return BOR, true
	case token.CIRCUMFLEX:
		return BXOR, true
	case token.LTLT:
		return BLSH, true
	case token.GTGT:
		return BRSH, true
	case token.ANDAND:
		return AND, true
	case token.OROR:
		return OR, true
	}
	return NOP, false
}

// compileExpr lowers e, leaving exactly one value on the abstract stack.
func (c *compiler) compileExpr(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.IntLit:
		c.pushInt(e.Value, e.ValPos)
		return nil
	case *ast.FloatLit:
		c.emit(EncodeE(PUSHF, uint32(c.internFloat(e.Value))), e.ValPos)
		c.cur.top++
		return nil
	case *ast.StringLit:
		c.emit(EncodeE(PUSHS, uint32(c.internString(e.Value))), e.ValPos)
		c.cur.top++
		return nil
	case *ast.BoolLit:
		v := uint32(0)
		if e.Value {
			v = 1
		}
		c.emit(EncodeE(PUSHBOOL, v), e.ValPos)
		c.cur.top++
		return nil
	case *ast.NullLit:
		c.emit(EncodeE(PUSHNULL, 0), e.ValPos)
		c.cur.top++
		return nil
	case *ast.Ident:
		return c.compileIdentRead(e)
	case *ast.ArrayLit:
		return c.compileArrayLit(e)
	case *ast.MapLit:
		return c.compileMapLit(e)
	case *ast.FuncLit:
		return c.compileFuncLit(e.FnPos, "", e.Params, e.Body)
	case *ast.UnaryExpr:
		return c.compileUnary(e)
	case *ast.BinaryExpr:
		return c.compileBinary(e)
	case *ast.CallExpr:
		return c.compileCall(e)
	case *ast.IndexExpr:
		return c.compileIndexRead(e)
	case *ast.SelectorExpr:
		return c.compileSelectorRead(e)
	}
	return c.errorf(e.Pos(), "unsupported expression")
}

func (c *compiler) compileIdentRead(id *ast.Ident) error {
	f := c.cur
	if loc, ok := f.resolveLocal(id.Name); ok {
		c.emit(EncodeE(DUP, uint32(loc.offset)), id.NamePos)
		f.top++
		return nil
	}
	if idx, ok := c.resolveUpvalue(f, id.Name); ok {
		c.emit(EncodeE(GETUPVAL, uint32(idx)), id.NamePos)
		f.top++
		return nil
	}
	c.emit(EncodeE(GETGLOBAL, uint32(c.internString(id.Name))), id.NamePos)
	f.top++
	return nil
}

func (c *compiler) compileArrayLit(lit *ast.ArrayLit) error {
	for _, el := range lit.Elems {
		if err := c.compileExpr(el); err != nil {
			return err
		}
	}
	c.emit(EncodeE(NEWARR, uint32(len(lit.Elems))), lit.LBracePos)
	c.cur.top -= len(lit.Elems)
	c.cur.top++
	return nil
}

// compileMapLit lowers a map literal to NEWMAP over E key/value pairs. The
// resolved value model has no distinct map variant (the Open Question
// directs the null/int/float/bool/string/array/closure superset), so map
// literals and class instances both lower to a flat pairs array that the
// machine's INDEX/SET treat as an association list when probed with a
// string key.
func (c *compiler) compileMapLit(lit *ast.MapLit) error {
	for i := range lit.Keys {
		if err := c.compileExpr(lit.Keys[i]); err != nil {
			return err
		}
		if err := c.compileExpr(lit.Vals[i]); err != nil {
			return err
		}
	}
	c.emit(EncodeE(NEWMAP, uint32(len(lit.Keys))), lit.LBracePos)
	c.cur.top -= len(lit.Keys) * 2
	c.cur.top++
	return nil
}

func (c *compiler) compileUnary(u *ast.UnaryExpr) error {
	if err := c.compileExpr(u.X); err != nil {
		return err
	}
	switch u.Op {
	case token.MINUS:
		c.emit(EncodeABC(NEG, 0, 0, 0), u.OpPos)
	case token.BANG:
		c.emit(EncodeABC(NOT, 0, 0, 0), u.OpPos)
	default:
		return c.errorf(u.OpPos, "invalid unary operator %s", u.Op.GoString())
	}
	return nil
}

func (c *compiler) compileBinary(b *ast.BinaryExpr) error {
	op, ok := binaryOpcode(b.Op)
	if !ok {
		return c.errorf(b.OpPos, "invalid binary operator %s", b.Op.GoString())
	}
	if err := c.compileExpr(b.X); err != nil {
		return err
	}
	if err := c.compileExpr(b.Y); err != nil {
		return err
	}
	c.emit(EncodeABC(op, 0, 0, 0), b.OpPos)
	c.cur.top--
	return nil
}

func (c *compiler) compileCall(call *ast.CallExpr) error {
	if err := c.compileExpr(call.Fun); err != nil {
		return err
	}
	for _, arg := range call.Args {
		if err := c.compileExpr(arg); err != nil {
			return err
		}
	}
	c.emit(EncodeABC(CALL, uint8(len(call.Args)), 1, 0), call.LParenPos)
	// popped callee+args (1+nargs), pushed 1 return value
	c.cur.top -= len(call.Args)
	return nil
}

func (c *compiler) compileIndexRead(ix *ast.IndexExpr) error {
	if err := c.compileExpr(ix.X); err != nil {
		return err
	}
	if err := c.compileExpr(ix.Index); err != nil {
		return err
	}
	c.emit(EncodeABC(INDEX, 0, 0, 0), ix.LBrackPos)
	c.cur.top--
	return nil
}

func (c *compiler) compileSelectorRead(sel *ast.SelectorExpr) error {
	if err := c.compileExpr(sel.X); err != nil {
		return err
	}
	c.emit(EncodeE(PUSHS, uint32(c.internString(sel.Sel))), sel.DotPos)
	c.cur.top++
	c.emit(EncodeABC(INDEX, 0, 0, 0), sel.DotPos)
	c.cur.top--
	return nil
}

// compileFuncLit compiles a function body (named or anonymous) into a
// child prototype, then emits CL + one CAPTURE per up-value the body
// resolved from an enclosing frame.
func (c *compiler) compileFuncLit(pos token.Position, name string, params []*ast.Param, body []ast.Stmt) error {
	parent := c.cur
	child := c.pushFrame(parent, name, len(params))
	for i, p := range params {
		child.declareLocal(p.Name, false, i)
	}
	for _, stmt := range body {
		if err := c.compileStmt(stmt); err != nil {
			c.cur = parent
			return err
		}
	}
	needsRet := len(child.code) == 0 || child.code[len(child.code)-1].Op() != RET
	if needsRet {
		c.emit(EncodeABC(RET, 0, 0, 0), pos)
	}
	proto := c.frameToPrototype(child)
	c.cur = parent

	idx := len(parent.protos)
	parent.protos = append(parent.protos, proto)
	c.emit(EncodeE(CL, uint32(idx)), pos)
	parent.top++
	for _, up := range child.upvalues {
		c.emit(EncodeAD(CAPTURE, uint8(up.kind), uint16(up.source)), pos)
	}
	return nil
}
