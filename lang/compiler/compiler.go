package compiler

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/emosaker/leaf/lang/ast"
	"github.com/emosaker/leaf/lang/token"
)

// Error is a single compile-time failure: syntax is caught earlier by the
// parser, so every Error here is semantic (redeclaration, write-to-const,
// malformed operator). Compilation aborts at the first one; no partial
// prototype is produced.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// Compile lowers a parsed file into a single root Prototype.
func Compile(file *ast.File, opts ...Option) (*Prototype, error) {
	c := &compiler{}
	for _, opt := range opts {
		opt(c)
	}
	root := c.pushFrame(nil, "main", 0)
	defer c.popFrame()

	for _, stmt := range file.Stmts {
		if err := c.compileStmt(stmt); err != nil {
			return nil, err
		}
	}
	c.emit(EncodeABC(RET, 0, 0, 0), lastPos(file))
	return c.frameToPrototype(root), nil
}

type local struct {
	offset  int
	isConst bool
}

type upvalDesc struct {
	kind   CaptureKind
	source int
}

// frame holds the compiler's per-function-body mutable state: the
// instruction/line vectors under construction, the constant pools, the
// lexical scope stack, and the up-value capture list this function's body
// has accumulated so far.
type frame struct {
	parent *frame
	name   string
	params int

	top int // abstract stack top, relative to this frame's base

	code  []Instruction
	lines []int

	ints     []int64
	intIndex map[int64]int

	floats     []float64
	floatIndex map[float64]int

	strings  []string
	strIndex *swiss.Map[string, int]

	protos []*Prototype

	upvalues   []upvalDesc
	upvalNames map[string]int

	scopes []map[string]local
}

type compiler struct {
	cur    *frame
	loader func(path string) (*ast.File, error)
}

// Option configures a Compile call.
type Option func(*compiler)

// WithLoader supplies the resolver `include` statements use to fetch and
// splice in another parsed file. Without one, `include` is a compile
// error: source-file loading is an external collaborator's concern.
func WithLoader(loader func(path string) (*ast.File, error)) Option {
	return func(c *compiler) { c.loader = loader }
}

func (c *compiler) pushFrame(parent *frame, name string, params int) *frame {
	f := &frame{
		parent:     parent,
		name:       name,
		params:     params,
		top:        params,
		intIndex:   map[int64]int{},
		floatIndex: map[float64]int{},
		strIndex:   swiss.NewMap[string, int](8),
		upvalNames: map[string]int{},
	}
	f.pushScope()
	c.cur = f
	return f
}

// popFrame restores the enclosing frame as current. It does not add the
// frame's prototype to its parent's proto list; compileFuncLit and
// compileClassDecl do that after calling frameToPrototype.
func (c *compiler) popFrame() {
	if c.cur != nil {
		c.cur = c.cur.parent
	}
}

func (f *frame) pushScope() {
	f.scopes = append(f.scopes, map[string]local{})
}

// popScope removes the innermost scope's bindings and emits a POP for any
// locals it introduced, restoring the abstract top to what it was when the
// scope was entered.
func (c *compiler) popScope(pos token.Position) {
	f := c.cur
	n := len(f.scopes) - 1
	scope := f.scopes[n]
	f.scopes = f.scopes[:n]
	if len(scope) > 0 {
		c.emit(EncodeE(POP, uint32(len(scope))), pos)
		f.top -= len(scope)
	}
}

// declareLocal binds name to the stack slot it already occupies. Callers
// pass the offset explicitly rather than reading f.top at call time: by
// the time a decl's initializer has been compiled, f.top has already
// moved past the slot the value landed in, and a function's parameters
// all share the same f.top (the count of params, fixed for the whole
// parameter list) even though each one lives in its own slot.
func (f *frame) declareLocal(name string, isConst bool, offset int) bool {
	scope := f.scopes[len(f.scopes)-1]
	if _, exists := scope[name]; exists {
		return false
	}
	scope[name] = local{offset: offset, isConst: isConst}
	return true
}

func (f *frame) resolveLocal(name string) (local, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if loc, ok := f.scopes[i][name]; ok {
			return loc, true
		}
	}
	return local{}, false
}

// resolveUpvalue implements the IDX/REF capture algorithm of the compiler
// spec: a name found in the immediate parent's locals is captured as IDX;
// a name found further out is captured as REF through the chain of
// intervening closures, one capture per frame, deduplicated by name.
func (c *compiler) resolveUpvalue(f *frame, name string) (int, bool) {
	if f.parent == nil {
		return 0, false
	}
	if idx, ok := f.upvalNames[name]; ok {
		return idx, true
	}
	if loc, ok := f.parent.resolveLocal(name); ok {
		idx := f.addUpvalue(name, upvalDesc{kind: CaptureIDX, source: loc.offset})
		return idx, true
	}
	if parentIdx, ok := c.resolveUpvalue(f.parent, name); ok {
		idx := f.addUpvalue(name, upvalDesc{kind: CaptureREF, source: parentIdx})
		return idx, true
	}
	return 0, false
}

func (f *frame) addUpvalue(name string, d upvalDesc) int {
	idx := len(f.upvalues)
	f.upvalues = append(f.upvalues, d)
	f.upvalNames[name] = idx
	return idx
}

func (c *compiler) emit(ins Instruction, pos token.Position) int {
	f := c.cur
	f.code = append(f.code, ins)
	f.lines = append(f.lines, pos.Line)
	return len(f.code) - 1
}

// patchJump rewrites the E field of the NOP/jump placeholder at idx so it
// branches to the current end of the code vector.
func (c *compiler) patchJump(idx int) {
	f := c.cur
	op := f.code[idx].Op()
	dist := uint32(len(f.code)-idx-1) * 4
	f.code[idx] = EncodeE(op, dist)
}

func (c *compiler) internInt(n int64) int {
	f := c.cur
	if idx, ok := f.intIndex[n]; ok {
		return idx
	}
	idx := len(f.ints)
	f.ints = append(f.ints, n)
	f.intIndex[n] = idx
	return idx
}

func (c *compiler) internFloat(v float64) int {
	f := c.cur
	if idx, ok := f.floatIndex[v]; ok {
		return idx
	}
	idx := len(f.floats)
	f.floats = append(f.floats, v)
	f.floatIndex[v] = idx
	return idx
}

func (c *compiler) internString(s string) int {
	f := c.cur
	if idx, ok := f.strIndex.Get(s); ok {
		return idx
	}
	idx := len(f.strings)
	f.strings = append(f.strings, s)
	f.strIndex.Put(s, idx)
	return idx
}

// maxInlineInt is the largest magnitude an integer literal can have and
// still be inlined via PUSHSI's 24-bit E operand.
const maxInlineInt = 1<<24 - 1

func (c *compiler) pushInt(n int64, pos token.Position) {
	if n >= 0 && n <= maxInlineInt {
		c.emit(EncodeE(PUSHSI, uint32(n)), pos)
	} else {
		c.emit(EncodeE(PUSHLI, uint32(c.internInt(n))), pos)
	}
	c.cur.top++
}

func (c *compiler) frameToPrototype(f *frame) *Prototype {
	return &Prototype{
		Code:     f.code,
		Lines:    f.lines,
		Ints:     f.ints,
		Floats:   f.floats,
		Strings:  f.strings,
		Protos:   f.protos,
		Name:     f.name,
		Params:   f.params,
		Upvalues: len(f.upvalues),
	}
}

func (c *compiler) errorf(pos token.Position, format string, args ...interface{}) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func lastPos(file *ast.File) token.Position {
	if len(file.Stmts) == 0 {
		return token.Position{Filename: file.Name, Line: 1, Col: 1}
	}
	return file.Stmts[len(file.Stmts)-1].Pos()
}
