// Package value implements the tagged runtime value representation shared
// by the compiler's constant pools and the machine's stack and globals.
package value

import (
	"fmt"
	"math"
)

// Kind discriminates the variant held by a Value.
type Kind uint8

const (
	Null Kind = iota
	Int
	Float
	Bool
	String
	Array
	Closure
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Array:
		return "array"
	case Closure:
		return "closure"
	}
	return "unknown"
}

// Value is the tagged union of every runtime value leaf can hold. Scalar
// kinds (int, float, bool) are stored inline; string, array and closure are
// represented by a *heapObject that also carries the GC's tri-color mark
// state, so the zero Value is a valid null.
type Value struct {
	kind Kind
	num  uint64 // int bits, float bits (math.Float64bits), or bool (0/1)
	obj  *heapObject
}

// heapObject is the common header for every heap-allocated variant. It
// carries the tri-color mark the machine's collector uses during its mark
// and sweep phases.
type heapObject struct {
	mark    markColor
	kind    Kind
	str     string
	arr     []Value
	proto   Prototype // non-nil for language closures
	upv     []*Cell   // captured upvalue cells, parallel to proto.NumUpvalues
	host    HostFunc  // non-nil for host closures
	name    string    // closure name, for tracebacks
	next    *heapObject
	tracked bool // true once the collector's intrusive list owns this object
}

// Cell is the indirection a closure's up-value slot goes through. It
// aliases a live stack slot by absolute index while the owning frame is
// live; the machine promotes it to hold its own Value directly once that
// frame returns, per the escape rule of the up-value model. Using an index
// rather than a raw pointer into the stack slice means promotion never has
// to rebase pointers across a stack reallocation -- the slice can grow
// freely and the index stays valid.
type Cell struct {
	promoted bool
	stackIdx int
	val      Value
}

// NewStackCell creates a cell aliasing absolute stack slot idx.
func NewStackCell(idx int) *Cell { return &Cell{stackIdx: idx} }

// StackIndex reports the aliased stack slot, if the cell has not been
// promoted yet.
func (c *Cell) StackIndex() (int, bool) {
	if c.promoted {
		return 0, false
	}
	return c.stackIdx, true
}

func (c *Cell) IsPromoted() bool { return c.promoted }

// Promote moves the cell off the stack, giving it ownership of v.
func (c *Cell) Promote(v Value) {
	c.promoted = true
	c.val = v
}

func (c *Cell) PromotedValue() Value     { return c.val }
func (c *Cell) SetPromotedValue(v Value) { c.val = v }

type markColor uint8

const (
	white markColor = iota
	gray
	black
)

// HostFunc is a builtin implemented in Go, registered as a closure value.
type HostFunc func(args []Value) ([]Value, error)

// Prototype is implemented by the compiler; declared here as an interface
// to avoid an import cycle between value and compiler. lang/compiler's
// concrete *compiler.Prototype satisfies it.
type Prototype interface {
	ProtoName() string
	NumParams() int
	NumUpvalues() int
}

func Null() Value { return Value{kind: Null} }

func NewInt(n int64) Value { return Value{kind: Int, num: uint64(n)} }

func NewFloat(f float64) Value { return Value{kind: Float, num: floatBits(f)} }

func NewBool(b bool) Value {
	if b {
		return Value{kind: Bool, num: 1}
	}
	return Value{kind: Bool, num: 0}
}

func NewString(s string) Value {
	return Value{kind: String, obj: &heapObject{kind: String, str: s}}
}

func NewArray(elems []Value) Value {
	return Value{kind: Array, obj: &heapObject{kind: Array, arr: elems}}
}

func NewClosure(proto Prototype, upvalues []*Cell) Value {
	return Value{kind: Closure, obj: &heapObject{kind: Closure, proto: proto, upv: upvalues, name: proto.ProtoName()}}
}

func NewHostClosure(name string, fn HostFunc) Value {
	return Value{kind: Closure, obj: &heapObject{kind: Closure, host: fn, name: name}}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool    { return v.kind == Null }
func (v Value) IsInt() bool     { return v.kind == Int }
func (v Value) IsFloat() bool   { return v.kind == Float }
func (v Value) IsBool() bool    { return v.kind == Bool }
func (v Value) IsString() bool  { return v.kind == String }
func (v Value) IsArray() bool   { return v.kind == Array }
func (v Value) IsClosure() bool { return v.kind == Closure }

func (v Value) AsInt() int64 { return int64(v.num) }

func (v Value) AsFloat() float64 { return floatFromBits(v.num) }

func (v Value) AsBool() bool { return v.num != 0 }

func (v Value) AsString() string {
	if v.obj == nil {
		return ""
	}
	return v.obj.str
}

func (v Value) AsArray() []Value {
	if v.obj == nil {
		return nil
	}
	return v.obj.arr
}

// SetArray replaces the backing slice of an array value in place, used by
// ASSIGN-to-index and by append-style builtins.
func (v Value) SetArray(elems []Value) {
	v.obj.arr = elems
}

func (v Value) ClosureProto() (Prototype, bool) {
	if v.obj == nil || v.obj.proto == nil {
		return nil, false
	}
	return v.obj.proto, true
}

func (v Value) ClosureUpvalues() []*Cell {
	if v.obj == nil {
		return nil
	}
	return v.obj.upv
}

// AppendUpvalue appends cell to a closure's upvalue list. Used by CL/CAPTURE
// construction, which builds a closure's captures one instruction at a
// time after pushing it.
func (v Value) AppendUpvalue(cell *Cell) {
	v.obj.upv = append(v.obj.upv, cell)
}

func (v Value) ClosureHost() (HostFunc, bool) {
	if v.obj == nil || v.obj.host == nil {
		return nil, false
	}
	return v.obj.host, true
}

func (v Value) ClosureName() string {
	if v.obj == nil {
		return ""
	}
	return v.obj.name
}

// Truthy is a general-purpose truthiness helper: null and false are falsy,
// everything else (including 0 and "") is truthy. The machine's branch and
// logical operators use a stricter rule that also treats integer 0 as falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case Null:
		return false
	case Bool:
		return v.num != 0
	default:
		return true
	}
}

func floatBits(f float64) uint64    { return math.Float64bits(f) }
func floatFromBits(b uint64) float64 { return math.Float64frombits(b) }

func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Int:
		return fmt.Sprintf("%d", v.AsInt())
	case Float:
		return fmt.Sprintf("%g", v.AsFloat())
	case Bool:
		return fmt.Sprintf("%t", v.AsBool())
	case String:
		return v.AsString()
	case Array:
		return fmt.Sprintf("array(%d)", len(v.AsArray()))
	case Closure:
		return fmt.Sprintf("closure(%s)", v.ClosureName())
	}
	return "?"
}
