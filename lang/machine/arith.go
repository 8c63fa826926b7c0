package machine

import (
	"math"
	"strings"

	"github.com/emosaker/leaf/lang/compiler"
	"github.com/emosaker/leaf/lang/value"
)

// isFalsy implements the branch-truthiness rule of spec.md §4.5: falsy is
// null, boolean false, or integer zero. Every other value (including 0.0,
// "" and empty arrays) is truthy. JMPIFNOT, NOT, AND and OR all share this
// rule; it is distinct from value.Value.Truthy, a looser general-purpose
// helper host closures may use for display purposes.
func isFalsy(v value.Value) bool {
	switch v.Kind() {
	case value.Null:
		return true
	case value.Bool:
		return !v.AsBool()
	case value.Int:
		return v.AsInt() == 0
	}
	return false
}

func typeName(v value.Value) string { return v.Kind().String() }

// binary implements the ADD/SUB/MUL/DIV/POW/BAND/BOR/BXOR/BLSH/BRSH type
// matrix of spec.md §4.5.
func (st *State) binary(op compiler.Opcode, x, y value.Value) (value.Value, error) {
	switch op {
	case compiler.ADD:
		return st.add(x, y)
	case compiler.SUB, compiler.MUL, compiler.DIV, compiler.POW:
		return st.arith(op, x, y)
	case compiler.BAND, compiler.BOR, compiler.BXOR, compiler.BLSH, compiler.BRSH:
		return st.bitwise(op, x, y)
	}
	return value.Value{}, st.Errorf("unsupported binary opcode %s", op)
}

func (st *State) add(x, y value.Value) (value.Value, error) {
	if x.IsString() && y.IsString() {
		return st.allocString(x.AsString() + y.AsString()), nil
	}
	return st.arith(compiler.ADD, x, y)
}

func (st *State) arith(op compiler.Opcode, x, y value.Value) (value.Value, error) {
	if x.IsInt() && y.IsInt() {
		a, b := x.AsInt(), y.AsInt()
		switch op {
		case compiler.ADD:
			return value.NewInt(a + b), nil
		case compiler.SUB:
			return value.NewInt(a - b), nil
		case compiler.MUL:
			return value.NewInt(a * b), nil
		case compiler.DIV:
			if b == 0 {
				return value.Value{}, st.Errorf("division by zero")
			}
			return value.NewInt(a / b), nil
		case compiler.POW:
			if b < 0 {
				return value.NewFloat(math.Pow(float64(a), float64(b))), nil
			}
			return value.NewInt(intPow(a, b)), nil
		}
	}
	if (x.IsInt() || x.IsFloat()) && (y.IsInt() || y.IsFloat()) {
		a, b := asFloat(x), asFloat(y)
		switch op {
		case compiler.ADD:
			return value.NewFloat(a + b), nil
		case compiler.SUB:
			return value.NewFloat(a - b), nil
		case compiler.MUL:
			return value.NewFloat(a * b), nil
		case compiler.DIV:
			return value.NewFloat(a / b), nil
		case compiler.POW:
			return value.NewFloat(math.Pow(a, b)), nil
		}
	}
	return value.Value{}, st.Errorf("attempt to perform arithmetic between %s and %s", typeName(x), typeName(y))
}

func (st *State) bitwise(op compiler.Opcode, x, y value.Value) (value.Value, error) {
	if !x.IsInt() || !y.IsInt() {
		return value.Value{}, st.Errorf("attempt to perform bitwise operation between %s and %s", typeName(x), typeName(y))
	}
	a, b := x.AsInt(), y.AsInt()
	switch op {
	case compiler.BAND:
		return value.NewInt(a & b), nil
	case compiler.BOR:
		return value.NewInt(a | b), nil
	case compiler.BXOR:
		return value.NewInt(a ^ b), nil
	case compiler.BLSH:
		return value.NewInt(a << uint(b)), nil
	case compiler.BRSH:
		return value.NewInt(a >> uint(b)), nil
	}
	return value.Value{}, st.Errorf("unsupported bitwise opcode %s", op)
}

// intPow computes base**exp for exp >= 0; callers route negative exponents
// to the float path instead, since an integer result can't represent one.
func intPow(base, exp int64) int64 {
	result := int64(1)
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

func asFloat(v value.Value) float64 {
	if v.IsInt() {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

// compare implements EQ/NE (defined for all kinds) and LT/GT/LE/GE
// (numeric and string only).
func (st *State) compare(op compiler.Opcode, x, y value.Value) (value.Value, error) {
	switch op {
	case compiler.EQ:
		return value.NewBool(valuesEqual(x, y)), nil
	case compiler.NE:
		return value.NewBool(!valuesEqual(x, y)), nil
	}

	if x.IsString() && y.IsString() {
		c := strings.Compare(x.AsString(), y.AsString())
		return value.NewBool(orderResult(op, c)), nil
	}
	if (x.IsInt() || x.IsFloat()) && (y.IsInt() || y.IsFloat()) {
		a, b := asFloat(x), asFloat(y)
		if math.IsNaN(a) || math.IsNaN(b) {
			// NaN is unordered: every LT/GT/LE/GE comparison against it is false,
			// per IEEE 754 (this function only ever sees those four ops -- EQ/NE
			// return earlier in compare).
			return value.NewBool(false), nil
		}
		c := 0
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
		return value.NewBool(orderResult(op, c)), nil
	}
	return value.Value{}, st.Errorf("attempt to compare %s and %s", typeName(x), typeName(y))
}

func orderResult(op compiler.Opcode, c int) bool {
	switch op {
	case compiler.LT:
		return c < 0
	case compiler.GT:
		return c > 0
	case compiler.LE:
		return c <= 0
	case compiler.GE:
		return c >= 0
	}
	return false
}

// valuesEqual mirrors lang/valuemap's key-equality contract: same kind,
// then content equality for scalars and strings, identity equality for
// closures.
func valuesEqual(x, y value.Value) bool {
	if x.Kind() != y.Kind() {
		return false
	}
	switch x.Kind() {
	case value.Null:
		return true
	case value.Int:
		return x.AsInt() == y.AsInt()
	case value.Float:
		return x.AsFloat() == y.AsFloat()
	case value.Bool:
		return x.AsBool() == y.AsBool()
	case value.String:
		return x.AsString() == y.AsString()
	case value.Closure:
		return x.Identity() == y.Identity()
	case value.Array:
		return x.Identity() == y.Identity()
	}
	return false
}
