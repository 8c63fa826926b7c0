package machine

import (
	"github.com/emosaker/leaf/lang/compiler"
	"github.com/emosaker/leaf/lang/value"
)

// run executes the prototype of the closure in the topmost frame until it
// returns or errors, one function per opcode family as spec.md §2's
// component table calls for. It is the dispatch loop CALL recurses into
// for every language-closure invocation.
func (st *State) run() ([]value.Value, error) {
	fr := &st.frames[len(st.frames)-1]
	proto := fr.proto()
	code := proto.Code

	var capturing value.Value // closure currently being built by CL, across its CAPTURE run

	for fr.IP = 0; fr.IP < len(code); fr.IP++ {
		ins := code[fr.IP]
		op := ins.Op()

		switch {
		case op == compiler.NOP:
			// placeholder, nothing to do

		case isPush(op):
			st.execPush(proto, ins)

		case op == compiler.DUP:
			st.push(st.stack[fr.Base+int(ins.E())])

		case op == compiler.POP:
			st.top -= int(ins.E())

		case op == compiler.GETGLOBAL:
			name := proto.Strings[ins.E()]
			v, ok := st.GetGlobal(name)
			if !ok {
				v = value.Null()
			}
			st.push(v)

		case op == compiler.SETGLOBAL:
			name := proto.Strings[ins.E()]
			st.SetGlobal(name, st.pop())

		case op == compiler.GETUPVAL:
			cell := closureUpvalue(fr.Closure, int(ins.E()))
			st.push(st.readCell(cell))

		case op == compiler.SETUPVAL:
			cell := closureUpvalue(fr.Closure, int(ins.E()))
			st.writeCell(cell, st.pop())

		case op == compiler.INDEX:
			if err := st.execIndex(); err != nil {
				return nil, err
			}

		case op == compiler.ASSIGN:
			st.stack[fr.Base+int(ins.E())] = st.pop()

		case op == compiler.SET:
			if err := st.execSet(); err != nil {
				return nil, err
			}

		case op == compiler.NEWARR:
			n := int(ins.E())
			elems := st.popN(n)
			st.push(st.allocArray(elems))

		case op == compiler.NEWMAP:
			n := int(ins.E())
			pairs := st.popN(2 * n)
			st.push(st.allocArray(pairs))

		case op == compiler.CLS:
			// CLS closes a class constructor: the instance it builds is the
			// constructor's return value.
			n := int(ins.E())
			rets := []value.Value{st.allocArray(st.popN(2 * n))}
			st.promoteEscaping(fr.Base, rets)
			return rets, nil

		case isArithOrBitwise(op):
			y := st.pop()
			x := st.pop()
			z, err := st.binary(op, x, y)
			if err != nil {
				return nil, err
			}
			st.push(z)

		case isCompare(op):
			y := st.pop()
			x := st.pop()
			z, err := st.compare(op, x, y)
			if err != nil {
				return nil, err
			}
			st.push(z)

		case op == compiler.AND:
			y := st.pop()
			x := st.pop()
			if isFalsy(x) {
				st.push(x)
			} else {
				st.push(y)
			}

		case op == compiler.OR:
			y := st.pop()
			x := st.pop()
			if isFalsy(x) {
				st.push(y)
			} else {
				st.push(x)
			}

		case op == compiler.NEG:
			x := st.pop()
			switch {
			case x.IsInt():
				st.push(value.NewInt(-x.AsInt()))
			case x.IsFloat():
				st.push(value.NewFloat(-x.AsFloat()))
			default:
				return nil, st.Errorf("attempt to negate a %s value", typeName(x))
			}

		case op == compiler.NOT:
			x := st.pop()
			st.push(value.NewBool(isFalsy(x)))

		case op == compiler.JMP:
			fr.IP += int(ins.E()) / 4

		case op == compiler.JMPBACK:
			fr.IP -= int(ins.E())/4 + 1

		case op == compiler.JMPIFNOT:
			v := st.pop()
			if isFalsy(v) {
				fr.IP += int(ins.E()) / 4
			}

		case op == compiler.CALL:
			nargs, nret := int(ins.A()), int(ins.B())
			if err := st.call(nargs, nret); err != nil {
				return nil, err
			}
			// st.call may have grown the stack / replaced fr's backing
			// array contents are unaffected since Frame holds no slice,
			// only indices, but re-fetch the frame pointer in case the
			// frame vector itself reallocated.
			fr = &st.frames[len(st.frames)-1]

		case op == compiler.CL:
			child := proto.Protos[ins.E()]
			cl := st.allocClosure(child, make([]*value.Cell, 0, child.NumUpvalues()))
			st.push(cl)
			capturing = cl

		case op == compiler.CAPTURE:
			var cell *value.Cell
			if compiler.CaptureKind(ins.A()) == compiler.CaptureIDX {
				cell = fr.cellFor(fr.Base + int(ins.D()))
			} else {
				cell = closureUpvalue(fr.Closure, int(ins.D()))
			}
			capturing.AppendUpvalue(cell)

		case op == compiler.RET:
			n := int(ins.A())
			rets := st.popN(n)
			st.promoteEscaping(fr.Base, rets)
			return rets, nil

		default:
			return nil, st.Errorf("unimplemented opcode %s", op)
		}
	}
	return nil, nil
}

func isPush(op compiler.Opcode) bool {
	switch op {
	case compiler.PUSHSI, compiler.PUSHLI, compiler.PUSHF, compiler.PUSHS,
		compiler.PUSHBOOL, compiler.PUSHNULL:
		return true
	}
	return false
}

func (st *State) execPush(proto *compiler.Prototype, ins compiler.Instruction) {
	switch ins.Op() {
	case compiler.PUSHSI:
		st.push(value.NewInt(int64(ins.E())))
	case compiler.PUSHLI:
		st.push(value.NewInt(proto.Ints[ins.E()]))
	case compiler.PUSHF:
		st.push(value.NewFloat(proto.Floats[ins.E()]))
	case compiler.PUSHS:
		st.push(st.allocString(proto.Strings[ins.E()]))
	case compiler.PUSHBOOL:
		st.push(value.NewBool(ins.E() != 0))
	case compiler.PUSHNULL:
		st.push(value.Null())
	}
}

func isArithOrBitwise(op compiler.Opcode) bool {
	switch op {
	case compiler.ADD, compiler.SUB, compiler.MUL, compiler.DIV, compiler.POW,
		compiler.BAND, compiler.BOR, compiler.BXOR, compiler.BLSH, compiler.BRSH:
		return true
	}
	return false
}

func isCompare(op compiler.Opcode) bool {
	switch op {
	case compiler.EQ, compiler.NE, compiler.LT, compiler.GT, compiler.LE, compiler.GE:
		return true
	}
	return false
}

// execIndex implements INDEX: pop index, pop object, push object[index].
// Arrays index by integer; class/map flat-pairs arrays (see lang/compiler's
// NEWMAP/CLS lowering) also index by string key via linear probe of the
// (key, value) pairs. Indexing any non-array value, strings included, is a
// runtime error.
func (st *State) execIndex() error {
	index := st.pop()
	object := st.pop()
	v, err := st.index(object, index)
	if err != nil {
		return err
	}
	st.push(v)
	return nil
}

func (st *State) index(object, index value.Value) (value.Value, error) {
	if !object.IsArray() {
		return value.Value{}, st.Errorf("attempt to index object of type %s", typeName(object))
	}
	elems := object.AsArray()
	if index.IsInt() {
		i := index.AsInt()
		if i < 0 || int(i) >= len(elems) {
			return value.Value{}, st.Errorf("index out of bounds")
		}
		return elems[i], nil
	}
	if index.IsString() {
		if v, ok := lookupPairs(elems, index.AsString()); ok {
			return v, nil
		}
		return value.Null(), nil
	}
	return value.Value{}, st.Errorf("attempt to index array with %s", typeName(index))
}

// execSet implements SET: pop value, pop key, pop object; object[key] =
// value.
func (st *State) execSet() error {
	v := st.pop()
	key := st.pop()
	object := st.pop()
	if !object.IsArray() {
		return st.Errorf("attempt to index object of type %s", typeName(object))
	}
	elems := object.AsArray()
	if key.IsInt() {
		i := key.AsInt()
		if i < 0 || int(i) >= len(elems) {
			return st.Errorf("index out of bounds")
		}
		elems[i] = v
		return nil
	}
	if key.IsString() {
		if setPairs(elems, key.AsString(), v) {
			return nil
		}
		object.SetArray(append(elems, value.NewString(key.AsString()), v))
		return nil
	}
	return st.Errorf("attempt to index array with %s", typeName(key))
}

// lookupPairs probes a flat (key, value, key, value, ...) array built by
// NEWMAP or CLS for a string key.
func lookupPairs(pairs []value.Value, key string) (value.Value, bool) {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i].IsString() && pairs[i].AsString() == key {
			return pairs[i+1], true
		}
	}
	return value.Value{}, false
}

func setPairs(pairs []value.Value, key string, v value.Value) bool {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i].IsString() && pairs[i].AsString() == key {
			pairs[i+1] = v
			return true
		}
	}
	return false
}

func closureUpvalue(cl value.Value, idx int) *value.Cell {
	upv := cl.ClosureUpvalues()
	if idx < 0 || idx >= len(upv) {
		return value.NewStackCell(0)
	}
	return upv[idx]
}

func (st *State) readCell(c *value.Cell) value.Value {
	if c.IsPromoted() {
		return c.PromotedValue()
	}
	idx, _ := c.StackIndex()
	return st.stack[idx]
}

func (st *State) writeCell(c *value.Cell, v value.Value) {
	if c.IsPromoted() {
		c.SetPromotedValue(v)
		return
	}
	idx, _ := c.StackIndex()
	st.stack[idx] = v
}
