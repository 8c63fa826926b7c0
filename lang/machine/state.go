// Package machine implements the register-less stack virtual machine:
// the dispatch loop, its call-frame discipline, the up-value escape
// mechanism and the mark-sweep collector that together execute the
// prototype trees lang/compiler produces.
package machine

import (
	"github.com/emosaker/leaf/lang/value"
	"github.com/emosaker/leaf/lang/valuemap"
)

const (
	initialStackSize = 256
	globalsCapacity  = 128
	strayCapacity    = 16
)

// State is one leaf virtual machine instance: its operand stack, call
// frames, globals table, stray up-value table and the collector's
// intrusive heap object list. It is single-threaded and cooperative
// (spec.md §5): only the currently-executing frame may mutate the stack
// region above its base, and no operation suspends except from within a
// host closure's own synchronous blocking behavior.
type State struct {
	stack []value.Value
	top   int

	frames []Frame

	Globals *valuemap.Map
	strays  *valuemap.Map

	objHead     value.Value
	hasObjHead  bool
	liveObjects int

	callDepth int
	Errored   bool
}

// NewState creates an empty machine with a fresh stack, globals table and
// stray table, ready to Load and Call a compiled closure.
func NewState() *State {
	return &State{
		stack:   make([]value.Value, initialStackSize),
		Globals: valuemap.New(globalsCapacity),
		strays:  valuemap.New(strayCapacity),
	}
}

// Top reports the current absolute stack top (the number of live values).
func (st *State) Top() int { return st.top }

// grow doubles the stack's backing array until it can hold at least n
// total slots. Cell up-values alias stack slots by absolute index rather
// than by pointer (lang/value.Cell), so growth here never has to rebase
// any live reference -- it is the reason that design was chosen.
func (st *State) grow(n int) {
	if n <= len(st.stack) {
		return
	}
	size := len(st.stack)
	if size == 0 {
		size = initialStackSize
	}
	for size < n {
		size *= 2
	}
	newStack := make([]value.Value, size)
	copy(newStack, st.stack[:st.top])
	st.stack = newStack
}

func (st *State) push(v value.Value) {
	st.grow(st.top + 1)
	st.stack[st.top] = v
	st.top++
}

func (st *State) pop() value.Value {
	st.top--
	v := st.stack[st.top]
	st.stack[st.top] = value.Value{}
	return v
}

func (st *State) popN(n int) []value.Value {
	out := make([]value.Value, n)
	copy(out, st.stack[st.top-n:st.top])
	for i := st.top - n; i < st.top; i++ {
		st.stack[i] = value.Value{}
	}
	st.top -= n
	return out
}

func (st *State) peek(fromTop int) value.Value {
	return st.stack[st.top-1-fromTop]
}

// --- Host API surface (spec.md §4.7) ---

// PushInt, PushFloat, PushString, PushBool, PushNull and PushArray push a
// scalar or heap value of the matching kind. Heap values are tracked so
// the collector's sweep can find them.
func (st *State) PushInt(n int64)      { st.push(value.NewInt(n)) }
func (st *State) PushFloat(f float64)  { st.push(value.NewFloat(f)) }
func (st *State) PushBool(b bool)      { st.push(value.NewBool(b)) }
func (st *State) PushNull()            { st.push(value.Null()) }
func (st *State) PushString(s string)  { st.push(st.allocString(s)) }
func (st *State) PushArray(vs []value.Value) {
	st.push(st.allocArray(vs))
}

// PushValue pushes an already-constructed Value (e.g. the result of
// Load), registering it with the collector if it is heap-allocated and
// not already tracked.
func (st *State) PushValue(v value.Value) {
	if v.HasHeapObj() && !v.IsTracked() {
		v = st.track(v)
	}
	st.push(v)
}

// Pop discards the top value and returns it.
func (st *State) Pop() value.Value { return st.pop() }

// Dup pushes a copy of the value at absolute stack index idx.
func (st *State) Dup(idx int) { st.push(st.stack[idx]) }

// PushLocal pushes a copy of the value at offset relative to the
// currently-executing frame's base.
func (st *State) PushLocal(offset int) {
	st.push(st.stack[st.currentBase()+offset])
}

func (st *State) currentBase() int {
	if len(st.frames) == 0 {
		return 0
	}
	return st.frames[len(st.frames)-1].Base
}

// GetGlobal and SetGlobal access the globals table by string key.
func (st *State) GetGlobal(name string) (value.Value, bool) {
	return st.Globals.Get(value.NewString(name))
}

func (st *State) SetGlobal(name string, v value.Value) {
	if v.HasHeapObj() && !v.IsTracked() {
		v = st.track(v)
	}
	st.Globals.Set(st.allocString(name), v)
}

// RegisterHostClosure installs fn as a global host closure bound to name.
func (st *State) RegisterHostClosure(name string, fn value.HostFunc) {
	st.SetGlobal(name, value.NewHostClosure(name, fn))
}

// Error raises a runtime error with a fixed message.
func (st *State) Error(msg string) error { return newRuntimeError(st, "%s", msg) }

// Errorf raises a runtime error with a formatted message.
func (st *State) Errorf(format string, args ...interface{}) error {
	return newRuntimeError(st, format, args...)
}

// --- typed argument checks for host closures ---

// CheckArgCount raises a runtime error unless args has exactly n elements.
func (st *State) CheckArgCount(fname string, args []value.Value, n int) error {
	if len(args) != n {
		return st.Errorf("%s: expected %d argument(s), got %d", fname, n, len(args))
	}
	return nil
}

func kindName(k value.Kind) string { return k.String() }

// CheckInt validates that args[i] is an integer, returning it.
func (st *State) CheckInt(fname string, args []value.Value, i int) (int64, error) {
	if i >= len(args) || !args[i].IsInt() {
		return 0, st.Errorf("%s: argument %d must be int, got %s", fname, i+1, argKind(args, i))
	}
	return args[i].AsInt(), nil
}

// CheckFloat validates that args[i] is a float (ints are not promoted;
// callers that accept either should check IsInt/IsFloat themselves).
func (st *State) CheckFloat(fname string, args []value.Value, i int) (float64, error) {
	if i >= len(args) || !args[i].IsFloat() {
		return 0, st.Errorf("%s: argument %d must be float, got %s", fname, i+1, argKind(args, i))
	}
	return args[i].AsFloat(), nil
}

// CheckString validates that args[i] is a string, returning it.
func (st *State) CheckString(fname string, args []value.Value, i int) (string, error) {
	if i >= len(args) || !args[i].IsString() {
		return "", st.Errorf("%s: argument %d must be string, got %s", fname, i+1, argKind(args, i))
	}
	return args[i].AsString(), nil
}

// CheckArray validates that args[i] is an array, returning its elements.
func (st *State) CheckArray(fname string, args []value.Value, i int) ([]value.Value, error) {
	if i >= len(args) || !args[i].IsArray() {
		return nil, st.Errorf("%s: argument %d must be array, got %s", fname, i+1, argKind(args, i))
	}
	return args[i].AsArray(), nil
}

func argKind(args []value.Value, i int) string {
	if i >= len(args) {
		return "nothing"
	}
	return kindName(args[i].Kind())
}
