package machine

import (
	"github.com/emosaker/leaf/lang/compiler"
	"github.com/emosaker/leaf/lang/value"
)

// Frame is one activation record on the call-frame stack. Base is the
// absolute stack index of the frame's first local (its parameters); it
// doubles as the stack position the caller's top is restored to once this
// frame returns, since the callee's window occupies exactly the slots the
// call instruction's callee and arguments vacated. IP is the index of the
// instruction currently executing in Closure's prototype, updated at every
// CALL so an error can reconstruct a traceback from the frame vector.
type Frame struct {
	Closure value.Value
	Base    int
	IP      int

	// cells caches the up-value Cell created for each captured stack
	// index in this frame, keyed by absolute stack index. Two sibling
	// closures that both capture the same outer local share the same
	// *value.Cell instance, so promoting it once (on return) keeps
	// writes visible through every closure that captured it -- per
	// spec.md §9's up-value escape invariant.
	cells map[int]*value.Cell
}

// cellFor returns the shared Cell aliasing absolute stack index idx,
// creating it on first capture.
func (f *Frame) cellFor(idx int) *value.Cell {
	if f.cells == nil {
		f.cells = make(map[int]*value.Cell)
	}
	if c, ok := f.cells[idx]; ok {
		return c
	}
	c := value.NewStackCell(idx)
	f.cells[idx] = c
	return c
}

// proto returns the concrete prototype backing a language-closure frame.
// Every Prototype value the compiler produces is a *compiler.Prototype, so
// this type assertion is safe for any frame whose closure is not a host
// closure.
func (f *Frame) proto() *compiler.Prototype {
	p, _ := f.Closure.ClosureProto()
	cp, _ := p.(*compiler.Prototype)
	return cp
}

// line reports the source line the frame is currently executing, for
// tracebacks.
func (f *Frame) line() int {
	p := f.proto()
	if p == nil || f.IP < 0 || f.IP >= len(p.Lines) {
		return 0
	}
	return p.Lines[f.IP]
}
