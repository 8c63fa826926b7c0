package machine

import (
	"github.com/emosaker/leaf/lang/value"
	"github.com/emosaker/leaf/lang/valuemap"
)

// Call implements the call protocol of spec.md §4.5: it consumes nargs
// argument values and, below them, a callee from the top of the stack,
// runs it to completion, and leaves nret values on top.
//
// Only the outermost Call installs the error recovery point of spec.md
// §4.5/§9: a runtime error anywhere in the call tree propagates upward as
// an ordinary Go error (an explicit result-returning reshaping of the
// source's long-jump), with no per-frame cleanup along the way. Once it
// reaches the outermost Call, the frame vector is truncated and the stack
// top reset to what it was before the call began, and the state is marked
// errored; intermediate call levels do nothing special.
func (st *State) Call(nargs, nret int) error {
	outermost := st.callDepth == 0
	var baseline int
	if outermost {
		baseline = st.top - nargs - 1
	}
	st.callDepth++
	err := st.call(nargs, nret)
	st.callDepth--

	if err != nil && outermost {
		st.Errored = true
		st.frames = st.frames[:0]
		st.top = baseline
		for i := 0; i < nret; i++ {
			st.push(value.Null())
		}
		st.Collect()
		return err
	}
	if outermost {
		st.Collect()
	}
	return err
}

// Close runs the state-teardown GC step of spec.md §4.6: with the stack,
// frames and globals all cleared, nothing is reachable, so this drains the
// entire intrusive object list. It loops because a single Collect only
// frees what was white at its start -- an array freed on one pass may
// have been the only thing keeping its own elements' objects gray-rooted
// the pass before, though since nothing is reachable from an empty root
// set, one pass always empties the list; the loop is the documented
// "until both the gray set and the object list are empty" guarantee made
// explicit rather than assumed.
func (st *State) Close() {
	st.top = 0
	st.frames = st.frames[:0]
	st.Globals = valuemap.New(globalsCapacity)
	st.strays = valuemap.New(strayCapacity)
	for st.liveObjects > 0 {
		st.Collect()
	}
}

// call performs one invocation: marshal arguments into the callee's
// window, dispatch (language closure) or invoke directly (host closure),
// then restore the caller's stack shape with nret return values on top.
func (st *State) call(nargs, nret int) error {
	calleeIdx := st.top - nargs - 1
	if calleeIdx < 0 {
		return st.Errorf("stack underflow in call")
	}
	callee := st.stack[calleeIdx]
	if !callee.IsClosure() {
		return st.Errorf("attempt to call object of type %s", typeName(callee))
	}

	// Shift the arguments down over the callee's own slot so they land
	// contiguously at the new frame's base -- spec.md §4.5's "re-pushed
	// onto the new base window" without the redundant array round-trip
	// the reference implementation uses (see DESIGN.md).
	copy(st.stack[calleeIdx:calleeIdx+nargs], st.stack[calleeIdx+1:calleeIdx+1+nargs])
	st.stack[calleeIdx+nargs] = value.Value{}
	st.top--
	base := calleeIdx

	if fn, ok := callee.ClosureHost(); ok {
		args := make([]value.Value, nargs)
		copy(args, st.stack[base:base+nargs])
		st.top = base
		st.frames = append(st.frames, Frame{Closure: callee, Base: base})
		rets, err := fn(args)
		st.frames = st.frames[:len(st.frames)-1]
		if err != nil {
			return err
		}
		// A host closure may construct a heap value outside of the
		// PushInt/PushArray surface (e.g. value.NewString directly) and
		// return it without ever pushing it through the tracked API; bring
		// it under the collector's intrusive list now, before it reaches
		// the stack, so a later Collect can find and eventually free it.
		for i, v := range rets {
			if v.HasHeapObj() && !v.IsTracked() {
				rets[i] = st.track(v)
			}
		}
		st.finishReturn(base, rets, nret)
		return nil
	}

	proto, _ := callee.ClosureProto()
	if nargs != proto.NumParams() {
		return st.Errorf("%s: expected %d argument(s), got %d", proto.ProtoName(), proto.NumParams(), nargs)
	}

	st.frames = append(st.frames, Frame{Closure: callee, Base: base})
	rets, err := st.run()
	st.frames = st.frames[:len(st.frames)-1]
	if err != nil {
		return err
	}
	st.top = base
	st.finishReturn(base, rets, nret)
	return nil
}

// finishReturn discards whatever the callee left above its base and
// pushes exactly nret values: rets padded with null if it returned fewer,
// truncated if it returned more.
func (st *State) finishReturn(base int, rets []value.Value, nret int) {
	st.top = base
	for i := 0; i < nret; i++ {
		if i < len(rets) {
			st.push(rets[i])
		} else {
			st.push(value.Null())
		}
	}
}

// promoteEscaping implements the up-value escape rule of spec.md §4.5/§9:
// before a frame's return values are handed back to the caller, any
// language closure among them whose up-value cells still alias this
// frame's stack window must have those cells copied onto the heap, with
// the closure rewritten to reference the heap copy and that copy kept
// alive via the strays table for as long as the closure is reachable.
func (st *State) promoteEscaping(base int, rets []value.Value) {
	seen := make(map[value.Value]bool, len(rets))
	for _, v := range rets {
		st.promoteValue(base, v, seen)
	}
}

// promoteValue walks v looking for escaping closures, recursing into arrays
// so a closure returned inside an array (or nested arrays/class instances,
// which share the array representation) gets its up-values promoted just
// like one returned directly. seen guards against revisiting the same
// array twice when it is reachable through more than one path in rets.
func (st *State) promoteValue(base int, v value.Value, seen map[value.Value]bool) {
	switch {
	case v.IsClosure():
		if _, isHost := v.ClosureHost(); isHost {
			return
		}
		upv := v.ClosureUpvalues()
		var promoted []value.Value
		for _, cell := range upv {
			idx, ok := cell.StackIndex()
			if !ok || idx < base {
				continue
			}
			val := st.stack[idx]
			promoted = append(promoted, val)
			cell.Promote(val)
		}
		if len(promoted) > 0 {
			st.strays.Set(v, st.allocArray(promoted))
		}
	case v.IsArray():
		if seen[v] {
			return
		}
		seen[v] = true
		for _, elem := range v.AsArray() {
			st.promoteValue(base, elem, seen)
		}
	}
}
