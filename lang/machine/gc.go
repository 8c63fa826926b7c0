package machine

import "github.com/emosaker/leaf/lang/value"

// track prepends a freshly allocated heap value to the collector's
// intrusive object list so a later sweep can find and free it once it
// becomes unreachable.
func (st *State) track(v value.Value) value.Value {
	if st.hasObjHead {
		v.SetNext(st.objHead)
	}
	st.objHead = v
	st.hasObjHead = true
	st.liveObjects++
	v.MarkTracked()
	return v
}

func (st *State) allocString(s string) value.Value             { return st.track(value.NewString(s)) }
func (st *State) allocArray(vs []value.Value) value.Value      { return st.track(value.NewArray(vs)) }
func (st *State) allocClosure(proto value.Prototype, upv []*value.Cell) value.Value {
	return st.track(value.NewClosure(proto, upv))
}
func (st *State) allocHostClosure(name string, fn value.HostFunc) value.Value {
	return st.track(value.NewHostClosure(name, fn))
}

// Collect runs one full tri-color mark-sweep cycle (spec.md §4.6). It is
// not incremental: every call walks the entire stack, globals table and
// stray table before sweeping the intrusive object list.
func (st *State) Collect() {
	var gray []value.Value
	mark := func(v value.Value) {
		if !v.HasHeapObj() || !v.IsWhite() {
			return
		}
		v.MarkGray()
		if v.Kind() == value.Array || v.Kind() == value.Closure {
			gray = append(gray, v)
		} else {
			v.MarkBlack()
		}
	}
	drain := func() {
		for len(gray) > 0 {
			v := gray[len(gray)-1]
			gray = gray[:len(gray)-1]
			for _, child := range v.Children() {
				mark(child)
			}
			v.MarkBlack()
		}
	}

	// 1. the live stack.
	for i := 0; i < st.top; i++ {
		mark(st.stack[i])
	}
	// frames' closures are normally also on the stack, but mark them
	// directly too: a closure mid-call sits in the frame vector even if a
	// host closure temporarily popped it off the operand stack.
	for i := range st.frames {
		mark(st.frames[i].Closure)
	}
	// 2. globals.
	st.Globals.Each(func(k, v value.Value) {
		mark(k)
		mark(v)
	})
	drain()

	// 3. already folded into mark/drain above.

	// 4. strays: drop entries whose key-closure didn't survive marking,
	// keep the promoted up-value array of survivors alive.
	var dead []value.Value
	st.strays.Each(func(k, v value.Value) {
		if k.IsWhite() {
			dead = append(dead, k)
			return
		}
		mark(v)
	})
	drain()
	for _, k := range dead {
		st.strays.Delete(k)
	}

	// 5. sweep the intrusive object list.
	st.sweep()
}

// sweep walks the intrusive object list, freeing every white object and
// resetting survivors to white for the next cycle.
func (st *State) sweep() {
	if !st.hasObjHead {
		return
	}
	var newHead, tail value.Value
	hasNewHead := false
	v := st.objHead
	for {
		next, hasNext := v.Next()
		if v.IsWhite() {
			v.Destroy()
			st.liveObjects--
		} else {
			v.ResetWhite()
			v.SetNext(value.Value{})
			if !hasNewHead {
				newHead = v
				hasNewHead = true
				tail = v
			} else {
				tail.SetNext(v)
				tail = v
			}
		}
		if !hasNext {
			break
		}
		v = next
	}
	st.objHead = newHead
	st.hasObjHead = hasNewHead
}

// LiveObjects reports how many heap objects the collector currently
// tracks, for tests and diagnostics.
func (st *State) LiveObjects() int { return st.liveObjects }
