package value

import "unsafe"

// HasHeapObj reports whether v is heap-allocated (string, array or closure)
// and therefore participates in garbage collection.
func (v Value) HasHeapObj() bool { return v.obj != nil }

// IsTracked reports whether v has already been linked into the collector's
// intrusive object list. A heap value constructed directly (bypassing the
// machine's track helper) reports false until something tracks it.
func (v Value) IsTracked() bool { return v.obj != nil && v.obj.tracked }

// MarkTracked records that v has been linked into the collector's
// intrusive object list.
func (v Value) MarkTracked() {
	if v.obj != nil {
		v.obj.tracked = true
	}
}

func (v Value) IsWhite() bool { return v.obj != nil && v.obj.mark == white }
func (v Value) IsGray() bool  { return v.obj != nil && v.obj.mark == gray }
func (v Value) IsBlack() bool { return v.obj != nil && v.obj.mark == black }

// MarkGray moves a white object to gray, queuing it for child traversal.
// It is a no-op for scalars and objects already gray or black.
func (v Value) MarkGray() {
	if v.obj != nil && v.obj.mark == white {
		v.obj.mark = gray
	}
}

// MarkBlack finalizes a gray object as reachable.
func (v Value) MarkBlack() {
	if v.obj != nil {
		v.obj.mark = black
	}
}

// ResetWhite prepares a surviving object for the next collection cycle.
func (v Value) ResetWhite() {
	if v.obj != nil {
		v.obj.mark = white
	}
}

// Children returns the Values directly reachable from v: an array's
// elements, or a language closure's promoted up-value cells. Cells that
// have not yet been promoted alias a slot in a still-live call frame's
// stack window, so they are already covered by the collector's stack walk
// and are skipped here. Host closures and strings have no children.
func (v Value) Children() []Value {
	if v.obj == nil {
		return nil
	}
	switch v.obj.kind {
	case Array:
		return v.obj.arr
	case Closure:
		if len(v.obj.upv) == 0 {
			return nil
		}
		var out []Value
		for _, cell := range v.obj.upv {
			if cell.IsPromoted() {
				out = append(out, cell.PromotedValue())
			}
		}
		return out
	}
	return nil
}

// Next returns the following object in the collector's intrusive object
// list, if any.
func (v Value) Next() (Value, bool) {
	if v.obj == nil || v.obj.next == nil {
		return Value{}, false
	}
	n := v.obj.next
	return Value{kind: n.kind, obj: n}, true
}

// SetNext links v to next in the collector's intrusive object list.
func (v Value) SetNext(next Value) {
	if v.obj == nil {
		return
	}
	v.obj.next = next.obj
}

// Destroy releases the payload owned by a heap object: a closure's
// prototype reference and upvalues, an array's element buffer, or a
// string's byte payload. Called by the collector's sweep phase on every
// object found white.
func (v Value) Destroy() {
	if v.obj == nil {
		return
	}
	v.obj.str = ""
	v.obj.arr = nil
	v.obj.proto = nil
	v.obj.upv = nil
	v.obj.host = nil
}

// Identity returns a stable identity for a heap-allocated value, used by
// the value map to hash and compare closures by reference rather than by
// content.
func (v Value) Identity() uintptr {
	return uintptr(unsafe.Pointer(v.obj))
}
