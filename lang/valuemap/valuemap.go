// Package valuemap implements the value-keyed hash table used for leaf's
// globals table and for the machine's stray upvalue table. Keys are
// compared and hashed by leaf's own value equality rules, not Go's
// structural equality, so it is hand-rolled rather than built on a
// general-purpose generic map: ints hash to themselves, bools to 0/1,
// strings by a content hash over their bytes, closures by identity, and
// null to 0; equality matches by kind and then by content except for
// closures, which compare by identity.
package valuemap

import "github.com/emosaker/leaf/lang/value"

type bucket struct {
	key  value.Value
	val  value.Value
	next *bucket
}

// Map is a chained-bucket hash table keyed by value.Value.
type Map struct {
	buckets []*bucket
	count   int
}

// New creates a Map with capacity buckets. It grows once an insert would
// push the entry count past 0.75 times the bucket count.
func New(capacity int) *Map {
	if capacity < 1 {
		capacity = 1
	}
	return &Map{buckets: make([]*bucket, capacity)}
}

// Len reports the number of entries currently stored.
func (m *Map) Len() int { return m.count }

// Hash computes leaf's value hash for a key.
func Hash(v value.Value) uint64 {
	switch v.Kind() {
	case value.Int:
		return uint64(v.AsInt())
	case value.Bool:
		if v.AsBool() {
			return 1
		}
		return 0
	case value.Null:
		return 0
	case value.String:
		return hashBytes(v.AsString())
	case value.Closure, value.Array:
		return uint64(v.Identity())
	case value.Float:
		return uint64(v.AsFloat())
	}
	return 0
}

func hashBytes(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = 31*h + uint64(s[i])
	}
	return h
}

// Equal implements leaf's value equality for map keys: kind must match,
// then scalars and strings compare by content while closures compare by
// identity.
func Equal(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.Null:
		return true
	case value.Int:
		return a.AsInt() == b.AsInt()
	case value.Bool:
		return a.AsBool() == b.AsBool()
	case value.String:
		return a.AsString() == b.AsString()
	case value.Closure, value.Array:
		return a.Identity() == b.Identity()
	case value.Float:
		return a.AsFloat() == b.AsFloat()
	}
	return false
}

const maxLoadFactor = 0.75

// Set inserts or overwrites the entry for key.
func (m *Map) Set(key, val value.Value) {
	if float64(m.count+1) > maxLoadFactor*float64(len(m.buckets)) {
		m.grow()
	}
	idx := Hash(key) % uint64(len(m.buckets))
	for b := m.buckets[idx]; b != nil; b = b.next {
		if Equal(b.key, key) {
			b.val = val
			return
		}
	}
	m.buckets[idx] = &bucket{key: key, val: val, next: m.buckets[idx]}
	m.count++
}

// Get looks up key, reporting whether it was present.
func (m *Map) Get(key value.Value) (value.Value, bool) {
	if len(m.buckets) == 0 {
		return value.Value{}, false
	}
	idx := Hash(key) % uint64(len(m.buckets))
	for b := m.buckets[idx]; b != nil; b = b.next {
		if Equal(b.key, key) {
			return b.val, true
		}
	}
	return value.Value{}, false
}

// Delete removes key, reporting whether it was present.
func (m *Map) Delete(key value.Value) bool {
	if len(m.buckets) == 0 {
		return false
	}
	idx := Hash(key) % uint64(len(m.buckets))
	var prev *bucket
	for b := m.buckets[idx]; b != nil; b = b.next {
		if Equal(b.key, key) {
			if prev == nil {
				m.buckets[idx] = b.next
			} else {
				prev.next = b.next
			}
			m.count--
			return true
		}
		prev = b
	}
	return false
}

func (m *Map) grow() {
	newBuckets := make([]*bucket, len(m.buckets)*2)
	for _, head := range m.buckets {
		for b := head; b != nil; {
			next := b.next
			idx := Hash(b.key) % uint64(len(newBuckets))
			b.next = newBuckets[idx]
			newBuckets[idx] = b
			b = next
		}
	}
	m.buckets = newBuckets
}

// Each calls fn for every entry. fn must not mutate the map.
func (m *Map) Each(fn func(key, val value.Value)) {
	for _, head := range m.buckets {
		for b := head; b != nil; b = b.next {
			fn(b.key, b.val)
		}
	}
}

// Clone returns a shallow copy of m with its own bucket array.
func (m *Map) Clone() *Map {
	out := New(len(m.buckets))
	m.Each(func(k, v value.Value) { out.Set(k, v) })
	return out
}
