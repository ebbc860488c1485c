package jsondoc

import (
	"iter"

	"github.com/cybergodev/jsondoc/internal"
)

type arrPayload struct {
	refs  int
	items []Value
}

// clone copies the element slots; the elements themselves are shared
func (p *arrPayload) clone() *arrPayload {
	items := make([]Value, len(p.items), cap(p.items))
	for i := range p.items {
		items[i] = p.items[i].Copy()
	}
	return &arrPayload{refs: 1, items: items}
}

func (p *arrPayload) release() {
	for i := range p.items {
		p.items[i].Release()
	}
	p.items = nil
}

// Array is a copy-on-write sequence of Values. The zero value is empty and
// allocates nothing until the first mutation.
//
// Read accessors return borrowed views that stay valid until the array is
// next modified. Mutable accessors unshare the payload first and mark it
// leaked, so a later Copy clones instead of sharing.
type Array struct {
	p        *arrPayload
	borrowed bool
}

// ArrayOf returns an array holding shared copies of vals
func ArrayOf(vals ...Value) Array {
	var a Array
	if len(vals) > 0 {
		a.Reserve(len(vals))
	}
	for _, v := range vals {
		a.Append(v)
	}
	return a
}

func (a *Array) own() *arrPayload {
	switch {
	case a.p == nil:
		a.p = &arrPayload{refs: 1}
	case a.borrowed:
		a.p = a.p.clone()
		a.borrowed = false
	case a.p.refs > 1:
		a.p.refs--
		a.p = a.p.clone()
	}
	return a.p
}

// leak unshares the payload and marks it as having handed out a pointer
func (a *Array) leak() *arrPayload {
	p := a.own()
	p.refs = ReferLeaked
	return p
}

func (p *arrPayload) reserve(n int) {
	if n <= cap(p.items) {
		return
	}
	items := make([]Value, len(p.items), internal.GrowCapacity(cap(p.items), n))
	copy(items, p.items)
	p.items = items
}

// Reserve grows capacity to hold at least n elements. It never shrinks.
func (a *Array) Reserve(n int) {
	a.own().reserve(n)
}

// Append stores a shared copy of v at the end
func (a *Array) Append(v Value) {
	c := v.Copy()
	a.adopt(c)
}

// Push is Append
func (a *Array) Push(v Value) {
	a.Append(v)
}

// adopt stores v without taking another share
func (a *Array) adopt(v Value) {
	p := a.own()
	p.reserve(len(p.items) + 1)
	p.items = append(p.items, v)
}

// Pop removes the last element and hands its share to the caller
func (a *Array) Pop() Value {
	if a.Len() == 0 {
		return Value{}
	}
	p := a.own()
	last := len(p.items) - 1
	v := p.items[last]
	p.items[last] = Value{}
	p.items = p.items[:last]
	return v
}

// Resize sets the length to n, filling new slots with null
func (a *Array) Resize(n int) {
	a.ResizeWith(n, Value{})
}

// ResizeWith sets the length to n, filling new slots with shared copies of
// fill. Shrinking releases the dropped elements and keeps capacity.
func (a *Array) ResizeWith(n int, fill Value) {
	if n < 0 {
		n = 0
	}
	p := a.own()
	if n <= len(p.items) {
		for i := n; i < len(p.items); i++ {
			p.items[i].Release()
		}
		p.items = p.items[:n]
		return
	}
	p.reserve(n)
	for len(p.items) < n {
		p.items = append(p.items, fill.Copy())
	}
}

// Clear drops every element, keeping capacity
func (a *Array) Clear() {
	if a.p == nil {
		return
	}
	a.Resize(0)
}

// Len returns the number of elements
func (a Array) Len() int {
	if a.p == nil {
		return 0
	}
	return len(a.p.items)
}

// Capacity returns the number of allocated slots
func (a Array) Capacity() int {
	if a.p == nil {
		return 0
	}
	return cap(a.p.items)
}

// IsEmpty reports whether the array has no elements
func (a Array) IsEmpty() bool {
	return a.Len() == 0
}

// At returns a borrowed view of element i, or null when out of range
func (a Array) At(i int) Value {
	if i < 0 || i >= a.Len() {
		return Value{}
	}
	return a.p.items[i].view()
}

// Front returns a borrowed view of the first element
func (a Array) Front() Value {
	return a.At(0)
}

// Back returns a borrowed view of the last element
func (a Array) Back() Value {
	return a.At(a.Len() - 1)
}

// MutAt returns a pointer to element i, or nil when out of range
func (a *Array) MutAt(i int) *Value {
	if i < 0 || i >= a.Len() {
		return nil
	}
	return &a.leak().items[i]
}

// MutFront returns a pointer to the first element, or nil
func (a *Array) MutFront() *Value {
	return a.MutAt(0)
}

// MutBack returns a pointer to the last element, or nil
func (a *Array) MutBack() *Value {
	return a.MutAt(a.Len() - 1)
}

// All iterates index and borrowed element in order
func (a Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i := 0; i < a.Len(); i++ {
			if !yield(i, a.p.items[i].view()) {
				return
			}
		}
	}
}

// Backward iterates from the last element to the first
func (a Array) Backward() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i := a.Len() - 1; i >= 0; i-- {
			if !yield(i, a.p.items[i].view()) {
				return
			}
		}
	}
}

// MutAll iterates pointers to the elements. The array must not change
// length during the loop.
func (a *Array) MutAll() iter.Seq2[int, *Value] {
	return func(yield func(int, *Value) bool) {
		if a.Len() == 0 {
			return
		}
		p := a.leak()
		for i := range p.items {
			if !yield(i, &p.items[i]) {
				return
			}
		}
	}
}

// Equal compares element by element with tag-exact equality
func (a Array) Equal(other Array) bool {
	n := a.Len()
	if n != other.Len() {
		return false
	}
	if n == 0 || a.p == other.p {
		return true
	}
	for i := 0; i < n; i++ {
		if !a.p.items[i].Equal(other.p.items[i]) {
			return false
		}
	}
	return true
}

// Merge folds other into the array index by index. The receiver is padded
// with nulls up to other's length, then each slot merges with the element
// of other at the same index. Extra receiver elements are kept.
func (a *Array) Merge(other Array) {
	if other.Len() == 0 || a.p == other.p {
		return
	}
	src := other.p
	p := a.own()
	if len(p.items) < len(src.items) {
		a.Resize(len(src.items))
		p = a.p
	}
	for i := range src.items {
		p.items[i].Merge(src.items[i])
	}
}

// Copy returns a handle sharing the payload. A leaked payload is cloned
// instead.
func (a Array) Copy() Array {
	if a.p == nil {
		return Array{}
	}
	if a.p.refs == ReferLeaked {
		return Array{p: a.p.clone()}
	}
	a.p.refs++
	return Array{p: a.p}
}

// Clone returns a deep copy that shares nothing
func (a Array) Clone() Array {
	var r Array
	if a.Len() == 0 {
		return r
	}
	r.Reserve(a.Len())
	for _, v := range a.p.items {
		r.adopt(v.Clone())
	}
	return r
}

// Release drops this handle's share. The last holder releases the elements.
func (a *Array) Release() {
	if a.p != nil && !a.borrowed {
		if a.p.refs > 1 {
			a.p.refs--
		} else {
			a.p.release()
		}
	}
	*a = Array{}
}

// Refer reports the share state of the payload: -1 without a payload, 0
// once leaked, otherwise the number of holders
func (a Array) Refer() int {
	if a.p == nil {
		return ReferNone
	}
	return a.p.refs
}

func (a Array) view() Array {
	a.borrowed = true
	return a
}
