package jsondoc

import (
	"iter"

	"github.com/cybergodev/jsondoc/internal"
)

type pair struct {
	key  string
	hash uint64
	val  Value
	link internal.Link
}

// objPayload keeps the pairs densely packed; the table chains them by index
type objPayload struct {
	refs  int
	pairs []pair
	table internal.Table
}

func (p *objPayload) Link(i int) *internal.Link { return &p.pairs[i].link }
func (p *objPayload) Hash(i int) uint64         { return p.pairs[i].hash }
func (p *objPayload) Equal(i, j int) bool       { return p.pairs[i].key == p.pairs[j].key }

func (p *objPayload) clone() *objPayload {
	pairs := make([]pair, len(p.pairs), cap(p.pairs))
	for i := range p.pairs {
		pairs[i] = p.pairs[i]
		pairs[i].val = p.pairs[i].val.Copy()
	}
	return &objPayload{refs: 1, pairs: pairs, table: p.table.Clone()}
}

func (p *objPayload) release() {
	for i := range p.pairs {
		p.pairs[i].val.Release()
	}
	p.pairs = nil
	p.table.Reset()
}

func (p *objPayload) find(key string) int {
	if p == nil {
		return -1
	}
	h := internal.HashString(key)
	return p.table.Find(p, h, func(i int) bool { return p.pairs[i].key == key })
}

func (p *objPayload) reserve(n int) {
	if n > cap(p.pairs) {
		pairs := make([]pair, len(p.pairs), internal.GrowCapacity(cap(p.pairs), n))
		copy(pairs, p.pairs)
		p.pairs = pairs
	}
	if n > p.table.Buckets() {
		p.table.Rehash(p, n)
	}
}

func (p *objPayload) push(key string, v Value) int {
	p.reserve(len(p.pairs) + 1)
	p.pairs = append(p.pairs, pair{key: key, hash: internal.HashString(key), val: v})
	return len(p.pairs) - 1
}

// compact fills the hole at slot i, already unlinked, with the last pair
func (p *objPayload) compact(i int) {
	last := len(p.pairs) - 1
	if i != last {
		p.pairs[i] = p.pairs[last]
		p.table.Move(p, last, i)
	}
	p.pairs[last] = pair{}
	p.pairs = p.pairs[:last]
}

// assign links v under key, replacing and releasing any previous value
func (p *objPayload) assign(key string, v Value) {
	n := p.push(key, v)
	old := p.table.Assign(p, n, func(old int) {
		p.pairs[old].val.Release()
	})
	if old >= 0 {
		p.compact(old)
	}
}

// Object is a copy-on-write map from string keys to Values. Iteration
// follows hash bucket order, not insertion order. The zero value is empty
// and allocates nothing until the first mutation.
type Object struct {
	p        *objPayload
	borrowed bool
}

func (o *Object) own() *objPayload {
	switch {
	case o.p == nil:
		o.p = &objPayload{refs: 1}
	case o.borrowed:
		o.p = o.p.clone()
		o.borrowed = false
	case o.p.refs > 1:
		o.p.refs--
		o.p = o.p.clone()
	}
	return o.p
}

func (o *Object) leak() *objPayload {
	p := o.own()
	p.refs = ReferLeaked
	return p
}

// Set stores a shared copy of v under key. It fails, leaving the object
// untouched, when key is already present.
func (o *Object) Set(key string, v Value) bool {
	if o.p.find(key) >= 0 {
		return false
	}
	c := v.Copy()
	p := o.own()
	p.table.Insert(p, p.push(key, c))
	return true
}

// Assign stores a shared copy of v under key, replacing any previous value
func (o *Object) Assign(key string, v Value) {
	c := v.Copy()
	o.own().assign(key, c)
}

// adopt stores v under key without taking another share
func (o *Object) adopt(key string, v Value) {
	o.own().assign(key, v)
}

// Unset removes key and reports whether it was present
func (o *Object) Unset(key string) bool {
	i := o.p.find(key)
	if i < 0 {
		return false
	}
	p := o.own()
	p.table.Erase(p, i)
	p.pairs[i].val.Release()
	p.compact(i)
	return true
}

// Get returns a borrowed view of the value under key, or null
func (o Object) Get(key string) Value {
	v, _ := o.Lookup(key)
	return v
}

// Lookup returns a borrowed view of the value under key and whether it exists
func (o Object) Lookup(key string) (Value, bool) {
	i := o.p.find(key)
	if i < 0 {
		return Value{}, false
	}
	return o.p.pairs[i].val.view(), true
}

// Has reports whether key is present
func (o Object) Has(key string) bool {
	return o.p.find(key) >= 0
}

// MutGet returns a pointer to the value under key, or nil when missing
func (o *Object) MutGet(key string) *Value {
	i := o.p.find(key)
	if i < 0 {
		return nil
	}
	return &o.leak().pairs[i].val
}

// Touch returns a pointer to the value under key, inserting null first when
// the key is missing
func (o *Object) Touch(key string) *Value {
	i := o.p.find(key)
	if i < 0 {
		p := o.own()
		i = p.push(key, Value{})
		p.table.Insert(p, i)
	}
	return &o.leak().pairs[i].val
}

// Reserve grows pair capacity and bucket count for n entries. It never
// shrinks.
func (o *Object) Reserve(n int) {
	o.own().reserve(n)
}

// Clear removes every entry, keeping capacity
func (o *Object) Clear() {
	if o.p == nil {
		return
	}
	p := o.own()
	for i := range p.pairs {
		p.pairs[i].val.Release()
		p.pairs[i] = pair{}
	}
	p.pairs = p.pairs[:0]
	p.table.Reset()
}

// Len returns the number of entries
func (o Object) Len() int {
	if o.p == nil {
		return 0
	}
	return len(o.p.pairs)
}

// Capacity returns the number of allocated pair slots
func (o Object) Capacity() int {
	if o.p == nil {
		return 0
	}
	return cap(o.p.pairs)
}

// IsEmpty reports whether the object has no entries
func (o Object) IsEmpty() bool {
	return o.Len() == 0
}

// Keys returns the keys in iteration order
func (o Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for k := range o.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates keys and borrowed values in bucket order
func (o Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		p := o.p
		if p == nil {
			return
		}
		p.table.Each(p, func(i int) bool {
			return yield(p.pairs[i].key, p.pairs[i].val.view())
		})
	}
}

// Backward iterates in the exact reverse of All
func (o Object) Backward() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		p := o.p
		if p == nil {
			return
		}
		p.table.EachReverse(p, func(i int) bool {
			return yield(p.pairs[i].key, p.pairs[i].val.view())
		})
	}
}

// MutAll iterates keys and pointers to values in bucket order. Keys must
// not be added or removed during the loop.
func (o *Object) MutAll() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		if o.Len() == 0 {
			return
		}
		p := o.leak()
		p.table.Each(p, func(i int) bool {
			return yield(p.pairs[i].key, &p.pairs[i].val)
		})
	}
}

// Equal reports whether both objects hold the same keys with tag-exact
// equal values
func (o Object) Equal(other Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	if o.Len() == 0 || o.p == other.p {
		return true
	}
	for i := range o.p.pairs {
		j := other.p.find(o.p.pairs[i].key)
		if j < 0 || !o.p.pairs[i].val.Equal(other.p.pairs[j].val) {
			return false
		}
	}
	return true
}

// Merge folds other into the object. Keys only in other are added, keys
// holding objects on both sides merge recursively, and any other shared key
// takes other's value. Keys only in the receiver are kept.
func (o *Object) Merge(other Object) {
	if other.Len() == 0 || o.p == other.p {
		return
	}
	src := other.p
	p := o.own()
	for i := range src.pairs {
		key, val := src.pairs[i].key, src.pairs[i].val
		j := p.find(key)
		if j >= 0 && p.pairs[j].val.t == TypeObject && val.t == TypeObject {
			p.pairs[j].val.o.Merge(val.o)
			continue
		}
		p.assign(key, val.Copy())
	}
}

// Copy returns a handle sharing the payload. A leaked payload is cloned
// instead.
func (o Object) Copy() Object {
	if o.p == nil {
		return Object{}
	}
	if o.p.refs == ReferLeaked {
		return Object{p: o.p.clone()}
	}
	o.p.refs++
	return Object{p: o.p}
}

// Clone returns a deep copy that shares nothing. The bucket layout is
// copied as is, so the clone iterates in the same order.
func (o Object) Clone() Object {
	if o.Len() == 0 {
		return Object{}
	}
	src := o.p
	pairs := make([]pair, len(src.pairs), cap(src.pairs))
	for i := range src.pairs {
		pairs[i] = src.pairs[i]
		pairs[i].val = src.pairs[i].val.Clone()
	}
	return Object{p: &objPayload{refs: 1, pairs: pairs, table: src.table.Clone()}}
}

// Release drops this handle's share. The last holder releases the values.
func (o *Object) Release() {
	if o.p != nil && !o.borrowed {
		if o.p.refs > 1 {
			o.p.refs--
		} else {
			o.p.release()
		}
	}
	*o = Object{}
}

// Refer reports the share state of the payload: -1 without a payload, 0
// once leaked, otherwise the number of holders
func (o Object) Refer() int {
	if o.p == nil {
		return ReferNone
	}
	return o.p.refs
}

func (o Object) view() Object {
	o.borrowed = true
	return o
}
