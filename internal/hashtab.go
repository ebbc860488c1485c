package internal

// ============================================================================
// INTRUSIVE HASH TABLE
// Elements live in a caller-owned arena and are addressed by index. The table
// only owns the bucket heads; chains are threaded through the Link embedded
// in every element, so insert and erase never allocate.
// ============================================================================

// nilIndex marks an empty bucket or the end of a chain
const nilIndex = -1

// Link is the chain node embedded in every element
type Link struct {
	next int
}

// Next returns the index of the following element in the chain, or -1
func (l *Link) Next() int {
	return l.next
}

// Chain gives the table access to the caller's arena
type Chain interface {
	// Link returns the embedded link of element i
	Link(i int) *Link
	// Hash returns the cached hash of element i
	Hash(i int) uint64
	// Equal reports whether elements i and j carry the same key
	Equal(i, j int) bool
}

// bucketPrimes are the bucket counts the table grows through
var bucketPrimes = [...]int{
	53, 97, 193, 389, 769, 1543, 3079, 6151, 12289, 24593,
	49157, 98317, 196613, 393241, 786433, 1572869, 3145739, 6291469,
	12582917, 25165843, 50331653, 100663319, 201326611, 402653189,
	805306457, 1610612741,
}

// NextPrime returns the smallest bucket count not below n
func NextPrime(n int) int {
	for _, p := range bucketPrimes {
		if p >= n {
			return p
		}
	}
	return bucketPrimes[len(bucketPrimes)-1]
}

// HashString hashes a key with the h = h*131 + c recurrence, seeded with 1
func HashString(s string) uint64 {
	h := uint64(1)
	for i := 0; i < len(s); i++ {
		h = h*131 + uint64(s[i])
	}
	return h
}

// Table is an open-chained hash table over an external arena
type Table struct {
	buckets []int
	count   int
}

// Len returns the number of linked elements
func (t *Table) Len() int {
	return t.count
}

// Buckets returns the current bucket count
func (t *Table) Buckets() int {
	return len(t.buckets)
}

// Clone returns a table with its own bucket array. The arena must be cloned
// alongside it with indices preserved.
func (t *Table) Clone() Table {
	if t.buckets == nil {
		return Table{}
	}
	b := make([]int, len(t.buckets))
	copy(b, t.buckets)
	return Table{buckets: b, count: t.count}
}

// Reset drops every chain without touching the arena
func (t *Table) Reset() {
	t.buckets = nil
	t.count = 0
}

func (t *Table) bucket(h uint64) int {
	return int(h % uint64(len(t.buckets)))
}

func (t *Table) init(n int) {
	t.buckets = make([]int, NextPrime(n))
	for i := range t.buckets {
		t.buckets[i] = nilIndex
	}
}

// Find walks the chain for hash h and returns the first index accepted by
// match, or -1
func (t *Table) Find(c Chain, h uint64, match func(i int) bool) int {
	if t.count == 0 {
		return nilIndex
	}
	for i := t.buckets[t.bucket(h)]; i != nilIndex; i = c.Link(i).next {
		if c.Hash(i) == h && match(i) {
			return i
		}
	}
	return nilIndex
}

// lookup returns the element equal to i, or -1
func (t *Table) lookup(c Chain, i int) int {
	if t.count == 0 {
		return nilIndex
	}
	h := c.Hash(i)
	for j := t.buckets[t.bucket(h)]; j != nilIndex; j = c.Link(j).next {
		if j != i && c.Hash(j) == h && c.Equal(i, j) {
			return j
		}
	}
	return nilIndex
}

func (t *Table) link(c Chain, i int) {
	b := t.bucket(c.Hash(i))
	c.Link(i).next = t.buckets[b]
	t.buckets[b] = i
	t.count++
	if t.count > len(t.buckets) {
		t.Rehash(c, t.count)
	}
}

// Insert links element i at the head of its chain. It fails when an equal
// element is already linked.
func (t *Table) Insert(c Chain, i int) bool {
	if t.buckets == nil {
		t.init(0)
	}
	if t.lookup(c, i) != nilIndex {
		return false
	}
	t.link(c, i)
	return true
}

// Assign unlinks any element equal to i, hands it to onReplace, then links i.
// It returns the replaced index or -1. onReplace must not reorder the arena.
func (t *Table) Assign(c Chain, i int, onReplace func(old int)) int {
	if t.buckets == nil {
		t.init(0)
	}
	old := t.lookup(c, i)
	if old != nilIndex {
		t.unlink(c, old)
		if onReplace != nil {
			onReplace(old)
		}
	}
	t.link(c, i)
	return old
}

// Erase unlinks element i. The arena slot is left to the caller.
func (t *Table) Erase(c Chain, i int) bool {
	if t.count == 0 {
		return false
	}
	return t.unlink(c, i)
}

func (t *Table) unlink(c Chain, i int) bool {
	b := t.bucket(c.Hash(i))
	if t.buckets[b] == i {
		t.buckets[b] = c.Link(i).next
		t.count--
		return true
	}
	for j := t.buckets[b]; j != nilIndex; j = c.Link(j).next {
		l := c.Link(j)
		if l.next == i {
			l.next = c.Link(i).next
			t.count--
			return true
		}
	}
	return false
}

// Move repoints the chain after the caller relocated an element from slot
// from to slot to. The element's data, link included, must already be at to.
func (t *Table) Move(c Chain, from, to int) {
	if from == to || t.count == 0 {
		return
	}
	b := t.bucket(c.Hash(to))
	if t.buckets[b] == from {
		t.buckets[b] = to
		return
	}
	for j := t.buckets[b]; j != nilIndex; j = c.Link(j).next {
		l := c.Link(j)
		if l.next == from {
			l.next = to
			return
		}
	}
}

// Rehash relinks every element into NextPrime(n) buckets. Elements are
// never moved in the arena.
func (t *Table) Rehash(c Chain, n int) {
	if n < t.count {
		n = t.count
	}
	old := t.buckets
	t.init(n)
	if len(old) == len(t.buckets) {
		copy(t.buckets, old)
		return
	}
	for _, head := range old {
		for i := head; i != nilIndex; {
			next := c.Link(i).next
			b := t.bucket(c.Hash(i))
			c.Link(i).next = t.buckets[b]
			t.buckets[b] = i
			i = next
		}
	}
}

// Each visits elements in bucket order, chain head first, until fn returns
// false
func (t *Table) Each(c Chain, fn func(i int) bool) {
	if t.count == 0 {
		return
	}
	for _, head := range t.buckets {
		for i := head; i != nilIndex; i = c.Link(i).next {
			if !fn(i) {
				return
			}
		}
	}
}

// EachReverse visits elements in the exact reverse of Each
func (t *Table) EachReverse(c Chain, fn func(i int) bool) {
	if t.count == 0 {
		return
	}
	var chain []int
	for b := len(t.buckets) - 1; b >= 0; b-- {
		chain = chain[:0]
		for i := t.buckets[b]; i != nilIndex; i = c.Link(i).next {
			chain = append(chain, i)
		}
		for k := len(chain) - 1; k >= 0; k-- {
			if !fn(chain[k]) {
				return
			}
		}
	}
}
