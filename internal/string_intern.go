package internal

import (
	"sync"
)

// ============================================================================
// KEY INTERN
// Parsed object keys would otherwise be substrings of the whole input text.
// Interning copies each distinct key once, so a document stops pinning its
// source and repeated keys share storage.
// ============================================================================

const (
	keyInternShards   = 64
	maxInternedKeyLen = 128
	maxShardBytes     = 256 << 10 // a full shard is dropped, not evicted key by key
)

// KeyIntern is a sharded interner for object keys, safe for concurrent use
type KeyIntern struct {
	shards    [keyInternShards]keyInternShard
	shardMask uint64
}

type keyInternShard struct {
	mu      sync.RWMutex
	strings map[string]string
	size    int
}

// GlobalKeyIntern is the interner used by the parser
var GlobalKeyIntern = NewKeyIntern()

// NewKeyIntern creates an empty key interner
func NewKeyIntern() *KeyIntern {
	ki := &KeyIntern{shardMask: keyInternShards - 1}
	for i := range ki.shards {
		ki.shards[i].strings = make(map[string]string, 64)
	}
	return ki
}

// Intern returns a copy of key that shares storage with earlier equal keys.
// Long keys are copied but not retained.
func (ki *KeyIntern) Intern(key string) string {
	if len(key) == 0 {
		return ""
	}
	if len(key) > maxInternedKeyLen {
		return string([]byte(key))
	}

	shard := ki.getShard(key)

	shard.mu.RLock()
	if interned, ok := shard.strings[key]; ok {
		shard.mu.RUnlock()
		return interned
	}
	shard.mu.RUnlock()

	shard.mu.Lock()
	defer shard.mu.Unlock()

	// Double-check
	if interned, ok := shard.strings[key]; ok {
		return interned
	}
	if shard.size+len(key) > maxShardBytes {
		shard.strings = make(map[string]string, 64)
		shard.size = 0
	}

	copied := string([]byte(key))
	shard.strings[copied] = copied
	shard.size += len(copied)
	return copied
}

// getShard returns the shard for a key using FNV-1a hash
func (ki *KeyIntern) getShard(key string) *keyInternShard {
	h := uint64(14695981039346656037)
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= 1099511628211
	}
	return &ki.shards[h&ki.shardMask]
}

// Len returns the number of retained keys
func (ki *KeyIntern) Len() int {
	n := 0
	for i := range ki.shards {
		ki.shards[i].mu.RLock()
		n += len(ki.shards[i].strings)
		ki.shards[i].mu.RUnlock()
	}
	return n
}

// Clear removes all interned keys
func (ki *KeyIntern) Clear() {
	for i := range ki.shards {
		shard := &ki.shards[i]
		shard.mu.Lock()
		shard.strings = make(map[string]string, 64)
		shard.size = 0
		shard.mu.Unlock()
	}
}

// InternKey interns a key using the global key interner
func InternKey(key string) string {
	return GlobalKeyIntern.Intern(key)
}
