package internal

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"unsafe"
)

func TestKeyIntern(t *testing.T) {
	t.Run("SharesStorage", func(t *testing.T) {
		ki := NewKeyIntern()
		src := `{"name":1}`
		first := ki.Intern(src[2:6])
		second := ki.Intern(strings.Clone("name"))

		if first != "name" {
			t.Fatalf("expected name, got %q", first)
		}
		if unsafe.StringData(first) != unsafe.StringData(second) {
			t.Error("expected equal keys to share storage")
		}
		if unsafe.StringData(first) == unsafe.StringData(src[2:6]) {
			t.Error("expected the interned key not to alias its source")
		}
	})

	t.Run("LongKeysNotRetained", func(t *testing.T) {
		ki := NewKeyIntern()
		long := strings.Repeat("k", 200)
		got := ki.Intern(long)
		if got != long {
			t.Error("expected equal content")
		}
		if ki.Len() != 0 {
			t.Errorf("expected nothing retained, got %d", ki.Len())
		}
	})

	t.Run("EmptyKey", func(t *testing.T) {
		ki := NewKeyIntern()
		if ki.Intern("") != "" || ki.Len() != 0 {
			t.Error("expected empty key to pass through")
		}
	})

	t.Run("BoundedShards", func(t *testing.T) {
		ki := NewKeyIntern()
		for i := 0; i < 200000; i++ {
			ki.Intern("key-" + strconv.Itoa(i) + strings.Repeat("x", 64))
		}
		for i := range ki.shards {
			if ki.shards[i].size > maxShardBytes {
				t.Fatalf("shard %d holds %d bytes", i, ki.shards[i].size)
			}
		}
	})

	t.Run("Concurrent", func(t *testing.T) {
		ki := NewKeyIntern()
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 1000; i++ {
					key := "k" + strconv.Itoa(i%50)
					if got := ki.Intern(key); got != key {
						t.Errorf("expected %q, got %q", key, got)
						return
					}
				}
			}()
		}
		wg.Wait()
		if ki.Len() != 50 {
			t.Errorf("expected 50 keys, got %d", ki.Len())
		}

		ki.Clear()
		if ki.Len() != 0 {
			t.Errorf("expected empty after Clear, got %d", ki.Len())
		}
	})
}
