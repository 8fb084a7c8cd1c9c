package cache

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int](100, PathHasher)
	if c == nil {
		t.Fatal("New returned nil")
	}
	if c.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestNewDefaultCapacity(t *testing.T) {
	c := New[string, int](0, PathHasher)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("expected capacity %d, got %d", DefaultCapacity, c.Capacity())
	}
}

func TestGetSet(t *testing.T) {
	c := New[string, int](10, PathHasher)

	c.Set("assets/tower.obj", 42)

	val, ok := c.Get("assets/tower.obj")
	if !ok {
		t.Error("expected cached path to exist")
	}
	if val != 42 {
		t.Errorf("expected 42, got %d", val)
	}

	if _, ok = c.Get("assets/missing.obj"); ok {
		t.Error("expected miss for unknown path")
	}
}

func TestGetOrLoad(t *testing.T) {
	c := New[string, int](10, PathHasher)
	loads := 0

	val, err := c.GetOrLoad("a.obj", func() (int, error) {
		loads++
		return 100, nil
	})
	if err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if val != 100 {
		t.Errorf("expected 100, got %d", val)
	}

	// Second call hits the cache, the loader must not run again.
	val, err = c.GetOrLoad("a.obj", func() (int, error) {
		loads++
		return 200, nil
	})
	if err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if val != 100 {
		t.Errorf("expected cached 100, got %d", val)
	}
	if loads != 1 {
		t.Errorf("expected 1 load, got %d", loads)
	}
}

func TestGetOrLoadErrorNotCached(t *testing.T) {
	c := New[string, int](10, PathHasher)
	boom := errors.New("decode failed")

	if _, err := c.GetOrLoad("bad.obj", func() (int, error) {
		return 0, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("failed load must not cache, got %d entries", c.Len())
	}

	// A later successful load for the same key goes through.
	val, err := c.GetOrLoad("bad.obj", func() (int, error) {
		return 7, nil
	})
	if err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if val != 7 {
		t.Errorf("expected 7, got %d", val)
	}
}

func TestDelete(t *testing.T) {
	c := New[string, int](10, PathHasher)

	c.Set("a.obj", 42)

	if !c.Delete("a.obj") {
		t.Error("expected Delete to return true for existing key")
	}
	if _, ok := c.Get("a.obj"); ok {
		t.Error("expected key to be deleted")
	}
	if c.Delete("a.obj") {
		t.Error("expected Delete to return false for missing key")
	}
}

func TestClear(t *testing.T) {
	c := New[string, int](10, PathHasher)

	for i := range 5 {
		c.Set("m"+strconv.Itoa(i), i)
	}
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", c.Len())
	}
	if _, ok := c.Get("m0"); ok {
		t.Error("expected cleared entry to be gone")
	}
}

func TestLRUEviction(t *testing.T) {
	// All keys on one shard via a constant hasher, capacity 2.
	c := New[int, int](2, func(int) uint64 { return 0 })

	c.Set(1, 1)
	c.Set(2, 2)
	c.Get(1) // 1 is now most recent
	c.Set(3, 3)

	if _, ok := c.Get(2); ok {
		t.Error("expected least recently used entry 2 to be evicted")
	}
	if _, ok := c.Get(1); !ok {
		t.Error("expected recently used entry 1 to survive")
	}
	if _, ok := c.Get(3); !ok {
		t.Error("expected new entry 3 to be present")
	}
}

func TestStats(t *testing.T) {
	c := New[string, int](10, PathHasher)

	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("b")

	st := c.Stats()
	if st.Hits != 2 {
		t.Errorf("expected 2 hits, got %d", st.Hits)
	}
	if st.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", st.Misses)
	}
	if st.HitRate < 0.66 || st.HitRate > 0.67 {
		t.Errorf("expected hit rate ~0.667, got %f", st.HitRate)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](64, PathHasher)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				key := fmt.Sprintf("model-%d-%d", g, i%16)
				c.Set(key, i)
				c.Get(key)
				_, _ = c.GetOrLoad(key, func() (int, error) { return i, nil })
			}
		}()
	}
	wg.Wait()

	if c.Len() == 0 {
		t.Error("expected entries after concurrent access")
	}
}
