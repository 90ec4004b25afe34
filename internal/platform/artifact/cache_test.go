package artifact

import (
	"fmt"
	"testing"
	"time"
)

func TestCache_PutGet(t *testing.T) {
	c := NewCache()
	c.Put("RPT-1", []byte("pdf-bytes"))
	if got := c.Get("RPT-1"); string(got) != "pdf-bytes" {
		t.Errorf("unexpected artifact: %q", got)
	}
	if got := c.Get("RPT-2"); got != nil {
		t.Errorf("expected miss, got %q", got)
	}
}

func TestCache_Delete(t *testing.T) {
	c := NewCache()
	c.Put("RPT-1", []byte("x"))
	c.Delete("RPT-1")
	if c.Get("RPT-1") != nil {
		t.Error("expected entry to be gone")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := NewCache()
	current := time.Now()
	c.now = func() time.Time { return current }

	c.Put("RPT-1", []byte("x"))
	current = current.Add(defaultTTL + time.Second)
	if c.Get("RPT-1") != nil {
		t.Error("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Error("expired entry should be removed")
	}
}

func TestCache_BoundedSize(t *testing.T) {
	c := NewCache()
	current := time.Now()
	c.now = func() time.Time { return current }

	for i := 0; i < defaultMaxEntries+10; i++ {
		current = current.Add(time.Millisecond)
		c.Put(fmt.Sprintf("RPT-%d", i), []byte("x"))
	}
	if c.Len() > defaultMaxEntries {
		t.Errorf("cache exceeded bound: %d", c.Len())
	}
	// The newest entry survives eviction.
	if c.Get(fmt.Sprintf("RPT-%d", defaultMaxEntries+9)) == nil {
		t.Error("newest entry was evicted")
	}
}
