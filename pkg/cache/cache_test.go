package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatal(err)
	}
	data, ok, err := c.Get(ctx, "key")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v, %v; want hit", data, ok, err)
	}
	if string(data) != "value" {
		t.Errorf("data = %q, want value", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("Get after Delete should miss")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if ok {
		t.Error("absent key should miss")
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("NullCache should never hit")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.LayoutKey("hash1", LayoutKeyOpts{Dimensions: 2, Seed: 42, Iterations: 100})
	b := k.LayoutKey("hash1", LayoutKeyOpts{Dimensions: 2, Seed: 42, Iterations: 100})
	if a != b {
		t.Errorf("identical inputs produced different keys: %s vs %s", a, b)
	}

	c := k.LayoutKey("hash1", LayoutKeyOpts{Dimensions: 3, Seed: 42, Iterations: 100})
	if a == c {
		t.Error("different dimensions must produce different keys")
	}
	d := k.LayoutKey("hash2", LayoutKeyOpts{Dimensions: 2, Seed: 42, Iterations: 100})
	if a == d {
		t.Error("different content hashes must produce different keys")
	}

	if !strings.HasPrefix(a, "layout:") {
		t.Errorf("layout key prefix missing: %s", a)
	}
	if !strings.HasPrefix(k.EdgeSetKey("fp", EdgeSetKeyOpts{}), "edgeset:") {
		t.Error("edgeset key prefix missing")
	}
	if !strings.HasPrefix(k.ArtifactKey("h", ArtifactKeyOpts{Format: "html"}), "artifact:") {
		t.Error("artifact key prefix missing")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "proj:alpha:")

	key := scoped.LayoutKey("hash", LayoutKeyOpts{Dimensions: 2})
	if !strings.HasPrefix(key, "proj:alpha:layout:") {
		t.Errorf("scoped key = %s, want proj:alpha: prefix", key)
	}
	if strings.TrimPrefix(key, "proj:alpha:") != inner.LayoutKey("hash", LayoutKeyOpts{Dimensions: 2}) {
		t.Error("scoped key does not wrap the inner key")
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "p:")
	if !strings.HasPrefix(scoped.EdgeSetKey("fp", EdgeSetKeyOpts{}), "p:edgeset:") {
		t.Error("nil inner should default to the standard keyer")
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("data"))
	if len(h) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h))
	}
	if h != Hash([]byte("data")) {
		t.Error("Hash must be deterministic")
	}
	if h == Hash([]byte("other")) {
		t.Error("different inputs must hash differently")
	}
}
