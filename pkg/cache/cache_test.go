package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("null cache Get should always return miss")
	}
	if data != nil {
		t.Error("null cache Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("null cache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := LogoKeyOpts{Revision: 1, Compressor: "zlib/default"}

	key := k.LogoKey("Nova", "NOVA", opts)
	if !strings.HasPrefix(key, "logo:") {
		t.Errorf("LogoKey = %q, want logo: prefix", key)
	}
	if strings.Contains(key, "Nova") {
		t.Errorf("LogoKey should not embed raw identifiers: %q", key)
	}
	if key != k.LogoKey("Nova", "NOVA", opts) {
		t.Error("LogoKey should be deterministic")
	}

	tests := []struct {
		name        string
		tname, tsym string
		opts        LogoKeyOpts
	}{
		{"different name", "Nova2", "NOVA", opts},
		{"different symbol", "Nova", "NOVB", opts},
		{"different revision", "Nova", "NOVA", LogoKeyOpts{Revision: 2, Compressor: "zlib/default"}},
		{"different compressor", "Nova", "NOVA", LogoKeyOpts{Revision: 1, Compressor: "zlib/best"}},
		// The fields are hashed separately, so shifting the boundary matters.
		{"shifted boundary", "Nov", "aNOVA", opts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k.LogoKey(tt.tname, tt.tsym, tt.opts); got == key {
				t.Errorf("LogoKey collided with base key: %q", got)
			}
		})
	}
}

func TestDefaultKeyerBannerKey(t *testing.T) {
	k := NewDefaultKeyer()
	addr := "0xAbCdEf0123456789abcdef0123456789ABCDEF01"

	got := k.BannerKey(addr)
	want := "banner:0xabcdef0123456789abcdef0123456789abcdef01"
	if got != want {
		t.Errorf("BannerKey = %q, want %q", got, want)
	}
	if k.BannerKey(strings.ToLower(addr)) != got {
		t.Error("BannerKey should be case-insensitive")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	k := NewScopedKeyer(inner, "base:")
	opts := LogoKeyOpts{Revision: 1}

	if got, want := k.LogoKey("a", "b", opts), "base:"+inner.LogoKey("a", "b", opts); got != want {
		t.Errorf("LogoKey = %q, want %q", got, want)
	}
	if got := k.BannerKey("0xAB"); got != "base:banner:0xab" {
		t.Errorf("BannerKey = %q", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	k := NewScopedKeyer(nil, "test:")
	if got := k.BannerKey("0x1"); got != "test:banner:0x1" {
		t.Errorf("BannerKey = %q", got)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	want := []byte{0x89, 'P', 'N', 'G'}
	if err := c.Set(ctx, "logo:abc", want, time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, hit, err := c.Get(ctx, "logo:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(got) != string(want) {
		t.Errorf("Get = %v, want %v", got, want)
	}

	if err := c.Delete(ctx, "logo:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "logo:abc"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "logo:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should be a miss")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero TTL should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want clean miss", hit, err)
	}
}

func TestFileCachePrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "stale", []byte("a"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "live", []byte("b"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "pinned", []byte("c"), 0); err != nil {
		t.Fatal(err)
	}

	now = now.Add(10 * time.Minute)
	n, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("Prune removed %d entries, want 1", n)
	}
	for _, k := range []string{"live", "pinned"} {
		if got, hit, _ := c.Get(ctx, k); !hit || len(got) != 1 {
			t.Errorf("%s should survive Prune, got %q hit=%v", k, got, hit)
		}
	}
	if _, err := os.Stat(c.path("stale")); !os.IsNotExist(err) {
		t.Errorf("stale entry still on disk: %v", err)
	}
}

func TestFileCacheRawLayout(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	payload := []byte("\x89PNG payload")
	if err := c.Set(ctx, "k", payload, 0); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(c.path("k"))
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != headerSize+len(payload) {
		t.Errorf("file size = %d, want %d", len(raw), headerSize+len(payload))
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entries should be gone after Clear")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TOKENLOGO_REDIS_ADDR")
	if addr == "" {
		t.Skip("TOKENLOGO_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: "tokenlogo-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	defer c.Clear(ctx)

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(got) != "v" {
		t.Errorf("Get = %q, hit %v, err %v", got, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
}

func TestRedisCacheClearRequiresPrefix(t *testing.T) {
	c := &RedisCache{}
	if _, err := c.Clear(context.Background()); err == nil {
		t.Error("Clear without prefix should fail")
	}
}
