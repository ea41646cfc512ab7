package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/tokenlogo/pkg/cache"
	"github.com/matzehuels/tokenlogo/pkg/core/palette"
	"github.com/matzehuels/tokenlogo/pkg/core/pngenc"
	"github.com/matzehuels/tokenlogo/pkg/errors"
	"github.com/matzehuels/tokenlogo/pkg/logo"
	"github.com/matzehuels/tokenlogo/pkg/store"
)

// mapCache is an in-memory cache that counts operations.
type mapCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	gets   int
	sets   int
	getErr error
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		code   errors.Code
		wantOK bool
	}{
		{"valid", Options{Name: "Nova", Symbol: "NOVA"}, "", true},
		{"unicode", Options{Name: "Ñandú", Symbol: "ÑDU"}, "", true},
		{"empty name", Options{Symbol: "NOVA"}, errors.ErrCodeInvalidIdentifier, false},
		{"empty symbol", Options{Name: "Nova"}, errors.ErrCodeInvalidIdentifier, false},
		{"slash", Options{Name: "a/b", Symbol: "AB"}, errors.ErrCodeInvalidIdentifier, false},
		{"long symbol", Options{Name: "Nova", Symbol: strings.Repeat("X", errors.MaxSymbolLength+1)}, errors.ErrCodeInvalidIdentifier, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				if tt.opts.Logger == nil {
					t.Error("Validate should set a default logger")
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteGeneratesAndCaches(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	r := NewRunner(c, nil, nil, nil)

	first, err := r.Execute(ctx, Options{Name: "Nova", Symbol: "NOVA"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should miss the cache")
	}
	if first.Seed != 1115137690 {
		t.Errorf("Seed = %d, want 1115137690", first.Seed)
	}
	if first.Palette.Primary != (palette.RGB{R: 139, G: 210, B: 45}) {
		t.Errorf("Primary = %v", first.Palette.Primary)
	}
	if first.SHA256 != cache.Hash(first.PNG) || first.Stats.Size != len(first.PNG) {
		t.Error("SHA256 and Size should describe PNG")
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}

	second, err := r.Execute(ctx, Options{Name: "Nova", Symbol: "NOVA"})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if !bytes.Equal(first.PNG, second.PNG) {
		t.Error("cached PNG should equal generated PNG")
	}
	if second.Seed != first.Seed || second.Grid != first.Grid || second.Palette != first.Palette {
		t.Error("metadata should be recomputed on cache hits")
	}
	if second.Stats.GenerateTime != 0 {
		t.Error("cache hits should not report generate time")
	}
}

func TestExecuteMatchesLogoGenerate(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Name: "Agent1", Symbol: "AG1"})
	if err != nil {
		t.Fatal(err)
	}
	want, err := logo.Generate("Agent1", "AG1")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(res.PNG, want) {
		t.Error("pipeline output should equal logo.Generate")
	}
}

func TestExecuteRefreshBypassesRead(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	r := NewRunner(c, nil, nil, nil)

	if _, err := r.Execute(ctx, Options{Name: "Nova", Symbol: "NOVA"}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Name: "Nova", Symbol: "NOVA", Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("refresh should not hit the cache")
	}
	if c.gets != 1 {
		t.Errorf("cache gets = %d, want 1", c.gets)
	}
	if c.sets != 2 {
		t.Errorf("cache sets = %d, want 2", c.sets)
	}
}

func TestExecuteCacheReadErrorFallsBack(t *testing.T) {
	c := newMapCache()
	c.getErr = stderrors.New("redis down")
	r := NewRunner(c, nil, nil, nil)

	res, err := r.Execute(context.Background(), Options{Name: "Nova", Symbol: "NOVA"})
	if err != nil {
		t.Fatalf("cache errors should not fail generation: %v", err)
	}
	if res.CacheHit || len(res.PNG) == 0 {
		t.Error("expected a freshly generated logo")
	}
}

func TestExecuteKeysIncludeCompressor(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	r := NewRunner(c, nil, nil, nil)
	if _, err := r.Execute(ctx, Options{Name: "Nova", Symbol: "NOVA"}); err != nil {
		t.Fatal(err)
	}

	r.Generator = logo.New(logo.WithCompressor(&pngenc.ZlibCompressor{Level: 9}))
	res, err := r.Execute(ctx, Options{Name: "Nova", Symbol: "NOVA"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("a different compressor should not reuse cached bytes")
	}
	if len(c.data) != 2 {
		t.Errorf("cache entries = %d, want 2", len(c.data))
	}
}

func TestExecutePersist(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	r := NewRunner(nil, nil, st, nil)

	res, err := r.Execute(ctx, Options{Name: "Nova", Symbol: "NOVA"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Persisted || st.Len() != 0 {
		t.Error("Persist=false should not save")
	}

	res, err = r.Execute(ctx, Options{Name: "Nova", Symbol: "NOVA", Persist: true})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Persisted {
		t.Error("Persist=true should save")
	}

	rec, err := r.Lookup(ctx, "Nova", "NOVA")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec.SHA256 != res.SHA256 || rec.Seed != res.Seed {
		t.Errorf("stored record = %+v", rec)
	}
}

func TestLookupWithoutStore(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	if _, err := r.Lookup(context.Background(), "Nova", "NOVA"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Lookup = %v, want NOT_FOUND", err)
	}
}

func TestExecuteCompressionFailure(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	r.Generator = logo.New(logo.WithCompressor(pngenc.CompressorFunc(func([]byte) ([]byte, error) {
		return nil, stderrors.New("boom")
	})))
	_, err := r.Execute(context.Background(), Options{Name: "Nova", Symbol: "NOVA"})
	if !errors.Is(err, errors.ErrCodeCompression) {
		t.Errorf("Execute = %v, want COMPRESSION_FAILURE", err)
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	r := NewRunner(c, nil, nil, nil)
	if _, err := r.Execute(ctx, Options{Name: "Nova", Symbol: "NOVA"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Invalidate(ctx, "Nova", "NOVA"); err != nil {
		t.Fatal(err)
	}
	if len(c.data) != 0 {
		t.Error("Invalidate should remove the cached entry")
	}
}

func TestRunnerConcurrent(t *testing.T) {
	r := NewRunner(newMapCache(), nil, store.NewMemoryStore(), nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Execute(context.Background(), Options{Name: "Nova", Symbol: "NOVA", Persist: true}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}
