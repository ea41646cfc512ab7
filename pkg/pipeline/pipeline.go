// Package pipeline runs logo generation behind a cache and an optional store.
//
// The core generator in [logo] is pure; this package adds what the CLI and
// the HTTP server both need around it, so they behave the same:
//
//  1. Validate: reject identifiers the outer surfaces should not accept
//  2. Cache: return cached PNG bytes unless a refresh is requested
//  3. Generate: render and encode with [logo.Generator]
//  4. Persist: optionally upsert the result into a [store.Store]
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Name:   "Nova",
//	    Symbol: "NOVA",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("nova.png", result.PNG, 0o644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tokenlogo/pkg/core/palette"
	"github.com/matzehuels/tokenlogo/pkg/core/pattern"
	"github.com/matzehuels/tokenlogo/pkg/errors"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Refresh bool   `json:"refresh,omitempty"` // bypass the cache read, still write
	Persist bool   `json:"persist,omitempty"` // save to the runner's store

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Validate checks the identifiers and fills in runtime defaults.
func (o *Options) Validate() error {
	if err := errors.ValidateName(o.Name); err != nil {
		return err
	}
	if err := errors.ValidateSymbol(o.Symbol); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// PNG is the encoded logo.
	PNG []byte

	// Seed, Palette and Grid describe how the logo was derived. They are
	// recomputed on cache hits, which costs only the PRNG draws.
	Seed    uint32
	Palette palette.Palette
	Grid    pattern.Grid

	// SHA256 is the hex digest of PNG, suitable as an HTTP ETag.
	SHA256 string

	// CacheHit reports whether PNG came from the cache.
	CacheHit bool

	// Persisted reports whether the result was saved to the store.
	Persisted bool

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GenerateTime time.Duration // zero on cache hits
	TotalTime    time.Duration
	Size         int
}
