package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tokenlogo/pkg/cache"
	"github.com/matzehuels/tokenlogo/pkg/core/pngenc"
	"github.com/matzehuels/tokenlogo/pkg/errors"
	"github.com/matzehuels/tokenlogo/pkg/logo"
	"github.com/matzehuels/tokenlogo/pkg/observability"
	"github.com/matzehuels/tokenlogo/pkg/store"
)

// cacheKeyType labels logo entries in cache hooks.
const cacheKeyType = "logo"

// Runner encapsulates generation with caching and persistence.
// Both CLI and server use this to avoid duplicating that logic.
//
// The Runner holds no per-request state. Multiple goroutines can safely
// use the same Runner with different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Store     store.Store // nil disables persistence
	Generator *logo.Generator
	Logger    *log.Logger
}

// NewRunner creates a runner with the given cache, keyer and store.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a null cache is used (caching disabled).
// A nil store disables persistence.
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Store:     st,
		Generator: logo.New(),
		Logger:    logger,
	}
}

// Execute validates the identifiers, serves the logo from cache when
// possible, generates it otherwise, and persists it when requested.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	logger := opts.Logger.With("name", opts.Name, "symbol", opts.Symbol)

	key := r.cacheKey(opts.Name, opts.Symbol)
	result := &Result{}

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			result.PNG = data
			result.CacheHit = true
		} else if err != nil {
			logger.Warn("cache read failed", "error", err)
		}
	}

	if result.CacheHit {
		d := logo.Describe(opts.Name, opts.Symbol)
		result.Seed, result.Palette, result.Grid = d.Seed, d.Palette, d.Grid
		logger.Debug("logo served from cache", "bytes", len(result.PNG))
	} else {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		if err := r.generate(ctx, opts, key, result); err != nil {
			return nil, err
		}
		logger.Info("generated logo",
			"seed", result.Seed,
			"bytes", len(result.PNG),
			"duration", result.Stats.GenerateTime)
	}

	result.SHA256 = cache.Hash(result.PNG)
	result.Stats.Size = len(result.PNG)

	if opts.Persist && r.Store != nil {
		rec := store.NewRecord(opts.Name, opts.Symbol, result.Seed, result.PNG)
		if err := r.Store.Save(ctx, rec); err != nil {
			return nil, err
		}
		result.Persisted = true
		logger.Debug("persisted logo", "id", rec.ID)
	}

	result.Stats.TotalTime = time.Since(start)
	return result, nil
}

// generate renders a fresh logo and writes it to the cache.
func (r *Runner) generate(ctx context.Context, opts Options, key string, result *Result) error {
	hooks := observability.Generate()
	hooks.OnGenerateStart(ctx, opts.Name, opts.Symbol)

	start := time.Now()
	built, err := r.generator().Build(opts.Name, opts.Symbol)
	result.Stats.GenerateTime = time.Since(start)
	if err != nil {
		hooks.OnGenerateComplete(ctx, opts.Name, opts.Symbol, 0, result.Stats.GenerateTime, err)
		return err
	}
	hooks.OnGenerateComplete(ctx, opts.Name, opts.Symbol, len(built.PNG), result.Stats.GenerateTime, nil)

	result.PNG = built.PNG
	result.Seed = built.Seed
	result.Palette = built.Palette
	result.Grid = built.Grid

	if err := r.Cache.Set(ctx, key, built.PNG, cache.TTLLogo); err != nil {
		opts.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(built.PNG))
	}
	return nil
}

// Lookup returns a persisted record. It fails with NOT_FOUND when the
// runner has no store or the pair was never persisted.
func (r *Runner) Lookup(ctx context.Context, name, symbol string) (*store.Record, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "persistence is not configured")
	}
	return r.Store.Get(ctx, name, symbol)
}

// Invalidate removes the cached logo for a pair.
func (r *Runner) Invalidate(ctx context.Context, name, symbol string) error {
	return r.Cache.Delete(ctx, r.cacheKey(name, symbol))
}

func (r *Runner) cacheKey(name, symbol string) string {
	g := r.generator()
	return r.Keyer.LogoKey(name, symbol, cache.LogoKeyOpts{
		Revision:   logo.Revision,
		Compressor: pngenc.CompressorName(g.Compressor()),
	})
}

func (r *Runner) generator() *logo.Generator {
	if r.Generator == nil {
		return logo.New()
	}
	return r.Generator
}

// Close releases resources held by the runner (cache and store).
func (r *Runner) Close(ctx context.Context) error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.Store != nil {
		if err := r.Store.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
