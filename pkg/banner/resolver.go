package banner

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tokenlogo/pkg/cache"
	"github.com/matzehuels/tokenlogo/pkg/errors"
	"github.com/matzehuels/tokenlogo/pkg/observability"
)

// DefaultMaxPerRun caps new generations per Resolve call.
const DefaultMaxPerRun = 5

// cacheKeyType labels banner entries in cache hooks.
const cacheKeyType = "banner"

// Resolver assigns banner URLs to agents from the cache, generating a
// bounded number of missing ones per run.
type Resolver struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Generator Generator // nil means no API key: nothing is generated
	MaxPerRun int
	Logger    *log.Logger
}

// NewResolver creates a resolver. A nil keyer uses the default layout and a
// nil cache disables caching.
func NewResolver(c cache.Cache, keyer cache.Keyer, gen Generator, logger *log.Logger) *Resolver {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		Cache:     c,
		Keyer:     keyer,
		Generator: gen,
		MaxPerRun: DefaultMaxPerRun,
		Logger:    logger,
	}
}

// Resolve sets BannerURL on every agent with a cached banner, then
// generates banners for at most MaxPerRun of the rest, in parallel, in
// input order. Successful generations are cached for [cache.TTLBanner].
//
// Individual failures are logged and counted, never returned. The error
// is non-nil only when ctx is cancelled.
func (r *Resolver) Resolve(ctx context.Context, agents []*Agent) (Summary, error) {
	var summary Summary
	if r.Generator == nil {
		r.Logger.Info("no banner API key configured, skipping banner generation")
	}

	// Read all cached banners in parallel.
	cached := make([]string, len(agents))
	valid := make([]bool, len(agents))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range agents {
		if err := errors.ValidateTokenAddress(a.TokenAddress); err != nil {
			r.Logger.Warn("skipping agent", "symbol", a.Symbol, "error", err)
			continue
		}
		valid[i] = true
		g.Go(func() error {
			data, hit, err := r.Cache.Get(gctx, r.Keyer.BannerKey(a.TokenAddress))
			if err != nil {
				r.Logger.Warn("banner cache read failed", "symbol", a.Symbol, "error", err)
				return nil
			}
			if hit {
				cached[i] = string(data)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	var pending []*Agent
	for i, a := range agents {
		switch {
		case !valid[i]:
			summary.Skipped++
		case cached[i] != "":
			a.BannerURL = cached[i]
			summary.Cached++
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
		default:
			observability.Cache().OnCacheMiss(ctx, cacheKeyType)
			pending = append(pending, a)
		}
	}

	if r.Generator == nil {
		summary.Skipped += len(pending)
		r.finish(ctx, summary)
		return summary, nil
	}

	limit := r.MaxPerRun
	if limit <= 0 {
		limit = DefaultMaxPerRun
	}
	batch := pending
	if len(batch) > limit {
		batch = batch[:limit]
		summary.Skipped += len(pending) - limit
	}

	var generated, failed atomic.Int32
	g = new(errgroup.Group)
	g.SetLimit(limit)
	for _, a := range batch {
		g.Go(func() error {
			if r.generate(ctx, a) {
				generated.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary.Generated = int(generated.Load())
	summary.Failed = int(failed.Load())
	r.finish(ctx, summary)
	return summary, ctx.Err()
}

// generate produces and caches one banner, reporting success.
func (r *Resolver) generate(ctx context.Context, a *Agent) bool {
	start := time.Now()
	url, err := r.Generator.Generate(ctx, a)
	observability.Banner().OnBannerGenerated(ctx, a.TokenAddress, time.Since(start), err)
	if err != nil {
		r.Logger.Error("banner generation failed", "symbol", a.Symbol, "error", err)
		return false
	}

	a.BannerURL = url
	if err := r.Cache.Set(ctx, r.Keyer.BannerKey(a.TokenAddress), []byte(url), cache.TTLBanner); err != nil {
		r.Logger.Warn("banner cache write failed", "symbol", a.Symbol, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(url))
	}
	return true
}

func (r *Resolver) finish(ctx context.Context, s Summary) {
	observability.Banner().OnResolveComplete(ctx, s.Cached, s.Generated, s.Skipped)
	r.Logger.Info("resolved banners",
		"cached", s.Cached,
		"generated", s.Generated,
		"failed", s.Failed,
		"skipped", s.Skipped)
}
