package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters is an in-process implementation of every hook interface. It
// keeps running totals that the server reports at /v1/stats, for
// deployments without a metrics backend.
type Counters struct {
	generated     atomic.Int64
	generateErrs  atomic.Int64
	generateNanos atomic.Int64
	bytesOut      atomic.Int64

	bannersGenerated atomic.Int64
	bannerErrs       atomic.Int64

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	cacheSets   atomic.Int64

	requests  atomic.Int64
	http5xx   atomic.Int64
	httpErrs  atomic.Int64
	startedAt time.Time
}

// NewCounters creates zeroed counters.
func NewCounters() *Counters {
	return &Counters{startedAt: time.Now()}
}

// Install registers c for all hook kinds.
func (c *Counters) Install() {
	SetGenerateHooks(c)
	SetBannerHooks(c)
	SetCacheHooks(c)
	SetHTTPHooks(c)
}

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Uptime           string  `json:"uptime"`
	LogosGenerated   int64   `json:"logos_generated"`
	GenerateErrors   int64   `json:"generate_errors"`
	AvgGenerateMs    float64 `json:"avg_generate_ms"`
	BytesGenerated   int64   `json:"bytes_generated"`
	BannersGenerated int64   `json:"banners_generated"`
	BannerErrors     int64   `json:"banner_errors"`
	CacheHits        int64   `json:"cache_hits"`
	CacheMisses      int64   `json:"cache_misses"`
	CacheSets        int64   `json:"cache_sets"`
	Requests         int64   `json:"requests"`
	ServerErrors     int64   `json:"server_errors"`
	TransportErrors  int64   `json:"transport_errors"`
}

// Snapshot reads the current totals.
func (c *Counters) Snapshot() Snapshot {
	s := Snapshot{
		Uptime:           time.Since(c.startedAt).Round(time.Second).String(),
		LogosGenerated:   c.generated.Load(),
		GenerateErrors:   c.generateErrs.Load(),
		BytesGenerated:   c.bytesOut.Load(),
		BannersGenerated: c.bannersGenerated.Load(),
		BannerErrors:     c.bannerErrs.Load(),
		CacheHits:        c.cacheHits.Load(),
		CacheMisses:      c.cacheMisses.Load(),
		CacheSets:        c.cacheSets.Load(),
		Requests:         c.requests.Load(),
		ServerErrors:     c.http5xx.Load(),
		TransportErrors:  c.httpErrs.Load(),
	}
	if s.LogosGenerated > 0 {
		s.AvgGenerateMs = float64(c.generateNanos.Load()) / float64(s.LogosGenerated) / 1e6
	}
	return s
}

func (c *Counters) OnGenerateStart(context.Context, string, string) {}

func (c *Counters) OnGenerateComplete(_ context.Context, _, _ string, size int, d time.Duration, err error) {
	if err != nil {
		c.generateErrs.Add(1)
		return
	}
	c.generated.Add(1)
	c.generateNanos.Add(int64(d))
	c.bytesOut.Add(int64(size))
}

func (c *Counters) OnBannerGenerated(_ context.Context, _ string, _ time.Duration, err error) {
	if err != nil {
		c.bannerErrs.Add(1)
		return
	}
	c.bannersGenerated.Add(1)
}

func (c *Counters) OnResolveComplete(context.Context, int, int, int) {}

func (c *Counters) OnCacheHit(context.Context, string)      { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.cacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) { c.cacheSets.Add(1) }

func (c *Counters) OnRequest(context.Context, string, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		c.http5xx.Add(1)
	}
}

func (c *Counters) OnError(context.Context, string, string, string, error) { c.httpErrs.Add(1) }

var (
	_ GenerateHooks = (*Counters)(nil)
	_ BannerHooks   = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
