package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCountersSnapshot(t *testing.T) {
	ctx := context.Background()
	c := NewCounters()

	c.OnGenerateComplete(ctx, "Nova", "NOVA", 1000, 2*time.Millisecond, nil)
	c.OnGenerateComplete(ctx, "Nova", "NOVB", 3000, 4*time.Millisecond, nil)
	c.OnGenerateComplete(ctx, "x", "y", 0, time.Millisecond, errors.New("boom"))
	c.OnBannerGenerated(ctx, "0x01", time.Second, nil)
	c.OnBannerGenerated(ctx, "0x02", time.Second, errors.New("502"))
	c.OnCacheHit(ctx, "logo")
	c.OnCacheMiss(ctx, "logo")
	c.OnCacheMiss(ctx, "banner")
	c.OnCacheSet(ctx, "logo", 1000)
	c.OnRequest(ctx, "GET", "localhost", "/healthz")
	c.OnResponse(ctx, "GET", "localhost", "/healthz", 503, time.Millisecond)
	c.OnError(ctx, "POST", "fal.run", "/x", errors.New("reset"))

	got := c.Snapshot()
	want := Snapshot{
		Uptime:           got.Uptime,
		LogosGenerated:   2,
		GenerateErrors:   1,
		AvgGenerateMs:    3,
		BytesGenerated:   4000,
		BannersGenerated: 1,
		BannerErrors:     1,
		CacheHits:        1,
		CacheMisses:      2,
		CacheSets:        1,
		Requests:         1,
		ServerErrors:     1,
		TransportErrors:  1,
	}
	if got != want {
		t.Errorf("Snapshot() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestCountersInstall(t *testing.T) {
	defer Reset()
	c := NewCounters()
	c.Install()

	Cache().OnCacheHit(context.Background(), "logo")
	Generate().OnGenerateComplete(context.Background(), "a", "b", 10, time.Millisecond, nil)

	s := c.Snapshot()
	if s.CacheHits != 1 || s.LogosGenerated != 1 {
		t.Errorf("installed counters not receiving events: %+v", s)
	}
}
