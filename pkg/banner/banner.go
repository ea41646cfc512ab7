// Package banner resolves AI-generated banner images for token agents.
//
// Banners are wide cinematic images produced in two steps: an LLM writes an
// image prompt from the agent's identity, then an image model renders it.
// Both run on fal.ai. Generation is slow and costs money, so resolved URLs
// are cached per token address for [cache.TTLBanner] and each run generates
// at most [DefaultMaxPerRun] new banners. Agents left without a banner are
// picked up by later runs.
//
//	client := banner.NewClient(falKey, banner.ClientOptions{})
//	r := banner.NewResolver(redisCache, nil, client, logger)
//	summary, err := r.Resolve(ctx, agents)
package banner

import (
	"context"
	"fmt"
)

// Agent is a token agent as listed by the network. Resolve fills BannerURL.
type Agent struct {
	Name         string     `json:"name"`
	Symbol       string     `json:"symbol"`
	Type         string     `json:"type"`
	Description  string     `json:"description,omitempty"`
	PowerScore   PowerScore `json:"powerScore"`
	TokenAddress string     `json:"tokenAddress"`
	BannerURL    string     `json:"bannerUrl,omitempty"`
}

// PowerScore is the agent's composite score out of 100.
type PowerScore struct {
	Total int `json:"total"`
}

// Generator produces a banner image URL for an agent. [Client] is the
// production implementation.
type Generator interface {
	Generate(ctx context.Context, agent *Agent) (string, error)
}

// GeneratorFunc adapts a function to [Generator].
type GeneratorFunc func(ctx context.Context, agent *Agent) (string, error)

// Generate calls f(ctx, agent).
func (f GeneratorFunc) Generate(ctx context.Context, agent *Agent) (string, error) {
	return f(ctx, agent)
}

// Summary reports what one [Resolver.Resolve] run did.
type Summary struct {
	Cached    int `json:"cached"`    // served from cache
	Generated int `json:"generated"` // newly generated and cached
	Failed    int `json:"failed"`    // generation attempted and failed
	Skipped   int `json:"skipped"`   // left for a later run (cap, bad address, no key)
}

// String formats the summary for log lines and CLI output.
func (s Summary) String() string {
	return fmt.Sprintf("%d cached, %d generated, %d failed, %d skipped",
		s.Cached, s.Generated, s.Failed, s.Skipped)
}
