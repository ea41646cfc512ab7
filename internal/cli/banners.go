package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tokenlogo/pkg/banner"
	"github.com/matzehuels/tokenlogo/pkg/cache"
	"github.com/matzehuels/tokenlogo/pkg/config"
)

// bannersOpts holds the command-line flags for the banners command.
type bannersOpts struct {
	output  string // write the updated agent list here; stdout when empty
	max     int    // overrides banner.max_per_run when positive
	noCache bool
}

// bannersCommand creates the banners command.
func (c *CLI) bannersCommand() *cobra.Command {
	var opts bannersOpts

	cmd := &cobra.Command{
		Use:   "banners <agents.json>",
		Short: "Resolve AI banner images for a list of agents",
		Long: `Banners reads a JSON list of agents, fills in bannerUrl from the cache and
generates a bounded number of missing banners through fal.ai.

The input is either a JSON array of agents or an object with an "agents"
array. Generation requires FAL_KEY; without it only cached banners are
applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBanners(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&opts.max, "max", 0, "maximum new banners to generate (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBanners(ctx context.Context, path string, opts bannersOpts) error {
	agents, err := readAgents(path)
	if err != nil {
		return err
	}

	ch, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	resolver := c.newResolver(ch)
	if opts.max > 0 {
		resolver.MaxPerRun = opts.max
	}
	if resolver.Generator == nil {
		printWarning("%s not set, only cached banners will be applied", config.EnvFalKey)
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Resolving banners for %d agents", len(agents)))
	spinner.Start()
	summary, err := resolver.Resolve(ctx, agents)
	if err != nil {
		spinner.StopWithError("Banner resolution interrupted")
		return err
	}
	spinner.Stop()
	prog.done("banners resolved",
		"cached", summary.Cached,
		"generated", summary.Generated,
		"failed", summary.Failed,
		"skipped", summary.Skipped)

	data, err := json.MarshalIndent(agents, "", "  ")
	if err != nil {
		return err
	}
	if opts.output == "" {
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	if err := os.WriteFile(opts.output, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	printSuccess("Resolved banners: %s", summary)
	printFile(opts.output)
	if summary.Skipped > 0 && resolver.Generator != nil {
		printNextStep("Generate the rest", "tokenlogo banners "+opts.output+" -o "+opts.output)
	}
	return nil
}

// readAgents decodes an agent list from a JSON array or an {"agents": [...]}
// envelope.
func readAgents(path string) ([]*banner.Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var agents []*banner.Agent
	if err := json.Unmarshal(data, &agents); err == nil {
		return agents, nil
	}
	var envelope struct {
		Agents []*banner.Agent `json:"agents"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if envelope.Agents == nil {
		return nil, fmt.Errorf("parse %s: no agents found", path)
	}
	return envelope.Agents, nil
}

// newResolver builds a banner resolver over ch. The generator is nil when
// no fal.ai key is configured.
func (c *CLI) newResolver(ch cache.Cache) *banner.Resolver {
	var gen banner.Generator
	if c.Config.BannersEnabled() {
		gen = banner.NewClient(c.Config.Banner.FalKey, banner.ClientOptions{
			LLMEndpoint:   c.Config.Banner.LLMEndpoint,
			ImageEndpoint: c.Config.Banner.ImageEndpoint,
			Model:         c.Config.Banner.Model,
			Timeout:       c.Config.Banner.Timeout.Duration,
			Logger:        c.Logger,
		})
	}
	r := banner.NewResolver(ch, c.newKeyer(), gen, c.Logger)
	if c.Config.Banner.MaxPerRun > 0 {
		r.MaxPerRun = c.Config.Banner.MaxPerRun
	}
	return r
}
