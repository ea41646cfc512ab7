package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tokenlogo/pkg/config"
	"github.com/matzehuels/tokenlogo/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output  string // output PNG path; defaults to <symbol>.png
	noCache bool   // bypass the cache entirely
	refresh bool   // regenerate even on a cache hit
	persist bool   // save the result to the configured store
	quiet   bool   // only print the output path
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <name> <symbol>",
		Short: "Generate a token logo PNG",
		Long: `Generate the deterministic 512×512 logo for a token.

The same name and symbol always produce the same bytes, so results are
cached and can be regenerated at any time.`,
		Example: `  tokenlogo generate Nova NOVA
  tokenlogo generate "Solar Flare" SFLR -o flare.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <symbol>.png)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even if cached")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "save the logo to the configured MongoDB store")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print the output path")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, name, symbol string, opts generateOpts) error {
	if opts.persist && !c.Config.PersistenceEnabled() {
		return fmt.Errorf("--persist requires a MongoDB URI (set %s or store.mongo_uri)", config.EnvMongoURI)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close(ctx)

	result, err := runner.Execute(ctx, pipeline.Options{
		Name:    name,
		Symbol:  symbol,
		Refresh: opts.refresh,
		Persist: opts.persist,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("pipeline finished", "cache_hit", result.CacheHit, "generate", result.Stats.GenerateTime)

	output := opts.output
	if output == "" {
		output = defaultOutputName(symbol)
	}
	if err := os.WriteFile(output, result.PNG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	if opts.quiet {
		fmt.Fprintln(stdout, output)
		return nil
	}

	printSuccess("Generated logo for %s (%s)", StyleHighlight.Render(name), StyleHighlight.Render(symbol))
	printFile(output)
	printLogoStats(result.Stats.Size, result.CacheHit, result.Stats.TotalTime)
	printNewline()
	printKeyValue("Seed", StyleNumber.Render(fmt.Sprintf("%d", result.Seed)))
	printKeyValue("SHA-256", StyleDim.Render(result.SHA256))
	printPalette(result.Palette)
	printNewline()
	printGrid(result.Grid, result.Palette.Tint)
	if result.Persisted {
		printNewline()
		printInfo("Saved to %s.%s", c.Config.Store.Database, c.Config.Store.Collection)
	}
	printNewline()
	printNextStep("Inspect the file", "tokenlogo inspect "+output)
	return nil
}

// defaultOutputName derives a file name from a symbol, replacing anything
// that is not a letter or digit.
func defaultOutputName(symbol string) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}, symbol)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "logo"
	}
	return name + ".png"
}
