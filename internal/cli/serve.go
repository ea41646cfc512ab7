package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tokenlogo/pkg/observability"
	"github.com/matzehuels/tokenlogo/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		persist bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve logos over HTTP.

  GET  /v1/logos/{name}/{symbol}.png    logo PNG (ETag, immutable caching)
  GET  /v1/logos/{name}/{symbol}        logo metadata as JSON
  GET  /v1/logos/{name}/{symbol}/record persisted record (needs MongoDB)
  POST /v1/banners                      resolve banners for a list of agents
  GET  /v1/stats                        generation, cache and request counters
  GET  /healthz                         liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), persist)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&persist, "persist", false, "save every served logo to the configured store")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, persist bool) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close(context.Background())

	srv := server.New(runner, c.newResolver(runner.Cache), c.Logger)
	srv.Persist = persist && c.Config.PersistenceEnabled()

	counters := observability.NewCounters()
	counters.Install()
	srv.Stats = counters
	if persist && !srv.Persist {
		c.Logger.Warn("--persist ignored, no MongoDB URI configured")
	}

	c.Logger.Debug("server config",
		"cache", c.Config.Cache.Backend,
		"banners", c.Config.BannersEnabled(),
		"persist", srv.Persist)
	return srv.ListenAndServe(ctx, c.Config.Server)
}
