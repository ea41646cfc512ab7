package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tokenlogo/pkg/cache"
	"github.com/matzehuels/tokenlogo/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the logo and banner cache",
	}
	cmd.AddCommand(c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expiredOnly bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached logos and banner URLs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.Backend == config.CacheRedis {
				return c.clearRedis(cmd, expiredOnly)
			}
			return c.clearFiles(expiredOnly)
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired or unreadable entries")
	return cmd
}

func (c *CLI) clearRedis(cmd *cobra.Command, expiredOnly bool) error {
	cc := c.Config.Cache
	if expiredOnly {
		printInfo("Redis expires entries on its own; nothing to prune")
		return nil
	}
	rc, err := cache.NewRedisCache(cmd.Context(), cache.RedisConfig{
		Addr:     cc.RedisAddr,
		Password: cc.RedisPassword,
		DB:       cc.RedisDB,
		Prefix:   cc.Prefix,
	})
	if err != nil {
		return err
	}
	defer rc.Close()

	n, err := rc.Clear(cmd.Context())
	if err != nil {
		return err
	}
	printSuccess("Cleared %d cached entries", n)
	printDetail("Redis: %s (prefix %q)", cc.RedisAddr, cc.Prefix)
	return nil
}

func (c *CLI) clearFiles(expiredOnly bool) error {
	dir, err := c.cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}

	sweep, verb := fc.Clear, "Cleared"
	if expiredOnly {
		sweep, verb = fc.Prune, "Pruned"
	}
	n, err := sweep()
	if err != nil {
		return err
	}
	printSuccess("%s %d cached entries", verb, n)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
