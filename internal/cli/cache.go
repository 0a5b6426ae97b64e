package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/cache"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached models and drawings",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if c.Config.Cache.Backend == config.BackendNone {
				printInfo(out, "Cache is disabled")
				return nil
			}

			store, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printInfo(out, "Nothing to clear")
				return nil
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(out, "Cleared %s cache", c.Config.Cache.Backend)
			printDetail(out, "%s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return nil
		},
	}
}

func (c *CLI) cacheLocation() string {
	switch c.Config.Cache.Backend {
	case config.BackendRedis:
		return c.Config.Cache.RedisURL
	case config.BackendNone:
		return "(disabled)"
	default:
		return c.Config.Cache.Dir
	}
}

// configCommand prints the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", c.configPathOrDefault())
			fmt.Fprint(out, c.Config.String())
			return nil
		},
	}
}
