// Package cli implements the multiboard command-line interface.
//
// # Commands
//
//   - plan: work out tile sizes and stacks for a board and print the summary
//   - generate: plan, confirm, then render models and drawings to disk
//   - serve: run the HTTP API
//   - cache: inspect or clear the artifact cache
//   - config: print the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and retrieved with loggerFromContext.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/buildinfo"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/cache"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/config"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the binary name used in help text.
const appName = "multiboard"

// cacheScope prefixes artifact cache keys. Bump it when the cached bytes for
// an unchanged key would differ.
const cacheScope = "v1:"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string

	// in and out are the prompt streams; tests swap them.
	in  io.Reader
	out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Multiboard plans and generates tiled pegboards",
		Long: `Multiboard splits a wall area into printable Multiboard tiles, packs identical
tiles into print stacks, and generates the models and cutting drawings for them.`,
		Version:      buildinfo.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			c.Logger.Debug("loaded config", "path", c.configPathOrDefault())
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.planCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) configPathOrDefault() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, cacheScope), c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// newCache opens the configured artifact cache backend.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
	default:
		fc, err := cache.NewFileCache(c.Config.Cache.Dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, continuing without it", "dir", c.Config.Cache.Dir, "error", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}
