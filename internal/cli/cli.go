// Package cli implements the ontoview command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoview/pkg/buildinfo"
	"github.com/matzehuels/ontoview/pkg/cache"
	"github.com/matzehuels/ontoview/pkg/config"
	"github.com/matzehuels/ontoview/pkg/hierarchy/layout"
	"github.com/matzehuels/ontoview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ontoview"

	// configFileName is looked up in the XDG config directory when --config
	// is not given.
	configFileName = "config.toml"
)

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

	// Config is the loaded configuration file, or the defaults.
	Config config.Config

	configPath  string
	metricsAddr string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
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
		Short: "Ontoview explores ontology class hierarchies",
		Long: `Ontoview is a CLI tool for exploring large ontology class hierarchies as
collapsible trees: large sibling sets are grouped by first letter, classes
can be searched and revealed, and any view can be exported as SVG, DOT,
PDF or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/ontoview/config.toml if present)")
	root.PersistentFlags().StringVar(&c.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the command runs")

	root.AddCommand(c.importCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, c.newKeyer(), c.Logger), nil
}

// newKeyer namespaces keys when the cache is a Redis instance that other
// tools may share.
func (c *CLI) newKeyer() cache.Keyer {
	if c.Config.Cache.RedisAddr != "" {
		return cache.NewScopedKeyer(nil, appName+":")
	}
	return cache.NewDefaultKeyer()
}

// newCache picks the backend: none when disabled, Redis when an address is
// configured, and the file cache otherwise.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	switch {
	case noCache || cfg.Disabled:
		return cache.NewNullCache(), nil
	case cfg.RedisAddr != "":
		c.Logger.Debug("using redis cache", "addr", cfg.RedisAddr)
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	}

	dir, err := c.fileCacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ontoview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/ontoview/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// defaultConfigPath returns the config file in the config directory, or ""
// when there is none.
func defaultConfigPath() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// =============================================================================
// Options Helpers
// =============================================================================

// setCLIDefaults applies the built-in defaults so that flag help shows them.
func setCLIDefaults(opts *pipeline.Options) {
	opts.Layout = layout.DefaultConfig()
	opts.SetViewDefaults()
	opts.SetRenderDefaults()
}

// applyConfig copies configuration values into opts for every flag the user
// did not set explicitly.
func (c *CLI) applyConfig(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	cfg := c.Config

	if !flags.Changed("node-width") {
		opts.Layout.NodeWidth = cfg.Layout.NodeWidth
	}
	if !flags.Changed("gap") {
		opts.Layout.HorizontalGap = cfg.Layout.HorizontalGap
	}
	if !flags.Changed("spacing") {
		opts.Layout.VerticalSpacing = cfg.Layout.VerticalSpacing
	}
	if !flags.Changed("group-threshold") {
		opts.GroupThreshold = cfg.View.GroupThreshold
	}
	if !flags.Changed("initial-depth") {
		opts.InitialDepth = cfg.View.InitialDepth
	}
	if opts.TTL == 0 {
		opts.TTL = cfg.Cache.TTL.Duration
	}
	opts.Logger = commandLogger(cmd.Context(), c.Logger)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}
