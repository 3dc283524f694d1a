// Package cli implements the ocrsynth command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ocrsynth/pkg/buildinfo"
	"github.com/matzehuels/ocrsynth/pkg/cache"
	"github.com/matzehuels/ocrsynth/pkg/config"
	"github.com/matzehuels/ocrsynth/pkg/engine"
	"github.com/matzehuels/ocrsynth/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ocrsynth"

	// redisPasswordEnv holds the Redis password so it stays out of shell history.
	redisPasswordEnv = "OCRSYNTH_REDIS_PASSWORD"
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

	configPath string
	noCache    bool
	redisAddr  string
	redisDB    int
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "ocrsynth synthesizes degraded text images for OCR corpora",
		Long: `ocrsynth renders text and degrades it under named condition profiles
(skew, warp, speckle, worn strokes) to build reproducible OCR training and
test corpora. The same text, condition and seed always give the same image.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ocrsynth/config.toml)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the artifact cache")
	pf.StringVar(&c.redisAddr, "redis", "", "use the Redis cache at host:port instead of the file cache")
	pf.IntVar(&c.redisDB, "redis-db", 0, "Redis database number")

	root.AddCommand(c.synthCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.profilesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine and Runner Factory
// =============================================================================

// newEngine builds an engine from the config file: custom profiles, default
// overrides and registered fonts.
func (c *CLI) newEngine() (*engine.Engine, error) {
	cfg, err := config.LoadOptional(c.configPath)
	if err != nil {
		return nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	lib, err := cfg.FontLibrary()
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded profiles", "count", reg.Len(), "fonts", len(cfg.Fonts))
	return engine.New(reg, lib), nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	e, err := c.newEngine()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(e, store, nil, c.Logger), nil
}

// newCache returns the configured cache. An unusable file cache directory
// disables caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch {
	case c.noCache:
		return cache.NewNullCache(), nil
	case c.redisAddr != "":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.redisAddr,
			Password: os.Getenv(redisPasswordEnv),
			DB:       c.redisDB,
		})
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ocrsynth/).
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
