// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vidresolve/internal/config"
	"vidresolve/internal/cookiestore"
	"vidresolve/internal/extract"
	"vidresolve/internal/fetch"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagConfig    string
	flagTimeout   time.Duration
	flagUserAgent string
	flagRouteKey  string
	flagDebug     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < env < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "vidresolve [share text]",
	Short: "Resolve a short-video share link to its watermark-free media URL",
	Long: `vidresolve takes the text a short-video app copies to the clipboard,
follows the share link to the video page, reads the embedded router data
and prints the direct, watermark-free media URL.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              resolveRun,
	SilenceUsage:      true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/vidresolve/config.toml)")
	rootCmd.PersistentFlags().DurationVarP(&flagTimeout, "timeout", "t", 0, "Per-request timeout, e.g. 15s")
	rootCmd.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "User-Agent sent to the share host")
	rootCmd.PersistentFlags().StringVar(&flagRouteKey, "route-key", "", "Route key under loaderData (default: video_(id)/page)")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	addResolveFlags(rootCmd)

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < env < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagTimeout > 0 {
		cfg.TimeoutSeconds = int(flagTimeout.Round(time.Second) / time.Second)
		if cfg.TimeoutSeconds < 1 {
			cfg.TimeoutSeconds = 1
		}
	}
	if flagUserAgent != "" {
		cfg.UserAgent = flagUserAgent
	}
	if flagRouteKey != "" {
		cfg.RouteKey = flagRouteKey
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !cfg.Debug})
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	return nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

// newPipeline wires a fresh cookie store, fetcher and extractor from cfg.
// The fetcher is returned as well so downloads can reuse its client.
func newPipeline() (*extract.Pipeline, *fetch.Fetcher) {
	log := logrus.StandardLogger()
	f := fetch.New(cookiestore.New(), fetch.Options{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout(),
		Logger:    log,
	})
	return extract.New(f, cfg.ExtractConfig(), log), f
}
