package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/cobra"

	"vidresolve/internal/config"
	"vidresolve/internal/download"
	"vidresolve/internal/extract"
	"vidresolve/internal/fetch"
	"vidresolve/internal/httputil"
	"vidresolve/internal/media"
	"vidresolve/internal/player"
	"vidresolve/internal/ui"
)

// Resolve flags, shared by the root command and `resolve`.
var (
	flagJSON      bool
	flagRetries   int
	flagDownload  bool
	flagOutputDir string
	flagPlay      bool
	flagPlayer    string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [share text]",
	Short: "Resolve one share text (the default command)",
	Args:  cobra.ArbitraryArgs,
	RunE:  resolveRun,
}

func init() {
	addResolveFlags(resolveCmd)
}

func addResolveFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Print the result as JSON")
	cmd.Flags().IntVarP(&flagRetries, "retries", "r", -1, "Retry transient fetch failures N times (default from config)")
	cmd.Flags().BoolVarP(&flagDownload, "download", "d", false, "Download the video after resolving")
	cmd.Flags().StringVarP(&flagOutputDir, "output", "o", "", "Download directory (default from config)")
	cmd.Flags().BoolVarP(&flagPlay, "play", "p", false, "Play the video after resolving")
	cmd.Flags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
}

// resolveRun is the default command: vidresolve <share text>
func resolveRun(cmd *cobra.Command, args []string) error {
	text, err := shareText(args, func() (string, error) {
		return ui.Input("Share text", os.Stdin)
	})
	if err != nil {
		return err
	}

	retries := cfg.Retries
	if flagRetries >= 0 {
		retries = flagRetries
	}

	ctx := cmd.Context()
	pipeline, fetcher := newPipeline()

	result, err := resolveWithRetry(ctx, pipeline, text, retries)
	if err != nil {
		return fmt.Errorf("%s: %w", extract.Classify(err), err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		fmt.Println(result.MediaURL)
	}

	if flagDownload {
		if err := downloadResult(ctx, fetcher, result); err != nil {
			return err
		}
	}

	if flagPlay {
		name := cfg.Player
		if flagPlayer != "" {
			name = flagPlayer
		}
		debugf("playing with %s", name)
		return player.Play(ctx, player.New(name), result, player.Options{
			Title:     httputil.MediaFilename(result.MediaURL),
			UserAgent: cfg.UserAgent,
			Referer:   result.PageURL,
		})
	}

	return nil
}

// shareText joins args, falling back to prompt when they are blank.
func shareText(args []string, prompt func() (string, error)) (string, error) {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	text, err := prompt()
	if err != nil {
		return "", fmt.Errorf("no share text provided: %w", err)
	}
	return text, nil
}

// downloadDir picks the --output flag over the configured directory.
func downloadDir() (string, error) {
	if flagOutputDir != "" {
		return config.ExpandHome(flagOutputDir)
	}
	return cfg.ExpandDownloadDir()
}

func downloadResult(ctx context.Context, fetcher *fetch.Fetcher, result *media.Result) error {
	dir, err := downloadDir()
	if err != nil {
		return fmt.Errorf("resolving download dir: %w", err)
	}

	outputPath, err := download.New(fetcher.Client(), dir, nil).Download(ctx, result.MediaURL, "")
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Downloaded: %s\n", outputPath)
	return nil
}

// resolveWithRetry runs one extraction, retrying only failures that a later
// attempt could fix. Each attempt restarts the pipeline from the share text.
func resolveWithRetry(ctx context.Context, ext extract.Extractor, text string, retries int) (*media.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return retry.DoWithData(
		func() (*media.Result, error) {
			return ext.Extract(ctx, text)
		},
		retry.Context(ctx),
		retry.Attempts(uint(retries)+1),
		retry.RetryIf(extract.Retryable),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			debugf("attempt %d failed, retrying: %v", n+1, err)
		}),
	)
}
