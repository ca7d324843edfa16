// Package config handles TOML-based configuration loading and validation.
// Values are merged as: defaults < config file < environment < CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"vidresolve/internal/extract"
	"vidresolve/internal/httputil"
	"vidresolve/internal/player"
)

// envPrefix namespaces environment overrides, e.g. VIDRESOLVE_TIMEOUT_SECONDS.
const envPrefix = "VIDRESOLVE_"

// Config holds all application configuration.
type Config struct {
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Marker         string `toml:"marker"`
	Prefix         string `toml:"prefix"`
	RouteKey       string `toml:"route_key"`
	Workers        int    `toml:"workers"`
	Retries        int    `toml:"retries"`
	DownloadDir    string `toml:"download_dir"`
	Listen         string `toml:"listen"`
	Player         string `toml:"player"`
	Debug          bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		UserAgent:      httputil.MobileUserAgent,
		TimeoutSeconds: 30,
		Marker:         extract.DefaultMarker,
		Prefix:         extract.DefaultPrefix,
		RouteKey:       extract.DefaultRouteKey,
		Workers:        4,
		Retries:        0,
		DownloadDir:    "~/Videos/vidresolve",
		Listen:         ":8080",
		Player:         "mpv",
		Debug:          false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vidresolve"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vidresolve"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the default config file and environment.
// If the config file doesn't exist, defaults are used.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		path = ""
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file. A .env file in the working directory, when present, is loaded
// into the environment first without overriding variables already set.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from VIDRESOLVE_* environment variables.
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"USER_AGENT":   &c.UserAgent,
		"MARKER":       &c.Marker,
		"PREFIX":       &c.Prefix,
		"ROUTE_KEY":    &c.RouteKey,
		"DOWNLOAD_DIR": &c.DownloadDir,
		"LISTEN":       &c.Listen,
		"PLAYER":       &c.Player,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"TIMEOUT_SECONDS": &c.TimeoutSeconds,
		"WORKERS":         &c.Workers,
		"RETRIES":         &c.Retries,
	}
	for name, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(envPrefix + "DEBUG"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sDEBUG: %w", envPrefix, err)
		}
		c.Debug = b
	}

	return nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.TimeoutSeconds < 1 || c.TimeoutSeconds > 600 {
		return fmt.Errorf("timeout_seconds %d out of range (1-600)", c.TimeoutSeconds)
	}
	if c.Marker == "" || c.Prefix == "" {
		return fmt.Errorf("marker and prefix cannot be empty")
	}
	if !strings.Contains(c.Prefix, c.Marker) {
		return fmt.Errorf("prefix %q must contain marker %q", c.Prefix, c.Marker)
	}
	if c.RouteKey == "" {
		return fmt.Errorf("route key cannot be empty")
	}
	if c.Workers < 1 || c.Workers > 64 {
		return fmt.Errorf("workers %d out of range (1-64)", c.Workers)
	}
	if c.Retries < 0 || c.Retries > 10 {
		return fmt.Errorf("retries %d out of range (0-10)", c.Retries)
	}
	if !slices.Contains(player.Names, c.Player) {
		return fmt.Errorf("invalid player %q, must be one of: %s", c.Player, strings.Join(player.Names, ", "))
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ExtractConfig returns the site-specific extraction settings.
func (c *Config) ExtractConfig() extract.Config {
	return extract.Config{Marker: c.Marker, Prefix: c.Prefix, RouteKey: c.RouteKey}
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	return ExpandHome(c.DownloadDir)
}

// ExpandHome resolves a leading ~/ and returns an absolute path.
func ExpandHome(dir string) (string, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}
