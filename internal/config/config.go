// Package config loads launchfeed settings from the environment, with an
// optional TOML profile file for source tuning.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DatabaseURL string // LAUNCHFEED_DATABASE_URL (required)
	SourceURL   string // LAUNCHFEED_SOURCE_URL (default "https://api.spacexdata.com/v4")
	NATSURL     string // LAUNCHFEED_NATS_URL (optional, empty = no events)

	// Source fetch tuning
	PageSize      int           // LAUNCHFEED_PAGE_SIZE (default 100)
	MaxPages      int           // LAUNCHFEED_MAX_PAGES (default 50; runaway-pagination guard)
	SourceTimeout time.Duration // LAUNCHFEED_SOURCE_TIMEOUT (default 60s)

	// Watch-mode settings
	Interval time.Duration // LAUNCHFEED_INTERVAL (default 10m)

	// Archive settings
	ArchiveS3Bucket   string // LAUNCHFEED_ARCHIVE_S3_BUCKET (enables S3 archive when set)
	ArchiveS3Endpoint string // LAUNCHFEED_ARCHIVE_S3_ENDPOINT (custom endpoint for MinIO)
	ArchiveS3Region   string // LAUNCHFEED_ARCHIVE_S3_REGION (default "us-east-1")
	ArchiveS3Key      string // LAUNCHFEED_ARCHIVE_S3_KEY (default "launchfeed/snapshots.jsonl")
}

// Profile is the optional TOML file shape. Values set here are defaults;
// environment variables always win.
type Profile struct {
	SourceURL     string `toml:"source_url,omitempty"`
	PageSize      int    `toml:"page_size,omitempty"`
	MaxPages      int    `toml:"max_pages,omitempty"`
	SourceTimeout string `toml:"source_timeout,omitempty"`
}

// Load reads configuration from the environment. When LAUNCHFEED_CONFIG
// points at a TOML profile (or ~/.config/launchfeed/config.toml exists),
// the profile supplies source defaults.
func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:       os.Getenv("LAUNCHFEED_DATABASE_URL"),
		SourceURL:         envOrDefault("LAUNCHFEED_SOURCE_URL", "https://api.spacexdata.com/v4"),
		NATSURL:           os.Getenv("LAUNCHFEED_NATS_URL"),
		PageSize:          100,
		MaxPages:          50,
		SourceTimeout:     60 * time.Second,
		Interval:          10 * time.Minute,
		ArchiveS3Bucket:   os.Getenv("LAUNCHFEED_ARCHIVE_S3_BUCKET"),
		ArchiveS3Endpoint: os.Getenv("LAUNCHFEED_ARCHIVE_S3_ENDPOINT"),
		ArchiveS3Region:   envOrDefault("LAUNCHFEED_ARCHIVE_S3_REGION", "us-east-1"),
		ArchiveS3Key:      envOrDefault("LAUNCHFEED_ARCHIVE_S3_KEY", "launchfeed/snapshots.jsonl"),
	}

	if err := applyProfile(c); err != nil {
		return nil, err
	}

	if v := os.Getenv("LAUNCHFEED_SOURCE_URL"); v != "" {
		c.SourceURL = v
	}
	if err := envInt("LAUNCHFEED_PAGE_SIZE", &c.PageSize); err != nil {
		return nil, err
	}
	if err := envInt("LAUNCHFEED_MAX_PAGES", &c.MaxPages); err != nil {
		return nil, err
	}
	if err := envDuration("LAUNCHFEED_SOURCE_TIMEOUT", &c.SourceTimeout); err != nil {
		return nil, err
	}
	if err := envDuration("LAUNCHFEED_INTERVAL", &c.Interval); err != nil {
		return nil, err
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("LAUNCHFEED_DATABASE_URL is required")
	}
	if c.PageSize <= 0 {
		return nil, fmt.Errorf("LAUNCHFEED_PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.MaxPages <= 0 {
		return nil, fmt.Errorf("LAUNCHFEED_MAX_PAGES must be positive, got %d", c.MaxPages)
	}

	return c, nil
}

// applyProfile merges the optional TOML profile into c.
func applyProfile(c *Config) error {
	path := os.Getenv("LAUNCHFEED_CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = home + "/.config/launchfeed/config.toml"
	}

	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("profile %s: %w", path, err)
	}

	if p.SourceURL != "" {
		c.SourceURL = p.SourceURL
	}
	if p.PageSize > 0 {
		c.PageSize = p.PageSize
	}
	if p.MaxPages > 0 {
		c.MaxPages = p.MaxPages
	}
	if p.SourceTimeout != "" {
		d, err := time.ParseDuration(p.SourceTimeout)
		if err != nil {
			return fmt.Errorf("profile %s: source_timeout: %w", path, err)
		}
		c.SourceTimeout = d
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
