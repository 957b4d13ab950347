// Package config loads server configuration from the environment, with an
// optional TOML file supplying defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DatabaseURL string // PHOTODIT_DATABASE_URL (required)
	HTTPAddr    string // PHOTODIT_HTTP_ADDR (default ":8080")
	AuthToken   string // PHOTODIT_AUTH_TOKEN (optional, empty = auth disabled)
	NATSURL     string // PHOTODIT_NATS_URL (optional, empty = no events)

	CacheTTL time.Duration // PHOTODIT_CACHE_TTL (default 5m)

	// Media settings
	MediaBucket   string // PHOTODIT_MEDIA_BUCKET (enables uploads when set)
	MediaRegion   string // PHOTODIT_MEDIA_REGION (default "us-east-1")
	MediaEndpoint string // PHOTODIT_MEDIA_ENDPOINT (custom endpoint for MinIO)
	MediaBaseURL  string // PHOTODIT_MEDIA_BASE_URL (public CDN prefix)

	// Backup settings
	BackupInterval time.Duration // PHOTODIT_BACKUP_INTERVAL (default 1h; 0 = disabled)
	BackupKey      string        // PHOTODIT_BACKUP_KEY (default "photodit/backup.jsonl")
}

// fileConfig mirrors Config for the optional TOML file. File values act as
// defaults; environment variables always win.
type fileConfig struct {
	DatabaseURL    string `toml:"database_url"`
	HTTPAddr       string `toml:"http_addr"`
	AuthToken      string `toml:"auth_token"`
	NATSURL        string `toml:"nats_url"`
	CacheTTL       string `toml:"cache_ttl"`
	MediaBucket    string `toml:"media_bucket"`
	MediaRegion    string `toml:"media_region"`
	MediaEndpoint  string `toml:"media_endpoint"`
	MediaBaseURL   string `toml:"media_base_url"`
	BackupInterval string `toml:"backup_interval"`
	BackupKey      string `toml:"backup_key"`
}

// Load reads configuration from the PHOTODIT_CONFIG_FILE TOML file (when
// set) and the environment.
func Load() (*Config, error) {
	var file fileConfig
	if path := os.Getenv("PHOTODIT_CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	c := &Config{
		DatabaseURL:   firstOf(os.Getenv("PHOTODIT_DATABASE_URL"), file.DatabaseURL),
		HTTPAddr:      firstOf(os.Getenv("PHOTODIT_HTTP_ADDR"), file.HTTPAddr, ":8080"),
		AuthToken:     firstOf(os.Getenv("PHOTODIT_AUTH_TOKEN"), file.AuthToken),
		NATSURL:       firstOf(os.Getenv("PHOTODIT_NATS_URL"), file.NATSURL),
		MediaBucket:   firstOf(os.Getenv("PHOTODIT_MEDIA_BUCKET"), file.MediaBucket),
		MediaRegion:   firstOf(os.Getenv("PHOTODIT_MEDIA_REGION"), file.MediaRegion, "us-east-1"),
		MediaEndpoint: firstOf(os.Getenv("PHOTODIT_MEDIA_ENDPOINT"), file.MediaEndpoint),
		MediaBaseURL:  firstOf(os.Getenv("PHOTODIT_MEDIA_BASE_URL"), file.MediaBaseURL),
		BackupKey:     firstOf(os.Getenv("PHOTODIT_BACKUP_KEY"), file.BackupKey, "photodit/backup.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("PHOTODIT_DATABASE_URL is required")
	}

	ttl, err := durationOf("PHOTODIT_CACHE_TTL", file.CacheTTL, 5*time.Minute)
	if err != nil {
		return nil, err
	}
	c.CacheTTL = ttl

	interval, err := durationOf("PHOTODIT_BACKUP_INTERVAL", file.BackupInterval, time.Hour)
	if err != nil {
		return nil, err
	}
	c.BackupInterval = interval

	return c, nil
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// durationOf parses a duration from the environment variable named key,
// falling back to the file value, then the default.
func durationOf(key, fileValue string, fallback time.Duration) (time.Duration, error) {
	raw := firstOf(os.Getenv(key), fileValue)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
