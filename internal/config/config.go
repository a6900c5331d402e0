// Package config handles resolving configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// LogLevel is the minimum severity of emitted log records.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// Config is the application configuration, read from a YAML file.
type Config struct {
	// LogLevel is the minimum level logged.
	LogLevel LogLevel `yaml:"log_level"`
	// WebAddress is the host:port the web server listens on.
	WebAddress string `yaml:"web_address"`
	// UpstreamURI is the root of the content origin serving plain markup.
	// Required unless DevMode is set.
	UpstreamURI string `yaml:"upstream_uri"`
	// DevMode enables request logging, source locations in logs, and serves
	// a generated origin when UpstreamURI is empty.
	DevMode bool `yaml:"dev_mode"`
	// Concurrency bounds how many blocks of a page are decorated at once.
	Concurrency int `yaml:"concurrency"`
	// HTTPCacheBytes bounds the in-memory cache of origin responses.
	HTTPCacheBytes int64 `yaml:"http_cache_bytes"`
	// ImageCacheBytes bounds the cache of rendered responsive pictures.
	ImageCacheBytes int64 `yaml:"image_cache_bytes"`
}

// Default returns a version of the config with all default values populated.
// Note that this configuration is _not_ valid, as the user must set
// upstream_uri or enable dev_mode.
func Default() *Config {
	return &Config{
		LogLevel:        LogLevelInfo,
		WebAddress:      "localhost:9999",
		UpstreamURI:     "", // must be set by the user
		DevMode:         false,
		Concurrency:     runtime.GOMAXPROCS(0),
		HTTPCacheBytes:  256 * 1024 * 1024, // 256 MiB
		ImageCacheBytes: 8 * 1024 * 1024,   // 8 MiB
	}
}

// Load loads a YAML configuration file from a path, merges it with defaults, and
// validates it for completeness.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem with the config.
func (c *Config) Validate() error {
	var errs []error
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if _, _, err := net.SplitHostPort(c.WebAddress); err != nil {
		errs = append(errs, fmt.Errorf("web_address: %w", err))
	}
	switch {
	case c.UpstreamURI == "" && !c.DevMode:
		errs = append(errs, errors.New("upstream_uri: required unless dev_mode is set"))
	case c.UpstreamURI != "":
		if uri, err := url.Parse(c.UpstreamURI); err != nil {
			errs = append(errs, fmt.Errorf("upstream_uri: %w", err))
		} else if !uri.IsAbs() || uri.Host == "" {
			errs = append(errs, fmt.Errorf("upstream_uri: must be an absolute URL: %q", c.UpstreamURI))
		}
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency: must be at least 1, got %d", c.Concurrency))
	}
	if c.HTTPCacheBytes < 0 {
		errs = append(errs, fmt.Errorf("http_cache_bytes: must not be negative, got %d", c.HTTPCacheBytes))
	}
	if c.ImageCacheBytes < 0 {
		errs = append(errs, fmt.Errorf("image_cache_bytes: must not be negative, got %d", c.ImageCacheBytes))
	}
	return errors.Join(errs...)
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return out, nil
}
