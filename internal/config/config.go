// Package config provides configuration management for the blogjson tool.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the main application configuration.
type Config struct {
	DataFile string     `yaml:"data_file"` // Path to the blog JSON document
	Strict   *bool      `yaml:"strict"`    // Validate invariants on load, pointer to distinguish unset from false
	Log      LogConfig  `yaml:"log"`
	Feed     FeedConfig `yaml:"feed"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// FeedConfig describes the feed produced from the blog.
type FeedConfig struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"` // Base URL, entry links are <link>/<slug>
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Email       string `yaml:"email"`
	Limit       int    `yaml:"limit"`  // Maximum number of items, defaults to 20
	Format      string `yaml:"format"` // rss, atom or json
}

var validLogLevels = []string{"debug", "info", "warn", "error"}
var validLogFormats = []string{"text", "json"}
var validFeedFormats = []string{"rss", "atom", "json"}

// Load reads and parses a configuration file from the specified path.
// A missing file is not an error; defaults are used instead.
func Load(path string) (*Config, error) {
	var config Config

	// #nosec G304 -- path is provided by user as configuration file path
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// fall through to defaults
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	config.applyDefaults()

	// Override with environment variables (env vars take precedence)
	if dataFile := os.Getenv("BLOG_DATA_FILE"); dataFile != "" {
		config.DataFile = dataFile
	}
	if level := os.Getenv("BLOG_LOG_LEVEL"); level != "" {
		config.Log.Level = strings.ToLower(level)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

func (c *Config) applyDefaults() {
	if c.DataFile == "" {
		c.DataFile = "data.json"
	}
	if c.Strict == nil {
		strict := true
		c.Strict = &strict
	}

	// Set defaults for logging
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Set defaults for feed
	if c.Feed.Title == "" {
		c.Feed.Title = "Blog"
	}
	if c.Feed.Link == "" {
		c.Feed.Link = "http://localhost"
	}
	c.Feed.Link = strings.TrimRight(c.Feed.Link, "/")
	if c.Feed.Limit == 0 {
		c.Feed.Limit = 20
	}
	if c.Feed.Format == "" {
		c.Feed.Format = "rss"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("data_file cannot be empty")
	}

	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %s, got %q", strings.Join(validLogLevels, ", "), c.Log.Level)
	}
	if !slices.Contains(validLogFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %s, got %q", strings.Join(validLogFormats, ", "), c.Log.Format)
	}

	if c.Feed.Limit < 0 {
		return fmt.Errorf("feed.limit cannot be negative, got %d", c.Feed.Limit)
	}
	if !slices.Contains(validFeedFormats, c.Feed.Format) {
		return fmt.Errorf("feed.format must be one of %s, got %q", strings.Join(validFeedFormats, ", "), c.Feed.Format)
	}

	return nil
}

// IsStrict reports whether loads should validate invariants.
func (c *Config) IsStrict() bool {
	return c.Strict == nil || *c.Strict
}

// GetDataFile returns the data file path. Load has already applied the
// BLOG_DATA_FILE override.
func (c *Config) GetDataFile() string {
	return c.DataFile
}
