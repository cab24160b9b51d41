package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds all postergen configuration.
type Config struct {
	Name string `yaml:"name" toml:"name"`

	// HTTP API
	Server ServerConfig `yaml:"server" toml:"server"`

	// Gemini models and credentials
	Gemini GeminiConfig `yaml:"gemini" toml:"gemini"`

	// Default organization branding used when no custom logos are supplied
	Branding BrandingConfig `yaml:"branding" toml:"branding"`

	// Logging
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:     "postergen",
		Server:   DefaultServerConfig(),
		Gemini:   DefaultGeminiConfig(),
		Branding: DefaultBrandingConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Dir:    filepath.Join(".postergen", "logs"),
		},
	}
}

// Load loads configuration from a YAML or TOML file (chosen by extension).
// A missing file yields the defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML or TOML file (chosen by extension).
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal(path)
	if err != nil {
		return err
	}

	// The file may carry an API key.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal encodes the configuration in the format implied by path's extension.
func (c *Config) Marshal(path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// API_KEY is what the browser build of the tool read; GEMINI_API_KEY wins.
	if key := os.Getenv("API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if url := os.Getenv("GEMINI_BASE_URL"); url != "" {
		c.Gemini.BaseURL = url
	}
	if listen := os.Getenv("POSTERGEN_LISTEN"); listen != "" {
		c.Server.Listen = listen
	}
	if level := os.Getenv("POSTERGEN_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// ValidAspectRatios lists the poster formats the generator accepts.
var ValidAspectRatios = []string{"16:9", "3:4"}

// ValidImageSizes lists the output quality tiers accepted by the image model.
var ValidImageSizes = []string{"1K", "2K", "4K"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key not configured (set GEMINI_API_KEY or gemini.api_key)")
	}
	if !contains(ValidImageSizes, c.Gemini.ImageSize) {
		return fmt.Errorf("invalid gemini.image_size: %s (valid: %v)", c.Gemini.ImageSize, ValidImageSizes)
	}
	if c.Gemini.PosterModel == "" || c.Gemini.ExtractModel == "" || c.Gemini.CleanModel == "" {
		return fmt.Errorf("gemini models must not be empty")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
