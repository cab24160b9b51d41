package config

import "postergen/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" toml:"level"`           // debug, info, warn, error
	Format     string          `yaml:"format" toml:"format"`         // json, text
	DebugMode  bool            `yaml:"debug_mode" toml:"debug_mode"` // per-category log files
	Dir        string          `yaml:"dir" toml:"dir"`
	Categories map[string]bool `yaml:"categories" toml:"categories"` // per-category file toggles
}

// IsCategoryEnabled returns whether file logging is enabled for a category.
// Returns false if debug_mode is false.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Options converts the config section into logging options.
func (c *LoggingConfig) Options(console bool) logging.Options {
	return logging.Options{
		Level:      c.Level,
		Format:     c.Format,
		DebugMode:  c.DebugMode,
		Dir:        c.Dir,
		Categories: c.Categories,
		Console:    console,
	}
}
