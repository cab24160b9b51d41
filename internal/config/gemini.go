package config

import "time"

// GeminiConfig configures the Gemini models used for generation, extraction
// and background cleaning.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key" toml:"api_key"`
	BaseURL string `yaml:"base_url" toml:"base_url"` // empty = SDK default

	// PosterModel renders the poster (multi-image input, image output).
	PosterModel string `yaml:"poster_model" toml:"poster_model"`

	// ExtractModel reads an invitation document and answers with JSON.
	ExtractModel string `yaml:"extract_model" toml:"extract_model"`

	// CleanModel recreates a background without text or logos.
	CleanModel string `yaml:"clean_model" toml:"clean_model"`

	// ImageSize is the requested output quality tier: 1K, 2K, 4K
	ImageSize string `yaml:"image_size" toml:"image_size"`

	// Timeout bounds a single model call, e.g. "180s"
	Timeout string `yaml:"timeout" toml:"timeout"`
}

// DefaultGeminiConfig returns the models the poster tool was tuned against.
func DefaultGeminiConfig() GeminiConfig {
	return GeminiConfig{
		PosterModel:  "gemini-3-pro-image-preview",
		ExtractModel: "gemini-2.5-flash",
		CleanModel:   "gemini-2.5-flash-image",
		ImageSize:    "2K",
		Timeout:      "180s",
	}
}

// GetTimeout returns the per-call timeout as a duration.
func (g GeminiConfig) GetTimeout() time.Duration {
	return parseDurationOr(g.Timeout, 180*time.Second)
}
