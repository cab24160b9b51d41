package config

import "time"

// BrandingConfig describes the organization whose logo is placed on posters
// when the user does not opt into custom branding.
type BrandingConfig struct {
	OrganizationName string `yaml:"organization_name" toml:"organization_name"`
	Country          string `yaml:"country" toml:"country"`
	Slogan           string `yaml:"slogan" toml:"slogan"`
	DefaultLogoURL   string `yaml:"default_logo_url" toml:"default_logo_url"`
	LogoFetchTimeout string `yaml:"logo_fetch_timeout" toml:"logo_fetch_timeout"`

	// FilePrefix names downloads: {prefix}-Event-Poster.png, {prefix}-History-{ms}.png
	FilePrefix string `yaml:"file_prefix" toml:"file_prefix"`
}

// DefaultBrandingConfig returns the MISA branding.
func DefaultBrandingConfig() BrandingConfig {
	return BrandingConfig{
		OrganizationName: "MISA",
		Country:          "Vietnam",
		Slogan:           "Tin cậy - Tiện ích - Tận tình",
		DefaultLogoURL:   "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c2/MISA_logo.svg/2560px-MISA_logo.svg.png",
		LogoFetchTimeout: "10s",
		FilePrefix:       "MISA",
	}
}

// GetLogoFetchTimeout returns the default-logo fetch timeout as a duration.
func (b BrandingConfig) GetLogoFetchTimeout() time.Duration {
	return parseDurationOr(b.LogoFetchTimeout, 10*time.Second)
}
