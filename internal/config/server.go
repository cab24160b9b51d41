package config

import "time"

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen            string `yaml:"listen" toml:"listen"`
	Mode              string `yaml:"mode" toml:"mode"` // gin mode: debug, release, test
	ReadHeaderTimeout string `yaml:"read_header_timeout" toml:"read_header_timeout"`
	ShutdownTimeout   string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	MaxUploadMB       int    `yaml:"max_upload_mb" toml:"max_upload_mb"`
}

// DefaultServerConfig returns the default HTTP settings.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Listen:            "127.0.0.1:8080",
		Mode:              "release",
		ReadHeaderTimeout: "5s",
		ShutdownTimeout:   "5s",
		MaxUploadMB:       20,
	}
}

// GetReadHeaderTimeout returns the header read timeout as a duration.
func (s ServerConfig) GetReadHeaderTimeout() time.Duration {
	return parseDurationOr(s.ReadHeaderTimeout, 5*time.Second)
}

// GetShutdownTimeout returns the graceful shutdown timeout as a duration.
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDurationOr(s.ShutdownTimeout, 5*time.Second)
}

// MaxUploadBytes returns the multipart upload cap in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(s.MaxUploadMB) << 20
}
