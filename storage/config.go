package storage

import (
	"fmt"
	"time"
)

// Backend names.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
	ProviderMinio = "minio"
)

// Config holds storage configuration.
type Config struct {
	// Enabled controls whether exported transcripts can be stored.
	Enabled bool `mapstructure:"enabled" json:"enabled"`

	// Provider selects the backend: "local", "s3" or "minio".
	Provider string `mapstructure:"provider" json:"provider"`

	// URLExpiry is the lifetime of signed links handed to clients. Zero
	// returns plain URLs.
	URLExpiry time.Duration `mapstructure:"url_expiry" json:"url_expiry"`

	// Backends holds per-backend settings keyed by backend name.
	Backends map[string]map[string]any `mapstructure:"backends" json:"-"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.URLExpiry == 0 {
		c.URLExpiry = time.Hour
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal, ProviderS3, ProviderMinio:
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	if c.URLExpiry < 0 {
		return fmt.Errorf("storage: url_expiry must not be negative")
	}
	return nil
}

// BackendConfig returns the settings of the selected backend.
func (c *Config) BackendConfig() map[string]any {
	return c.Backends[c.Provider]
}
