package auth

import (
	"fmt"
	"time"
)

// Supported signing methods.
const (
	MethodHS256 = "HS256"
	MethodHS384 = "HS384"
	MethodHS512 = "HS512"
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

const defaultTokenTTL = 24 * time.Hour

// Config configures API authentication.
type Config struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Secret signs and verifies tokens. Set it through the environment.
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Method   string        `yaml:"method" mapstructure:"method"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Audience string        `yaml:"audience" mapstructure:"audience"`
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = MethodHS256
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
}

// Validate checks the configuration. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("auth: secret must be at least %d characters", MinSecretLength)
	}
	switch c.Method {
	case MethodHS256, MethodHS384, MethodHS512:
	default:
		return fmt.Errorf("auth: unsupported signing method %q", c.Method)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("auth: token_ttl must be positive")
	}
	return nil
}
