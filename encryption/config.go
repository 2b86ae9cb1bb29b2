package encryption

import "fmt"

// Algorithm names an AEAD cipher.
type Algorithm string

const (
	// AlgorithmAESGCM is AES-256-GCM, the default.
	AlgorithmAESGCM Algorithm = "aes-256-gcm"
	// AlgorithmChaCha20 is ChaCha20-Poly1305, faster on CPUs without AES
	// instructions.
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// MinKeyLength is the shortest accepted passphrase.
const MinKeyLength = 16

// Config selects the cipher. An empty Key disables encryption.
type Config struct {
	Key       string    `yaml:"key" mapstructure:"key"`
	Algorithm Algorithm `yaml:"algorithm" mapstructure:"algorithm"`
}

// Enabled reports whether a key is configured.
func (c *Config) Enabled() bool { return c.Key != "" }

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmAESGCM
	}
}

// Validate checks the key length and algorithm.
func (c *Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if len(c.Key) < MinKeyLength {
		return fmt.Errorf("encryption: key must be at least %d characters", MinKeyLength)
	}
	switch c.Algorithm {
	case AlgorithmAESGCM, AlgorithmChaCha20:
		return nil
	default:
		return fmt.Errorf("encryption: unknown algorithm %q", c.Algorithm)
	}
}
