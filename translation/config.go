package translation

import "fmt"

// ProviderNone disables translation.
const ProviderNone = "none"

// Config selects the translation backend and the default language pair.
type Config struct {
	// Provider is the default backend name ("nllb", "openai", or "none").
	Provider      string                    `yaml:"provider" mapstructure:"provider"`
	DefaultSource string                    `yaml:"default_source" mapstructure:"default_source"`
	DefaultTarget string                    `yaml:"default_target" mapstructure:"default_target"`
	Backends      map[string]map[string]any `yaml:"backends" mapstructure:"backends"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "nllb"
	}
	if c.DefaultSource == "" {
		c.DefaultSource = Hindi.Name
	}
	if c.DefaultTarget == "" {
		c.DefaultTarget = English.Name
	}
}

// Enabled reports whether a translation backend is configured.
func (c *Config) Enabled() bool { return c.Provider != ProviderNone }

// Validate checks that both defaults are supported languages.
func (c *Config) Validate() error {
	if _, ok := Lookup(c.DefaultSource); !ok {
		return fmt.Errorf("translation: unknown default_source %q", c.DefaultSource)
	}
	if _, ok := Lookup(c.DefaultTarget); !ok {
		return fmt.Errorf("translation: unknown default_target %q", c.DefaultTarget)
	}
	return nil
}
