package transcription

// Config selects and configures the transcription backend.
type Config struct {
	// Provider is the default backend name ("whisper", "openai").
	Provider string `yaml:"provider" mapstructure:"provider"`
	// Language is passed to every call as a hint. Empty means auto-detect.
	Language string `yaml:"language" mapstructure:"language"`
	// Model overrides each backend's default model.
	Model string `yaml:"model" mapstructure:"model"`
	// Backends holds per-backend settings keyed by backend name.
	Backends map[string]map[string]any `yaml:"backends" mapstructure:"backends"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "whisper"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return nil
}
