package diarization

import "fmt"

// Config selects and configures the diarization backend.
type Config struct {
	// Provider is the default backend name ("pyannote", "assemblyai").
	Provider    string `yaml:"provider" mapstructure:"provider"`
	NumSpeakers int    `yaml:"num_speakers" mapstructure:"num_speakers"`
	MinSpeakers int    `yaml:"min_speakers" mapstructure:"min_speakers"`
	MaxSpeakers int    `yaml:"max_speakers" mapstructure:"max_speakers"`
	// Backends holds per-backend settings keyed by backend name. Each entry
	// is handed to that backend's factory as is.
	Backends map[string]map[string]any `yaml:"backends" mapstructure:"backends"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "pyannote"
	}
}

// Validate checks the speaker hints.
func (c *Config) Validate() error {
	if c.NumSpeakers < 0 || c.MinSpeakers < 0 || c.MaxSpeakers < 0 {
		return fmt.Errorf("diarization: speaker counts must not be negative")
	}
	if c.MaxSpeakers > 0 && c.MinSpeakers > c.MaxSpeakers {
		return fmt.Errorf("diarization: min_speakers %d exceeds max_speakers %d", c.MinSpeakers, c.MaxSpeakers)
	}
	return nil
}

// Options returns the speaker hints as call options.
func (c *Config) Options() Options {
	return Options{NumSpeakers: c.NumSpeakers, MinSpeakers: c.MinSpeakers, MaxSpeakers: c.MaxSpeakers}
}
