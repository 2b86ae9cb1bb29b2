package main

import (
	"fmt"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/auth"
	"github.com/kbukum/speechkit/config"
	"github.com/kbukum/speechkit/diarization"
	"github.com/kbukum/speechkit/export"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/pipeline"
	"github.com/kbukum/speechkit/server"
	"github.com/kbukum/speechkit/storage"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/translation"
	"github.com/kbukum/speechkit/version"
)

const serviceName = "speechkit"

// Config is the speechkit server configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Audio         audio.Config         `yaml:"audio" mapstructure:"audio"`
	Diarization   diarization.Config   `yaml:"diarization" mapstructure:"diarization"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
	Translation   translation.Config   `yaml:"translation" mapstructure:"translation"`
	Pipeline      pipeline.Config      `yaml:"pipeline" mapstructure:"pipeline"`
	Export        export.Config        `yaml:"export" mapstructure:"export"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills in every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.GetShortVersion()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Audio.ApplyDefaults()
	c.Diarization.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Translation.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Export.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports the first failure.
func (c *Config) Validate() error {
	sections := []struct {
		name string
		fn   func() error
	}{
		{"service", c.ServiceConfig.Validate},
		{"server", c.Server.Validate},
		{"auth", c.Auth.Validate},
		{"audio", c.Audio.Validate},
		{"diarization", c.Diarization.Validate},
		{"transcription", c.Transcription.Validate},
		{"translation", c.Translation.Validate},
		{"pipeline", c.Pipeline.Validate},
		{"export", c.Export.Validate},
		{"storage", c.Storage.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, s := range sections {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}
