package audio

import (
	"fmt"
	"os"
	"time"
)

// DefaultSampleRate is the canonical rate every backend receives.
const DefaultSampleRate = 16000

// Config configures audio preparation.
type Config struct {
	// SampleRate is the canonical sample rate in Hz.
	SampleRate int `yaml:"sample_rate" mapstructure:"sample_rate"`
	// FFmpegPath is the ffmpeg binary used for non-WAV input.
	FFmpegPath string `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	// WorkDir holds short-lived staging files. Defaults to the OS temp dir.
	WorkDir string `yaml:"work_dir" mapstructure:"work_dir"`
	// DecodeTimeout bounds a single ffmpeg conversion.
	DecodeTimeout time.Duration `yaml:"decode_timeout" mapstructure:"decode_timeout"`
	// MaxUploadBytes rejects larger uploads before decoding. Zero disables the check.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.WorkDir == "" {
		c.WorkDir = os.TempDir()
	}
	if c.DecodeTimeout <= 0 {
		c.DecodeTimeout = 5 * time.Minute
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 8000 || c.SampleRate > 48000 {
		return fmt.Errorf("audio.sample_rate must be between 8000 and 48000 (got: %d)", c.SampleRate)
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("audio.max_upload_bytes must not be negative")
	}
	return nil
}
