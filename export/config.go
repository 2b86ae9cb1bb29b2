package export

import (
	"fmt"
	"strings"

	"github.com/kbukum/speechkit/alignment"
	"github.com/kbukum/speechkit/encryption"
	"github.com/kbukum/speechkit/resilience"
)

// DefaultKeyPrefix is the storage prefix exported transcripts are written under.
const DefaultKeyPrefix = "transcripts"

// Config configures transcript export.
type Config struct {
	// KeyPrefix is the first path segment of stored object keys.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix"`
	// TranslationLabel names the translation line in txt and pdf output.
	TranslationLabel string `yaml:"translation_label" mapstructure:"translation_label"`
	// PDFFont is an optional UTF-8 TrueType font file for PDF output. Without
	// it the core Arial font is used and characters outside cp1252 are lost.
	PDFFont string `yaml:"pdf_font" mapstructure:"pdf_font"`
	// Retry governs storage uploads.
	Retry resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
	// Encryption seals stored objects when a key is set. Downloads are
	// never encrypted.
	Encryption encryption.Config `yaml:"encryption" mapstructure:"encryption"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	c.KeyPrefix = strings.Trim(c.KeyPrefix, "/")
	if c.TranslationLabel == "" {
		c.TranslationLabel = alignment.DefaultTranslationLabel
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = resilience.DefaultRetryConfig()
	}
	c.Encryption.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("export.retry.max_attempts must be at least 1")
	}
	return c.Encryption.Validate()
}
