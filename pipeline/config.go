package pipeline

import (
	"fmt"
	"time"
)

// Config configures the orchestrator.
type Config struct {
	// MaxConcurrentTurns bounds how many turn sub-pipelines run at once.
	MaxConcurrentTurns int `mapstructure:"max_concurrent_turns"`
	// TurnTimeout bounds a single turn. Zero means no per-turn limit.
	TurnTimeout time.Duration `mapstructure:"turn_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MaxConcurrentTurns == 0 {
		c.MaxConcurrentTurns = 2
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxConcurrentTurns < 1 {
		return fmt.Errorf("pipeline: max_concurrent_turns must be at least 1, got %d", c.MaxConcurrentTurns)
	}
	if c.TurnTimeout < 0 {
		return fmt.Errorf("pipeline: turn_timeout must not be negative")
	}
	return nil
}
