// Package provider holds the contract shared by all speech backends
// (diarization, transcription, translation): a name, an availability probe,
// and a factory that builds a backend from a loosely typed config map.
package provider

import (
	"context"
	"time"

	"github.com/spf13/cast"
)

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from configuration.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// String reads a string option. Missing keys yield "".
func String(cfg map[string]any, key string) string {
	return cast.ToString(cfg[key])
}

// Int reads an integer option. Missing or malformed keys yield 0.
func Int(cfg map[string]any, key string) int {
	return cast.ToInt(cfg[key])
}

// Duration reads a duration option given as a time.Duration, a string such
// as "90s", or a number of seconds.
func Duration(cfg map[string]any, key string) time.Duration {
	switch v := cfg[key].(type) {
	case nil:
		return 0
	case time.Duration:
		return v
	case string:
		return cast.ToDuration(v)
	case int, int64, float64, float32, int32:
		return time.Duration(cast.ToFloat64(v) * float64(time.Second))
	default:
		return cast.ToDuration(v)
	}
}

// Bool reads a boolean option.
func Bool(cfg map[string]any, key string) bool {
	return cast.ToBool(cfg[key])
}

// Map reads a nested block such as "tls". Missing keys yield nil.
func Map(cfg map[string]any, key string) map[string]any {
	if cfg[key] == nil {
		return nil
	}
	return cast.ToStringMap(cfg[key])
}
