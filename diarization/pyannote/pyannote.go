// Package pyannote implements diarization.Provider on top of a pyannote.audio
// HTTP sidecar.
package pyannote

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/diarization"
	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/security"
)

const (
	// ProviderName is the registered name for the Pyannote provider.
	ProviderName = "pyannote"

	defaultPyannoteURL     = "http://localhost:8388"
	defaultPyannoteTimeout = 300 * time.Second
)

// Config holds configuration for the Pyannote diarization provider.
type Config struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// CircuitBreaker guards the sidecar when enabled.
	CircuitBreaker bool `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	// TLS is set for https sidecars with a private CA or mutual TLS.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// Provider implements diarization.Provider using the Pyannote HTTP sidecar.
type Provider struct {
	client *httpclient.Client
}

// NewProvider creates a new Pyannote diarization provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultPyannoteURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultPyannoteTimeout
	}
	hc := httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		TLS:     cfg.TLS,
		Retry:   httpclient.DefaultRetryConfig(),
	}
	if cfg.CircuitBreaker {
		hc.CircuitBreaker = httpclient.DefaultCircuitBreakerConfig(ProviderName)
	}
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("pyannote: %w", err)
	}
	return &Provider{client: client}, nil
}

// Factory returns a provider.Factory that creates Pyannote Provider
// instances from a generic config map.
func Factory() provider.Factory[diarization.Provider] {
	return func(cfg map[string]any) (diarization.Provider, error) {
		return NewProvider(Config{
			BaseURL:        provider.String(cfg, "base_url"),
			Timeout:        provider.Duration(cfg, "timeout"),
			CircuitBreaker: provider.Bool(cfg, "circuit_breaker"),
			TLS:            security.FromMap(provider.Map(cfg, "tls")),
		})
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the Pyannote sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Do(ctx, httpclient.Request{
		Method:     http.MethodGet,
		Path:       "/health",
		Idempotent: true,
	})
	return err == nil
}

// Diarize uploads w as WAV and maps the sidecar's segments to turns.
func (p *Provider) Diarize(ctx context.Context, w *audio.Waveform, opts diarization.Options) ([]diarization.Turn, error) {
	wav, err := w.WAVBytes()
	if err != nil {
		return nil, fmt.Errorf("encode audio: %w", err)
	}

	fields := map[string]string{}
	setCount(fields, "num_speakers", opts.NumSpeakers)
	setCount(fields, "min_speakers", opts.MinSpeakers)
	setCount(fields, "max_speakers", opts.MaxSpeakers)

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/diarize",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{
				{FieldName: "audio", FileName: "audio.wav", ContentType: "audio/wav", Data: wav},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pyannote request: %w", err)
	}

	result, err := httpclient.DecodeJSON[pyannoteResponse](resp)
	if err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("pyannote: %s", result.Error)
	}
	return toTurns(result.Segments), nil
}

func setCount(fields map[string]string, key string, n int) {
	if n > 0 {
		fields[key] = strconv.Itoa(n)
	}
}

type pyannoteResponse struct {
	Segments    []pyannoteSegment `json:"segments"`
	NumSpeakers int               `json:"num_speakers"`
	Error       string            `json:"error,omitempty"`
}

type pyannoteSegment struct {
	SpeakerID string  `json:"speaker_id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

func toTurns(segments []pyannoteSegment) []diarization.Turn {
	turns := make([]diarization.Turn, len(segments))
	for i, seg := range segments {
		turns[i] = diarization.Turn{
			Start:   seg.StartTime,
			End:     seg.EndTime,
			Speaker: seg.SpeakerID,
		}
	}
	return turns
}
