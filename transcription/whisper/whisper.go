// Package whisper implements transcription.Provider on top of a
// faster-whisper HTTP sidecar.
package whisper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/security"
	"github.com/kbukum/speechkit/transcription"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultWhisperURL     = "http://localhost:8387"
	defaultWhisperModel   = "base"
	defaultWhisperTimeout = 120 * time.Second
)

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL            string              `yaml:"url" mapstructure:"url"`
	Model          string              `yaml:"model" mapstructure:"model"`
	Language       string              `yaml:"language" mapstructure:"language"`
	Timeout        time.Duration       `yaml:"timeout" mapstructure:"timeout"`
	CircuitBreaker bool                `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	TLS            *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// Provider implements transcription.Provider using a faster-whisper HTTP sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

// NewProvider creates a new Whisper transcription provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.URL == "" {
		cfg.URL = defaultWhisperURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultWhisperModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultWhisperTimeout
	}
	hc := httpclient.Config{
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
		TLS:     cfg.TLS,
		Retry:   httpclient.DefaultRetryConfig(),
	}
	if cfg.CircuitBreaker {
		hc.CircuitBreaker = httpclient.DefaultCircuitBreakerConfig(ProviderName)
	}
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory returns a provider.Factory that creates Whisper Provider
// instances from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		return NewProvider(Config{
			URL:            provider.String(cfg, "url"),
			Model:          provider.String(cfg, "model"),
			Language:       provider.String(cfg, "language"),
			Timeout:        provider.Duration(cfg, "timeout"),
			CircuitBreaker: provider.Bool(cfg, "circuit_breaker"),
			TLS:            security.FromMap(provider.Map(cfg, "tls")),
		})
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the Whisper sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Do(ctx, httpclient.Request{
		Method:     http.MethodGet,
		Path:       "/health",
		Idempotent: true,
	})
	return err == nil
}

// Transcribe uploads w as WAV to the sidecar. The sidecar always returns
// segments, so opts.Timestamps needs no separate request.
func (p *Provider) Transcribe(ctx context.Context, w *audio.Waveform, opts transcription.Options) (*transcription.Response, error) {
	wav, err := w.WAVBytes()
	if err != nil {
		return nil, fmt.Errorf("encode audio: %w", err)
	}

	model := p.cfg.Model
	if opts.Model != "" {
		model = opts.Model
	}
	fields := map[string]string{"model": model}
	if lang := firstNonEmpty(opts.Language, p.cfg.Language); lang != "" {
		fields["language"] = lang
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.MultipartBody{
			Fields: fields,
			Files: []httpclient.FileField{
				{FieldName: "audio", FileName: "audio.wav", ContentType: "audio/wav", Data: wav},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}

	result, err := httpclient.DecodeJSON[whisperResponse](resp)
	if err != nil {
		return nil, err
	}
	return toResponse(&result), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toResponse(resp *whisperResponse) *transcription.Response {
	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	return &transcription.Response{
		Text:     resp.Text,
		Segments: segments,
		Language: resp.Language,
	}
}
