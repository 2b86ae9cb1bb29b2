// Package openai implements transcription.Provider with the OpenAI audio
// transcriptions API (or any compatible server).
package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/transcription"
)

const (
	// ProviderName is the registered name for the OpenAI provider.
	ProviderName = "openai"

	defaultModel = goopenai.Whisper1
)

// Config holds configuration for the OpenAI transcription provider.
type Config struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// Provider implements transcription.Provider on go-openai.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

// NewProvider creates a new OpenAI transcription provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: api_key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Provider{cfg: cfg, client: goopenai.NewClientWithConfig(clientCfg)}, nil
}

// Factory returns a provider.Factory that creates OpenAI providers from a
// generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		return NewProvider(Config{
			APIKey:  provider.String(cfg, "api_key"),
			BaseURL: provider.String(cfg, "base_url"),
			Model:   provider.String(cfg, "model"),
		})
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether an API key is configured.
func (p *Provider) IsAvailable(ctx context.Context) bool { return p.cfg.APIKey != "" }

// Transcribe uploads w as WAV. verbose_json is always requested so that
// the detected language is returned in both modes.
func (p *Provider) Transcribe(ctx context.Context, w *audio.Waveform, opts transcription.Options) (*transcription.Response, error) {
	wav, err := w.WAVBytes()
	if err != nil {
		return nil, fmt.Errorf("encode audio: %w", err)
	}

	model := p.cfg.Model
	if opts.Model != "" {
		model = opts.Model
	}
	req := goopenai.AudioRequest{
		Model:    model,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(wav),
		Format:   goopenai.AudioResponseFormatVerboseJSON,
		Language: opts.Language,
	}
	if opts.Timestamps {
		req.TimestampGranularities = []goopenai.TranscriptionTimestampGranularity{
			goopenai.TranscriptionTimestampGranularitySegment,
		}
	}

	resp, err := p.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	segments := make([]transcription.Segment, len(resp.Segments))
	for i, s := range resp.Segments {
		segments[i] = transcription.Segment{Start: s.Start, End: s.End, Text: s.Text}
	}
	return &transcription.Response{
		Text:     resp.Text,
		Segments: segments,
		Language: resp.Language,
	}, nil
}
