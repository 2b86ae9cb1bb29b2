// Package assemblyai implements diarization.Provider with AssemblyAI's
// speaker labels. The waveform is uploaded as WAV and the call blocks until
// the transcript is complete.
package assemblyai

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/diarization"
	"github.com/kbukum/speechkit/provider"
)

// ProviderName is the registered name for the AssemblyAI provider.
const ProviderName = "assemblyai"

// Config holds configuration for the AssemblyAI provider.
type Config struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// LanguageCode pins the spoken language ("hi", "en"). Empty lets the
	// service detect it.
	LanguageCode string `yaml:"language_code" mapstructure:"language_code"`
}

// Provider implements diarization.Provider on the AssemblyAI SDK.
type Provider struct {
	cfg    Config
	client *aai.Client
}

// NewProvider creates a new AssemblyAI provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("assemblyai: api_key is required")
	}
	opts := []aai.ClientOption{aai.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, aai.WithBaseURL(cfg.BaseURL))
	}
	return &Provider{cfg: cfg, client: aai.NewClientWithOptions(opts...)}, nil
}

// Factory returns a provider.Factory that creates AssemblyAI providers from a
// generic config map.
func Factory() provider.Factory[diarization.Provider] {
	return func(cfg map[string]any) (diarization.Provider, error) {
		return NewProvider(Config{
			APIKey:       provider.String(cfg, "api_key"),
			BaseURL:      provider.String(cfg, "base_url"),
			LanguageCode: provider.String(cfg, "language_code"),
		})
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether an API key is configured. AssemblyAI has no
// cheap unauthenticated health endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool { return p.cfg.APIKey != "" }

// Diarize uploads w and returns one turn per speaker utterance.
func (p *Provider) Diarize(ctx context.Context, w *audio.Waveform, opts diarization.Options) ([]diarization.Turn, error) {
	wav, err := w.WAVBytes()
	if err != nil {
		return nil, fmt.Errorf("encode audio: %w", err)
	}

	params := &aai.TranscriptOptionalParams{SpeakerLabels: aai.Bool(true)}
	if opts.NumSpeakers > 0 {
		params.SpeakersExpected = aai.Int64(int64(opts.NumSpeakers))
	}
	if p.cfg.LanguageCode != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(p.cfg.LanguageCode)
	}

	transcript, err := p.client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(wav), params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcribe: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "transcript failed"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return nil, fmt.Errorf("assemblyai: %s", msg)
	}
	return toTurns(transcript.Utterances), nil
}

// toTurns converts utterances (millisecond offsets) to turns in seconds.
// Utterances without timing or speaker are dropped.
func toTurns(utterances []aai.TranscriptUtterance) []diarization.Turn {
	turns := make([]diarization.Turn, 0, len(utterances))
	for _, u := range utterances {
		if u.Start == nil || u.End == nil || u.Speaker == nil {
			continue
		}
		turns = append(turns, diarization.Turn{
			Start:   float64(*u.Start) / 1000,
			End:     float64(*u.End) / 1000,
			Speaker: *u.Speaker,
		})
	}
	return turns
}
