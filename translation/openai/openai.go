// Package openai implements translation.Provider with OpenAI chat
// completions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/translation"
)

const (
	// ProviderName is the registered name for the OpenAI provider.
	ProviderName = "openai"

	defaultModel = goopenai.GPT4oMini
)

// Config holds configuration for the OpenAI translation provider.
type Config struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// Provider implements translation.Provider on go-openai.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

// NewProvider creates a new OpenAI translation provider.
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
func Factory() provider.Factory[translation.Provider] {
	return func(cfg map[string]any) (translation.Provider, error) {
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

func systemPrompt(req translation.Request) string {
	return fmt.Sprintf(
		"You translate transcribed speech from %s to %s. Reply with the translation only, without quotes or notes.",
		titled(req.Source.Name), titled(req.Target.Name))
}

func titled(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Translate asks the chat model for a translation of req.Text.
func (p *Provider) Translate(ctx context.Context, req translation.Request) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt(req)},
			{Role: goopenai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
