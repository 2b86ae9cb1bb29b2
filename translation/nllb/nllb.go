// Package nllb implements translation.Provider on top of an NLLB-200 HTTP
// sidecar.
package nllb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/security"
	"github.com/kbukum/speechkit/translation"
)

const (
	// ProviderName is the registered name for the NLLB provider.
	ProviderName = "nllb"

	defaultURL     = "http://localhost:8389"
	defaultTimeout = 60 * time.Second
)

// Config holds configuration for the NLLB provider.
type Config struct {
	URL            string              `yaml:"url" mapstructure:"url"`
	Timeout        time.Duration       `yaml:"timeout" mapstructure:"timeout"`
	CircuitBreaker bool                `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	TLS            *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// Provider implements translation.Provider using the NLLB sidecar.
type Provider struct {
	client *httpclient.Client
}

// NewProvider creates a new NLLB provider.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
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
		return nil, fmt.Errorf("nllb: %w", err)
	}
	return &Provider{client: client}, nil
}

// Factory returns a provider.Factory that creates NLLB providers from a
// generic config map.
func Factory() provider.Factory[translation.Provider] {
	return func(cfg map[string]any) (translation.Provider, error) {
		return NewProvider(Config{
			URL:            provider.String(cfg, "url"),
			Timeout:        provider.Duration(cfg, "timeout"),
			CircuitBreaker: provider.Bool(cfg, "circuit_breaker"),
			TLS:            security.FromMap(provider.Map(cfg, "tls")),
		})
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable checks if the sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Do(ctx, httpclient.Request{
		Method:     http.MethodGet,
		Path:       "/health",
		Idempotent: true,
	})
	return err == nil
}

type translateRequest struct {
	Text    string `json:"text"`
	SrcLang string `json:"src_lang"`
	TgtLang string `json:"tgt_lang"`
}

type translateResponse struct {
	Translation string `json:"translation"`
	Error       string `json:"error,omitempty"`
}

// Translate sends the text with NLLB language codes.
func (p *Provider) Translate(ctx context.Context, req translation.Request) (string, error) {
	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/translate",
		Body: translateRequest{
			Text:    req.Text,
			SrcLang: req.Source.Code,
			TgtLang: req.Target.Code,
		},
	})
	if err != nil {
		return "", fmt.Errorf("nllb request: %w", err)
	}

	out, err := httpclient.DecodeJSON[translateResponse](resp)
	if err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", errors.New("nllb: " + out.Error)
	}
	return out.Translation, nil
}
