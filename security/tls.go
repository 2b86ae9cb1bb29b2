package security

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/spf13/cast"
)

// TLSConfig holds client TLS settings for one backend.
type TLSConfig struct {
	// SkipVerify disables server certificate verification. Only for local
	// testing against self-signed sidecars.
	SkipVerify bool `yaml:"skip_verify" mapstructure:"skip_verify"`
	// CAFile verifies the sidecar against a private CA.
	CAFile string `yaml:"ca_file" mapstructure:"ca_file"`
	// CertFile and KeyFile enable mutual TLS. Both or neither.
	CertFile string `yaml:"cert_file" mapstructure:"cert_file"`
	KeyFile  string `yaml:"key_file" mapstructure:"key_file"`
	// ServerName overrides the name checked against the certificate.
	ServerName string `yaml:"server_name" mapstructure:"server_name"`
}

// FromMap reads a "tls" block of a backend config map. It returns nil for
// an empty or missing block.
func FromMap(m map[string]any) *TLSConfig {
	if len(m) == 0 {
		return nil
	}
	c := &TLSConfig{
		SkipVerify: cast.ToBool(m["skip_verify"]),
		CAFile:     cast.ToString(m["ca_file"]),
		CertFile:   cast.ToString(m["cert_file"]),
		KeyFile:    cast.ToString(m["key_file"]),
		ServerName: cast.ToString(m["server_name"]),
	}
	if !c.IsEnabled() && c.KeyFile == "" {
		return nil
	}
	return c
}

// IsEnabled reports whether any setting is present.
func (c *TLSConfig) IsEnabled() bool {
	return c != nil && (c.SkipVerify || c.CAFile != "" || c.CertFile != "" || c.ServerName != "")
}

// Validate checks that the client certificate pair is complete.
func (c *TLSConfig) Validate() error {
	if c == nil {
		return nil
	}
	if (c.CertFile != "") != (c.KeyFile != "") {
		return fmt.Errorf("security: cert_file and key_file must be set together")
	}
	return nil
}

// Build returns the *tls.Config for c, or nil when c sets nothing. The
// minimum version is TLS 1.2.
func (c *TLSConfig) Build() (*tls.Config, error) {
	if !c.IsEnabled() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	cfg := &tls.Config{
		InsecureSkipVerify: c.SkipVerify, //nolint:gosec // opt-in for self-signed sidecars
		ServerName:         c.ServerName,
		MinVersion:         tls.VersionTLS12,
	}
	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("security: read ca_file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("security: ca_file %s holds no PEM certificate", c.CAFile)
		}
		cfg.RootCAs = pool
	}
	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("security: load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}
