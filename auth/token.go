package auth

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims are the claims of an API token.
type Claims struct {
	gojwt.RegisteredClaims
}

// Service issues and verifies tokens.
type Service struct {
	cfg    Config
	method gojwt.SigningMethod
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. cfg must be enabled.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled {
		return nil, errors.New("auth: authentication is disabled")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Service{cfg: cfg, method: gojwt.GetSigningMethod(cfg.Method), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for subject valid for the configured TTL.
func (s *Service) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("auth: subject is required")
	}
	now := s.now()
	claims := &Claims{RegisteredClaims: gojwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.cfg.Issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}}
	if s.cfg.Audience != "" {
		claims.Audience = gojwt.ClaimStrings{s.cfg.Audience}
	}
	signed, err := gojwt.NewWithClaims(s.method, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, time claims, issuer and audience of token.
func (s *Service) Parse(token string) (*Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience))
	}
	claims := &Claims{}
	if _, err := gojwt.ParseWithClaims(token, claims, s.key, opts...); err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("auth: token has no subject")
	}
	return claims, nil
}

// Validator adapts Parse to the server auth middleware.
func (s *Service) Validator() func(string) (any, error) {
	return func(token string) (any, error) { return s.Parse(token) }
}

func (s *Service) key(*gojwt.Token) (any, error) {
	return []byte(s.cfg.Secret), nil
}
