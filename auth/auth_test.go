package auth

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const secret = "0123456789abcdef0123456789abcdef"

var epoch = time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, cfg Config, now time.Time) *Service {
	t.Helper()
	cfg.Enabled = true
	if cfg.Secret == "" {
		cfg.Secret = secret
	}
	s, err := NewService(cfg, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func TestIssueParse_RoundTrip(t *testing.T) {
	for _, method := range []string{MethodHS256, MethodHS384, MethodHS512} {
		t.Run(method, func(t *testing.T) {
			s := newService(t, Config{Method: method, Issuer: "speechkit", Audience: "speech-api"}, epoch)
			token, err := s.Issue("batch-worker")
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			claims, err := s.Parse(token)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if claims.Subject != "batch-worker" || claims.Issuer != "speechkit" {
				t.Errorf("claims = %+v", claims.RegisteredClaims)
			}
			if !claims.ExpiresAt.Time.Equal(epoch.Add(defaultTokenTTL)) {
				t.Errorf("expires = %v", claims.ExpiresAt)
			}
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	issuer := newService(t, Config{Issuer: "speechkit", Audience: "speech-api"}, epoch)
	token, err := issuer.Issue("client")
	if err != nil {
		t.Fatal(err)
	}
	noExpiry, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{Subject: "client"}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	noSubject, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(epoch.Add(time.Hour)),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		verifier *Service
		token    string
	}{
		{"expired", newService(t, Config{Issuer: "speechkit", Audience: "speech-api"}, epoch.Add(25*time.Hour)), token},
		{"other secret", newService(t, Config{Secret: strings.Repeat("x", 32), Issuer: "speechkit", Audience: "speech-api"}, epoch), token},
		{"other issuer", newService(t, Config{Issuer: "elsewhere", Audience: "speech-api"}, epoch), token},
		{"other audience", newService(t, Config{Issuer: "speechkit", Audience: "billing"}, epoch), token},
		{"other method", newService(t, Config{Method: MethodHS512, Issuer: "speechkit", Audience: "speech-api"}, epoch), token},
		{"no expiry", newService(t, Config{}, epoch), noExpiry},
		{"no subject", newService(t, Config{}, epoch), noSubject},
		{"garbage", issuer, "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.verifier.Parse(tt.token); err == nil {
				t.Fatal("expected rejection")
			}
		})
	}
}

func TestValidator(t *testing.T) {
	s := newService(t, Config{}, epoch)
	token, _ := s.Issue("client")
	got, err := s.Validator()(token)
	if err != nil {
		t.Fatalf("Validator: %v", err)
	}
	if c, ok := got.(*Claims); !ok || c.Subject != "client" {
		t.Errorf("claims = %#v", got)
	}
}

func TestIssue_RequiresSubject(t *testing.T) {
	if _, err := newService(t, Config{}, epoch).Issue(""); err == nil {
		t.Fatal("expected error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"valid", Config{Enabled: true, Secret: secret, Method: MethodHS256, TokenTTL: time.Hour}, false},
		{"short secret", Config{Enabled: true, Secret: "short", Method: MethodHS256, TokenTTL: time.Hour}, true},
		{"rsa method", Config{Enabled: true, Secret: secret, Method: "RS256", TokenTTL: time.Hour}, true},
		{"zero ttl", Config{Enabled: true, Secret: secret, Method: MethodHS256}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewService_Disabled(t *testing.T) {
	if _, err := NewService(Config{Secret: secret}); err == nil {
		t.Fatal("expected error for disabled config")
	}
}
