package security

import (
	"crypto/tls"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// writeServerCA stores the test server's certificate as a PEM file.
func writeServerCA(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ca.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFromMap(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want *TLSConfig
	}{
		{"missing", nil, nil},
		{"empty", map[string]any{}, nil},
		{"all false", map[string]any{"skip_verify": false}, nil},
		{"skip verify string", map[string]any{"skip_verify": "true"}, &TLSConfig{SkipVerify: true}},
		{"ca", map[string]any{"ca_file": "/ca.pem", "server_name": "asr"}, &TLSConfig{CAFile: "/ca.pem", ServerName: "asr"}},
		{"lone key kept for validation", map[string]any{"key_file": "/k.pem"}, &TLSConfig{KeyFile: "/k.pem"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromMap(tt.in)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("FromMap = %+v, want %+v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("FromMap = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

func TestBuild_Disabled(t *testing.T) {
	for _, c := range []*TLSConfig{nil, {}} {
		got, err := c.Build()
		if err != nil || got != nil {
			t.Errorf("Build(%+v) = %v, %v", c, got, err)
		}
	}
}

func TestBuild_Settings(t *testing.T) {
	got, err := (&TLSConfig{SkipVerify: true, ServerName: "whisper.internal"}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !got.InsecureSkipVerify || got.ServerName != "whisper.internal" || got.MinVersion != tls.VersionTLS12 {
		t.Errorf("tls config = %+v", got)
	}
}

func TestBuild_Errors(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		cfg  TLSConfig
	}{
		{"missing ca", TLSConfig{CAFile: "/nonexistent/ca.pem"}},
		{"garbage ca", TLSConfig{CAFile: garbage}},
		{"cert without key", TLSConfig{CertFile: garbage}},
		{"unreadable pair", TLSConfig{CertFile: "/nonexistent/c.pem", KeyFile: "/nonexistent/k.pem"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.Build(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBuild_TrustsPrivateCA(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg, err := (&TLSConfig{CAFile: writeServerCA(t, srv)}).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	client := &http.Client{Transport: &http.Transport{TLSClientConfig: cfg}}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
