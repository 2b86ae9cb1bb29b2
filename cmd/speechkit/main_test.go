package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/component"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/server"
	"github.com/kbukum/speechkit/sse"
	"github.com/kbukum/speechkit/storage"
	"github.com/kbukum/speechkit/translation"
)

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := defaultConfig()
	if cfg.Name != serviceName {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Version == "" {
		t.Error("version should default to the build version")
	}
	if cfg.Diarization.Provider != "pyannote" || cfg.Transcription.Provider != "whisper" || cfg.Translation.Provider != "nllb" {
		t.Errorf("providers = %s/%s/%s", cfg.Diarization.Provider, cfg.Transcription.Provider, cfg.Translation.Provider)
	}
	if cfg.Storage.Provider != storage.ProviderLocal {
		t.Errorf("storage provider = %q", cfg.Storage.Provider)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfig_ValidateNamesSection(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		section string
	}{
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "service"},
		{"short auth secret", func(c *Config) { c.Auth.Enabled, c.Auth.Secret = true, "short" }, "auth"},
		{"bad sample rate", func(c *Config) { c.Audio.SampleRate = 100 }, "audio"},
		{"speaker range", func(c *Config) { c.Diarization.MinSpeakers, c.Diarization.MaxSpeakers = 4, 2 }, "diarization"},
		{"unknown language", func(c *Config) { c.Translation.DefaultSource = "klingon" }, "translation"},
		{"storage backend", func(c *Config) { c.Storage.Provider = "ftp" }, "storage"},
		{"sample ratio", func(c *Config) { c.Observability.SampleRate = 2 }, "observability"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.HasPrefix(err.Error(), tt.section+":") {
				t.Errorf("error %q should name section %q", err, tt.section)
			}
		})
	}
}

func TestBuildBackends_Defaults(t *testing.T) {
	cfg := defaultConfig()
	b, err := buildBackends(cfg)
	if err != nil {
		t.Fatalf("buildBackends: %v", err)
	}
	names := b.providerNames()
	if names["diarization"] != "pyannote" || names["transcription"] != "whisper" || names["translation"] != "nllb" {
		t.Errorf("provider names = %v", names)
	}
	if got := describeBackends(b); got != "diarization=pyannote transcription=whisper translation=nllb" {
		t.Errorf("describeBackends = %q", got)
	}
	if len(b.probes(cfg)) != 3 {
		t.Errorf("expected three probes")
	}
}

func TestBuildBackends_TranslationDisabled(t *testing.T) {
	cfg := defaultConfig()
	cfg.Translation.Provider = translation.ProviderNone
	b, err := buildBackends(cfg)
	if err != nil {
		t.Fatalf("buildBackends: %v", err)
	}
	if b.translation != nil {
		t.Error("translation manager should not be built")
	}
	if b.providerNames()["translation"] != "disabled" {
		t.Errorf("provider names = %v", b.providerNames())
	}
	if len(b.probes(cfg)) != 2 {
		t.Errorf("expected two probes")
	}
}

func TestBackendsHealth(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	cfg := defaultConfig()
	cfg.Translation.Provider = translation.ProviderNone
	cfg.Diarization.Backends = map[string]map[string]any{"pyannote": {"base_url": up.URL}}
	b, err := buildBackends(cfg)
	if err != nil {
		t.Fatalf("buildBackends: %v", err)
	}
	got := b.health(context.Background())
	if len(got) != 2 {
		t.Fatalf("health = %+v", got)
	}
	if got[0].Name != "diarization" || got[0].Status != observability.HealthStatusUp {
		t.Errorf("diarization = %+v", got[0])
	}
}

func TestBuildBackends_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown diarizer", func(c *Config) { c.Diarization.Provider = "nemo" }},
		{"openai without key", func(c *Config) { c.Transcription.Provider = "openai" }},
		{"secondary backend fails", func(c *Config) {
			c.Translation.Backends = map[string]map[string]any{"openai": {}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if _, err := buildBackends(cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestProbe_ReportsSidecarHealth(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	cfg := defaultConfig()
	cfg.Diarization.Backends = map[string]map[string]any{"pyannote": {"base_url": up.URL}}
	b, err := buildBackends(cfg)
	if err != nil {
		t.Fatalf("buildBackends: %v", err)
	}
	probe := b.probes(cfg)[0]
	if probe.Name() != "diarization" {
		t.Fatalf("first probe = %q", probe.Name())
	}
	if h := probe.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("health = %+v", h)
	}
	if d := probe.Describe(); !strings.Contains(d.Details, up.URL) {
		t.Errorf("details = %q", d.Details)
	}
}

func TestEndpointOf(t *testing.T) {
	tests := []struct {
		cfg  map[string]any
		want string
	}{
		{map[string]any{"base_url": "http://a"}, "http://a"},
		{map[string]any{"url": "http://b"}, "http://b"},
		{map[string]any{"endpoint": "minio:9000"}, "minio:9000"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := endpointOf(tt.cfg); got != tt.want {
			t.Errorf("endpointOf(%v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestStorageRegistry(t *testing.T) {
	got := storageRegistry().List()
	sort.Strings(got)
	want := []string{"local", "minio", "s3"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("registered = %v", got)
	}
}

func TestNewHandler(t *testing.T) {
	cfg := defaultConfig()
	cfg.Storage.Enabled = true
	cfg.Storage.Backends = map[string]map[string]any{"local": {"base_path": t.TempDir()}}
	b, err := buildBackends(cfg)
	if err != nil {
		t.Fatalf("buildBackends: %v", err)
	}
	store := storage.NewComponent(cfg.Storage, storageRegistry(), logger.NewNop())
	metrics, err := observability.NewMetrics(observability.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	events := sse.NewHub()
	if _, err := newHandler(cfg, b, store, events, metrics); err != nil {
		t.Fatalf("newHandler: %v", err)
	}
}

func TestAPIRouter_Auth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := defaultConfig()
	cfg.Auth.Enabled = true
	cfg.Auth.Secret = strings.Repeat("k", 32)

	srv := server.New(cfg.Server, logger.NewNop())
	srv.ApplyDefaults(cfg.Name, nil)
	routes, err := apiRouter(cfg, srv)
	if err != nil {
		t.Fatalf("apiRouter: %v", err)
	}
	routes.GET("/status", func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := issue(cfg, "ops")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tests := []struct {
		path   string
		auth   string
		status int
	}{
		{"/status", "", http.StatusUnauthorized},
		{"/status", "Bearer " + token, http.StatusOK},
		{"/version", "", http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.auth != "" {
			req.Header.Set("Authorization", tt.auth)
		}
		rec := httptest.NewRecorder()
		srv.GinEngine().ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Errorf("%s auth=%t: status = %d, want %d", tt.path, tt.auth != "", rec.Code, tt.status)
		}
	}
}

func TestRegisterLoggers(t *testing.T) {
	registerLoggers()
	for _, name := range componentLoggers {
		if logger.Get(name) != logger.Get(name) {
			t.Errorf("logger %q is not registered", name)
		}
	}
}

func TestIssue_RequiresAuthEnabled(t *testing.T) {
	if _, err := issue(defaultConfig(), "ops"); err == nil {
		t.Fatal("expected error while auth is disabled")
	}
}
