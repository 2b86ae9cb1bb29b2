package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Pipeline      struct {
		MaxConcurrentTurns int           `mapstructure:"max_concurrent_turns"`
		TurnTimeout        time.Duration `mapstructure:"turn_timeout"`
	} `mapstructure:"pipeline"`
	Translation struct {
		DefaultSource string `mapstructure:"default_source"`
	} `mapstructure:"translation"`
}

func TestServiceConfig_ApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "speechkit"}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" || !cfg.Debug {
		t.Errorf("expected development defaults, got %+v", cfg)
	}
	if cfg.Logging.ServiceName != "speechkit" {
		t.Errorf("expected service name to propagate to logging, got %q", cfg.Logging.ServiceName)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging defaults, got %+v", cfg.Logging)
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"valid", ServiceConfig{Name: "speechkit", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"bad env", ServiceConfig{Name: "x", Environment: "qa"}, "config.environment"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %v", tc.errMsg, err)
			}
		})
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
name: speechkit
environment: staging
pipeline:
  max_concurrent_turns: 4
  turn_timeout: 90s
translation:
  default_source: tamil
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var cfg testConfig
	if err := LoadConfig("speechkit-yaml-test", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "speechkit" || cfg.Environment != "staging" {
		t.Errorf("service fields not loaded: %+v", cfg.ServiceConfig)
	}
	if cfg.Pipeline.MaxConcurrentTurns != 4 || cfg.Pipeline.TurnTimeout != 90*time.Second {
		t.Errorf("pipeline section not loaded: %+v", cfg.Pipeline)
	}
	if cfg.Translation.DefaultSource != "tamil" {
		t.Errorf("translation section not loaded: %+v", cfg.Translation)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("name: speechkit\npipeline:\n  max_concurrent_turns: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SKTEST_PIPELINE_MAX_CONCURRENT_TURNS", "8")
	t.Setenv("SKTEST_TRANSLATION_DEFAULT_SOURCE", "urdu")

	var cfg testConfig
	if err := LoadConfig("sktest", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Pipeline.MaxConcurrentTurns != 8 {
		t.Errorf("expected env override to 8, got %d", cfg.Pipeline.MaxConcurrentTurns)
	}
	if cfg.Translation.DefaultSource != "urdu" {
		t.Errorf("expected env override to urdu, got %q", cfg.Translation.DefaultSource)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml")); err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("name: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	var cfg testConfig
	if err := LoadConfig("speechkit", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected parse error")
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolver_SearchOrder(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]bool
		opts    LoaderConfig
		wantCfg string
		wantEnv string
	}{
		{
			name:    "cmd dir first",
			files:   map[string]bool{"./cmd/speechkit/config.yml": true, "./config.yml": true, "./.env": true},
			wantCfg: "./cmd/speechkit/config.yml",
			wantEnv: "./.env",
		},
		{
			name:    "service env file preferred",
			files:   map[string]bool{"./config/.env.speechkit": true, "./.env": true},
			wantEnv: "./config/.env.speechkit",
		},
		{
			name:    "explicit paths win",
			files:   map[string]bool{"./config.yml": true},
			opts:    LoaderConfig{ConfigFile: "/etc/speechkit.yml", EnvFile: "/etc/speechkit.env"},
			wantCfg: "/etc/speechkit.yml",
			wantEnv: "/etc/speechkit.env",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &Resolver{FileSystem: &mockFS{files: tc.files}}
			got := r.ResolveFiles("speechkit", tc.opts)
			if got.ConfigFile != tc.wantCfg || got.EnvFile != tc.wantEnv {
				t.Errorf("got %+v, want config=%q env=%q", got, tc.wantCfg, tc.wantEnv)
			}
		})
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("PIPELINE_MAX_CONCURRENT_TURNS")
	want := []string{
		"pipeline_max_concurrent_turns",
		"pipeline.max_concurrent_turns",
		"pipeline.max.concurrent_turns",
		"pipeline.max.concurrent.turns",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := envKeyVariants("NAME"); !reflect.DeepEqual(got, []string{"name"}) {
		t.Errorf("single part key: got %v", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/c.yml")(&lc)
	WithEnvFile("/.env")(&lc)
	WithEnvPrefix("SK")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/c.yml" || lc.EnvFile != "/.env" || lc.EnvPrefix != "SK" {
		t.Errorf("options not applied: %+v", lc)
	}
}
