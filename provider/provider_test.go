package provider

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

type testProvider struct {
	name      string
	available bool
}

func (p *testProvider) Name() string                         { return p.name }
func (p *testProvider) IsAvailable(ctx context.Context) bool { return p.available }

func newFactory(available bool) Factory[*testProvider] {
	return func(cfg map[string]any) (*testProvider, error) {
		if String(cfg, "fail") != "" {
			return nil, errors.New(String(cfg, "fail"))
		}
		return &testProvider{name: String(cfg, "name"), available: available}, nil
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("whisper", newFactory(true))
	reg.RegisterFactory("openai", newFactory(true))

	if !reg.Has("whisper") || reg.Has("missing") {
		t.Error("Has reports wrong registrations")
	}
	if got := reg.List(); !reflect.DeepEqual(got, []string{"openai", "whisper"}) {
		t.Errorf("expected sorted names, got %v", got)
	}
	p, err := reg.Create("whisper", map[string]any{"name": "w"})
	if err != nil || p.Name() != "w" {
		t.Fatalf("Create: %v %v", p, err)
	}
	if _, err := reg.Create("whisper", nil); err != nil {
		t.Errorf("nil config should be accepted: %v", err)
	}
	if _, err := reg.Create("missing", nil); err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected not registered error, got %v", err)
	}
}

func TestManager_DefaultAndFallback(t *testing.T) {
	m := NewManager[*testProvider]("transcription", NewRegistry[*testProvider](), nil)
	m.Register("down", newFactory(false))
	m.Register("up", newFactory(true))

	if err := m.Initialize("down", map[string]any{"name": "down"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Initialize("up", map[string]any{"name": "up"}); err != nil {
		t.Fatal(err)
	}

	p, err := m.Get(context.Background())
	if err != nil || p.Name() != "up" {
		t.Errorf("selector should skip unavailable providers, got %v %v", p, err)
	}

	if err := m.SetDefault("down"); err != nil {
		t.Fatal(err)
	}
	p, _ = m.Get(context.Background())
	if p.Name() != "down" || m.Default() != "down" {
		t.Errorf("default provider must win, got %s", p.Name())
	}

	if err := m.SetDefault("missing"); err == nil {
		t.Error("expected error for uninitialized default")
	}
	if got := m.Available(); !reflect.DeepEqual(got, []string{"down", "up"}) {
		t.Errorf("unexpected available list %v", got)
	}
	if h := m.Health(context.Background()); h["down"] || !h["up"] {
		t.Errorf("unexpected health %v", h)
	}
	if _, err := m.GetByName("nope"); err == nil {
		t.Error("expected GetByName error")
	}
}

func TestManager_InitializeError(t *testing.T) {
	m := NewManager[*testProvider]("diarization", NewRegistry[*testProvider](), nil)
	m.Register("broken", newFactory(true))
	err := m.Initialize("broken", map[string]any{"fail": "missing api key"})
	if err == nil || !strings.Contains(err.Error(), "missing api key") {
		t.Errorf("expected factory error, got %v", err)
	}
}

func TestPrioritySelector(t *testing.T) {
	providers := map[string]*testProvider{
		"a": {name: "a", available: false},
		"b": {name: "b", available: true},
		"c": {name: "c", available: true},
	}
	s := &PrioritySelector[*testProvider]{Priority: []string{"a", "c", "b"}}
	p, err := s.Select(context.Background(), providers)
	if err != nil || p.Name() != "c" {
		t.Errorf("expected c, got %v %v", p, err)
	}
	s.Priority = []string{"a"}
	if _, err := s.Select(context.Background(), providers); err == nil {
		t.Error("expected no available provider")
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := map[string]any{
		"url":      "http://localhost:8387",
		"timeout":  "90s",
		"seconds":  30,
		"typed":    2 * time.Minute,
		"speakers": "3",
		"enabled":  "true",
	}
	if String(cfg, "url") != "http://localhost:8387" || String(cfg, "missing") != "" {
		t.Error("String helper failed")
	}
	tests := map[string]time.Duration{
		"timeout": 90 * time.Second,
		"seconds": 30 * time.Second,
		"typed":   2 * time.Minute,
		"missing": 0,
	}
	for key, want := range tests {
		if got := Duration(cfg, key); got != want {
			t.Errorf("Duration(%s) = %v, want %v", key, got, want)
		}
	}
	if Int(cfg, "speakers") != 3 || Int(cfg, "missing") != 0 {
		t.Error("Int helper failed")
	}
	if !Bool(cfg, "enabled") || Bool(cfg, "missing") {
		t.Error("Bool helper failed")
	}
}
