package whisper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/transcription"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("model") != "large-v3" {
			t.Errorf("model = %q", r.FormValue("model"))
		}
		if r.FormValue("language") != "hi" {
			t.Errorf("language = %q", r.FormValue("language"))
		}
		if _, _, err := r.FormFile("audio"); err != nil {
			t.Errorf("audio part missing: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":     " namaste duniya",
			"language": "hi",
			"segments": []map[string]any{
				{"text": " namaste", "start": 0.0, "end": 1.2},
				{"text": " duniya", "start": 1.2, "end": 2.0},
			},
		})
	}))
	defer srv.Close()

	p, err := NewProvider(Config{URL: srv.URL, Language: "en", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Transcribe(context.Background(), audio.New(make([]float32, 32000), 16000),
		transcription.Options{Language: "hi", Model: "large-v3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != " namaste duniya" || resp.Language != "hi" {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(resp.Segments) != 2 || resp.Segments[1].Start != 1.2 {
		t.Errorf("unexpected segments %+v", resp.Segments)
	}
}

func TestTranscribe_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"model failed to load"}`))
	}))
	defer srv.Close()

	p, _ := NewProvider(Config{URL: srv.URL})
	_, err := p.Transcribe(context.Background(), audio.New(make([]float32, 160), 16000), transcription.Options{})
	if err == nil || !strings.Contains(err.Error(), "model failed to load") {
		t.Errorf("expected sidecar message in error, got %v", err)
	}
}

func TestFactoryDefaults(t *testing.T) {
	tp, err := Factory()(map[string]any{"timeout": 60})
	if err != nil {
		t.Fatal(err)
	}
	p := tp.(*Provider)
	if p.cfg.URL != defaultWhisperURL || p.cfg.Model != defaultWhisperModel {
		t.Errorf("defaults not applied: %+v", p.cfg)
	}
	if p.cfg.Timeout != time.Minute {
		t.Errorf("Timeout = %v", p.cfg.Timeout)
	}
}
