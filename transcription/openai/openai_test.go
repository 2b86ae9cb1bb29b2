package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/transcription"
)

func TestTranscribe_VerboseJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("response_format") != "verbose_json" {
			t.Errorf("response_format = %q", r.FormValue("response_format"))
		}
		if r.FormValue("model") != "whisper-1" {
			t.Errorf("model = %q", r.FormValue("model"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"task":     "transcribe",
			"language": "hindi",
			"duration": 4.0,
			"text":     "hello world",
			"segments": []map[string]any{
				{"id": 0, "start": 0.0, "end": 2.0, "text": " hello"},
				{"id": 1, "start": 2.0, "end": 4.0, "text": " world"},
			},
		})
	}))
	defer srv.Close()

	p, err := NewProvider(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Transcribe(context.Background(), audio.New(make([]float32, 16000), 16000),
		transcription.Options{Timestamps: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hello world" || resp.Language != "hindi" {
		t.Errorf("unexpected response %+v", resp)
	}
	want := []transcription.Segment{{Start: 0, End: 2, Text: " hello"}, {Start: 2, End: 4, Text: " world"}}
	if len(resp.Segments) != 2 || resp.Segments[0] != want[0] || resp.Segments[1] != want[1] {
		t.Errorf("segments = %+v", resp.Segments)
	}
}

func TestNewProvider_RequiresKey(t *testing.T) {
	if _, err := Factory()(map[string]any{}); err == nil {
		t.Error("expected error without api key")
	}
}
