package pyannote

import (
	"context"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/diarization"
)

func newSidecar(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := NewProvider(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p
}

func TestDiarize_UploadsWAVAndMapsSegments(t *testing.T) {
	p := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/diarize" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if r.FormValue("num_speakers") != "2" {
			t.Errorf("num_speakers = %q", r.FormValue("num_speakers"))
		}
		if _, ok := r.MultipartForm.Value["min_speakers"]; ok {
			t.Error("unset hints must not be sent")
		}
		f, _, err := r.FormFile("audio")
		if err != nil {
			t.Fatalf("audio part missing: %v", err)
		}
		head := make([]byte, 4)
		_, _ = f.Read(head)
		_ = f.Close()
		if string(head) != "RIFF" {
			t.Errorf("expected WAV upload, got %q", head)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"segments": []map[string]any{
				{"speaker_id": "SPEAKER_01", "start_time": 2.5, "end_time": 4.0},
				{"speaker_id": "SPEAKER_00", "start_time": 0.0, "end_time": 2.5},
			},
			"num_speakers": 2,
		})
	})

	turns, err := p.Diarize(context.Background(), audio.New(make([]float32, 16000), 16000), diarization.Options{NumSpeakers: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []diarization.Turn{
		{Start: 2.5, End: 4.0, Speaker: "SPEAKER_01"},
		{Start: 0, End: 2.5, Speaker: "SPEAKER_00"},
	}
	if !reflect.DeepEqual(turns, want) {
		t.Errorf("got %v, want %v", turns, want)
	}
}

func TestDiarize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error field", http.StatusOK, `{"segments":[],"error":"no audio stream"}`, "no audio stream"},
		{"server error", http.StatusInternalServerError, `{"error":"CUDA out of memory"}`, "CUDA out of memory"},
		{"bad json", http.StatusOK, `not json`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := p.Diarize(context.Background(), audio.New(make([]float32, 160), 16000), diarization.Options{})
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestIsAvailable(t *testing.T) {
	p := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	if !p.IsAvailable(context.Background()) {
		t.Error("expected sidecar to be available")
	}

	down, _ := NewProvider(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if down.IsAvailable(ctx) {
		t.Error("unreachable sidecar reported available")
	}
}

func TestFactory(t *testing.T) {
	p, err := Factory()(map[string]any{"base_url": "http://pyannote:8388", "timeout": "10m"})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if p.Name() != ProviderName {
		t.Errorf("Name = %q", p.Name())
	}
	if got := p.(*Provider).client.BaseURL(); got != "http://pyannote:8388" {
		t.Errorf("BaseURL = %q", got)
	}
}

func TestFactory_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	ca := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(ca, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw}), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := Factory()(map[string]any{
		"base_url": srv.URL,
		"tls":      map[string]any{"ca_file": ca},
	})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if !p.IsAvailable(context.Background()) {
		t.Error("sidecar behind private CA should be reachable")
	}

	if _, err := Factory()(map[string]any{"tls": map[string]any{"cert_file": "client.pem"}}); err == nil {
		t.Fatal("expected error for incomplete client certificate")
	}
}
