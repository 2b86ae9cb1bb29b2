package nllb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/speechkit/translation"
)

func TestTranslate_SendsNLLBCodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["src_lang"] != "tam_Taml" || body["tgt_lang"] != "eng_Latn" || body["text"] != "vanakkam" {
			t.Errorf("unexpected body %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"translation": "hello"})
	}))
	defer srv.Close()

	p, err := NewProvider(Config{URL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	tamil, _ := translation.Lookup("tamil")
	got, err := p.Translate(context.Background(), translation.Request{
		Text: "vanakkam", Source: tamil, Target: translation.English,
	})
	if err != nil || got != "hello" {
		t.Errorf("Translate = %q, %v", got, err)
	}
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", http.StatusOK, `{"error":"unsupported language"}`, "unsupported language"},
		{"server", http.StatusServiceUnavailable, `{"detail":"loading model"}`, "loading model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p, _ := NewProvider(Config{URL: srv.URL})
			_, err := p.Translate(context.Background(), translation.Request{
				Text: "x", Source: translation.Hindi, Target: translation.English,
			})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}
