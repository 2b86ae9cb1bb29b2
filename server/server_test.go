package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/component"
	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
)

func newTestServer(t *testing.T, checker func(context.Context) []component.Health) *Server {
	t.Helper()
	cfg := Config{Host: "127.0.0.1", MaxBodySize: "1KB"}
	cfg.ApplyDefaults()
	s := New(cfg, logger.NewNop())
	gin.SetMode(gin.TestMode)
	s.ApplyDefaults("speechkit", checker)
	return s
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.WriteTimeout != 600 || cfg.MaxBodySize != "100MB" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"port", Config{Port: 70000, MaxBodySize: "1MB"}},
		{"read timeout", Config{ReadTimeout: -1, MaxBodySize: "1MB"}},
		{"rate limit", Config{RateLimit: -1, MaxBodySize: "1MB"}},
		{"body size", Config{MaxBodySize: "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestServer_HealthReportsComponents(t *testing.T) {
	s := newTestServer(t, func(context.Context) []component.Health {
		return []component.Health{
			{Name: "storage", Status: component.StatusHealthy},
			{Name: "diarization", Status: component.StatusUnhealthy, Message: "sidecar down"},
		}
	})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var body struct {
		Status     string             `json:"status"`
		Service    string             `json:"service"`
		Components []component.Health `json:"components"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "unhealthy" || body.Service != "speechkit" || len(body.Components) != 2 {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestServer_ReadyWithoutChecker(t *testing.T) {
	s := newTestServer(t, nil)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", http.NoBody))

	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ready"`) {
		t.Fatalf("unexpected response %d %s", rr.Code, rr.Body.String())
	}
}

func TestServer_BodyLimitAppliesToRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	s.GinEngine().POST("/asr", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/asr", strings.NewReader(strings.Repeat("x", 4096))))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name   string
		err    error
		status int
		code   apperrors.ErrorCode
	}{
		{"app error", apperrors.Decode("mp3", errors.New("bad header")), http.StatusBadRequest, apperrors.ErrCodeDecode},
		{"wrapped", errorsJoin(apperrors.ServiceUnavailable("whisper")), http.StatusServiceUnavailable, apperrors.ErrCodeServiceUnavailable},
		{"plain", errors.New("boom"), http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			RespondWithError(c, tt.err)

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("expected %s, got %s", tt.code, body.Error.Code)
			}
		})
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestServerComponent_Routes(t *testing.T) {
	s := newTestServer(t, nil)
	s.GinEngine().POST("/full_pipeline", func(c *gin.Context) {})
	sc := NewComponent(s)

	routes := sc.Routes()
	if len(routes) == 0 || routes[0].Path != "/full_pipeline" {
		t.Fatalf("expected API routes before system routes, got %+v", routes)
	}
	if h := sc.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestServer_StartStop(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 0}
	cfg.ApplyDefaults()
	cfg.Port = 0
	s := New(cfg, logger.NewNop())
	s.RegisterDefaultEndpoints("speechkit", nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	resp, err := http.Get("http://" + s.Addr() + "/version")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
