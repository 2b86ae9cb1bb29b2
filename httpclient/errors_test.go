package httpclient

import (
	"errors"
	"strings"
	"testing"
)

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		body      string
		wantNil   bool
		code      ErrorCode
		retryable bool
		message   string
	}{
		{status: 200, wantNil: true},
		{status: 204, wantNil: true},
		{status: 400, body: `{"detail":"audio field required"}`, code: ErrCodeValidation, message: "audio field required"},
		{status: 401, code: ErrCodeAuth, message: "HTTP 401"},
		{status: 403, code: ErrCodeAuth, message: "HTTP 403"},
		{status: 404, code: ErrCodeNotFound, message: "HTTP 404"},
		{status: 429, code: ErrCodeRateLimit, retryable: true, message: "HTTP 429"},
		{status: 500, body: `{"error":"CUDA out of memory"}`, code: ErrCodeServer, retryable: true, message: "CUDA out of memory"},
		{status: 503, body: "not json", code: ErrCodeServer, retryable: true, message: "HTTP 503"},
		{status: 422, body: `{"detail":[{"loc":["body","text"]}]}`, code: ErrCodeValidation, message: `[{"loc":["body","text"]}]`},
	}

	for _, tt := range tests {
		err := ClassifyStatusCode(tt.status, []byte(tt.body))
		if tt.wantNil {
			if err != nil {
				t.Errorf("status %d: expected nil, got %v", tt.status, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		if err.Code != tt.code {
			t.Errorf("status %d: code = %s, want %s", tt.status, err.Code, tt.code)
		}
		if err.Retryable != tt.retryable {
			t.Errorf("status %d: retryable = %v, want %v", tt.status, err.Retryable, tt.retryable)
		}
		if err.Message != tt.message {
			t.Errorf("status %d: message = %q, want %q", tt.status, err.Message, tt.message)
		}
	}
}

func TestErrorFormattingAndHelpers(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	conn := NewConnectionError(cause)
	if !errors.Is(conn, cause) {
		t.Error("connection error should unwrap to its cause")
	}
	if conn.Error() != "httpclient: connection: dial tcp: connection refused" {
		t.Errorf("unexpected message %q", conn.Error())
	}
	if !IsConnection(conn) || !IsRetryable(conn) || IsTimeout(conn) {
		t.Error("helper classification wrong for connection error")
	}

	srv := ClassifyStatusCode(502, nil)
	if !strings.Contains(srv.Error(), "(HTTP 502)") || !IsServerError(srv) {
		t.Errorf("unexpected server error %v", srv)
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
	if ErrorCode(99).String() != "unknown" {
		t.Error("unknown code name")
	}
}
