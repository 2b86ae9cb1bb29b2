package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeInference, true},
		{ErrCodeDecode, false},
		{ErrCodeAlignment, false},
		{ErrCodeNotFound, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "msg", http.StatusTeapot)
			if err.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v for %s, got %v", tt.retryable, tt.code, err.Retryable)
			}
			if err.HTTPStatus != http.StatusTeapot {
				t.Errorf("expected status %d, got %d", http.StatusTeapot, err.HTTPStatus)
			}
		})
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := New(ErrCodeInternal, "boom", http.StatusInternalServerError)
	if got := err.Error(); got != "INTERNAL_ERROR: boom" {
		t.Errorf("unexpected format: %q", got)
	}
	err.WithCause(fmt.Errorf("disk full"))
	if got := err.Error(); !strings.Contains(got, "(cause: disk full)") {
		t.Errorf("expected cause in message, got %q", got)
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotFound("transcript", "abc")
	err.WithDetails(map[string]any{"format": "pdf"}).WithDetail("bucket", "exports")
	if err.Details["resource"] != "transcript" || err.Details["id"] != "abc" {
		t.Errorf("existing details lost: %v", err.Details)
	}
	if err.Details["format"] != "pdf" || err.Details["bucket"] != "exports" {
		t.Errorf("new details missing: %v", err.Details)
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{Code: ErrCodeInternal}
	err.WithDetail("k", "v")
	if err.Details["k"] != "v" {
		t.Errorf("expected detail to be set, got %v", err.Details)
	}
}

func TestDecode(t *testing.T) {
	cause := fmt.Errorf("invalid data found when processing input")
	err := Decode("webm", cause)
	if err.Code != ErrCodeDecode {
		t.Errorf("expected DECODE_ERROR, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("decode errors are client errors, got %d", err.HTTPStatus)
	}
	if err.Details["format_hint"] != "webm" {
		t.Errorf("expected format_hint=webm, got %v", err.Details["format_hint"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable with errors.Is")
	}
	if _, ok := Decode("", nil).Details["format_hint"]; ok {
		t.Error("empty hint should not be recorded")
	}
}

func TestInvalidSpan(t *testing.T) {
	err := InvalidSpan(5, 4, 10)
	if err.Code != ErrCodeInvalidSpan {
		t.Errorf("expected INVALID_SPAN, got %s", err.Code)
	}
	if StageOf(err) != StageCrop {
		t.Errorf("expected crop stage, got %q", StageOf(err))
	}
	if err.Details["duration"] != 10.0 {
		t.Errorf("expected duration detail, got %v", err.Details["duration"])
	}
}

func TestInference_StageTagged(t *testing.T) {
	for _, stage := range []Stage{StageDiarization, StageASR, StageTranslation} {
		t.Run(string(stage), func(t *testing.T) {
			cause := fmt.Errorf("model crashed")
			err := fmt.Errorf("turn 3: %w", Inference(stage, cause))
			if !IsCode(err, ErrCodeInference) {
				t.Fatalf("expected wrapped INFERENCE_ERROR, got %v", err)
			}
			if got := StageOf(err); got != stage {
				t.Errorf("expected stage %q, got %q", stage, got)
			}
			if !stderrors.Is(err, cause) {
				t.Error("cause lost through wrapping")
			}
		})
	}
}

func TestAlignment(t *testing.T) {
	err := Alignment("got %d translations for %d segments", 1, 2)
	if err.Message != "got 1 translations for 2 segments" {
		t.Errorf("unexpected message %q", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("alignment errors are not retryable")
	}
}

func TestStageOf_PlainError(t *testing.T) {
	if got := StageOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("expected empty stage, got %q", got)
	}
	if got := StageOf(NotFound("x", "")); got != "" {
		t.Errorf("expected empty stage for error without stage detail, got %q", got)
	}
}

func TestAppError_ToResponse(t *testing.T) {
	err := Inference(StageASR, fmt.Errorf("secret internals"))
	resp := err.ToResponse()
	if resp.Error.Code != ErrCodeInference {
		t.Errorf("expected code in body, got %s", resp.Error.Code)
	}
	if !resp.Error.Retryable {
		t.Error("expected retryable flag in body")
	}
	if resp.Error.Details["stage"] != "asr" {
		t.Errorf("expected stage in body, got %v", resp.Error.Details)
	}
	if strings.Contains(resp.Error.Message, "secret") {
		t.Error("cause must not leak into the response message")
	}
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Timeout("diarize"))
	appErr, ok := AsAppError(wrapped)
	if !ok || appErr.Code != ErrCodeTimeout {
		t.Errorf("expected TIMEOUT AppError, got %v %v", appErr, ok)
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("plain error is not an AppError")
	}
	var _ error = &AppError{}
}
