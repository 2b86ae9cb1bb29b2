package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Stage names a step of the transcription pipeline.
type Stage string

// Pipeline stages. The inference stages are the ones an InferenceError can carry.
const (
	StagePrepare     Stage = "prepare"
	StageDiarization Stage = "diarization"
	StageCrop        Stage = "crop"
	StageASR         Stage = "asr"
	StageTranslation Stage = "translation"
	StageAlignment   Stage = "alignment"
)

// Decode creates a new AppError for audio that could not be decoded.
// hint is the caller-supplied format hint (file extension or MIME type).
func Decode(hint string, cause error) *AppError {
	details := map[string]any{"stage": string(StagePrepare)}
	if hint != "" {
		details["format_hint"] = hint
	}
	return &AppError{
		Code: ErrCodeDecode, Message: "The uploaded audio could not be decoded.",
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: details, Cause: cause,
	}
}

// InvalidSpan creates a new AppError for a span that cannot be cut from a
// waveform of the given duration.
func InvalidSpan(start, end, duration float64) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidSpan,
		Message:    fmt.Sprintf("span [%.3f, %.3f) is outside waveform of %.3fs", start, end, duration),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{
			"stage":    string(StageCrop),
			"start":    start,
			"end":      end,
			"duration": duration,
		},
	}
}

// Inference creates a new AppError for a failed model call at the given stage.
func Inference(stage Stage, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInference, Message: fmt.Sprintf("%s inference failed", stage),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"stage": string(stage)}, Cause: cause,
	}
}

// Alignment creates a new AppError for inconsistent aligner input.
func Alignment(format string, args ...any) *AppError {
	return &AppError{
		Code: ErrCodeAlignment, Message: fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"stage": string(StageAlignment)},
	}
}

// IsCode reports whether err is, or wraps, an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// StageOf returns the pipeline stage recorded on err, or "" if none.
func StageOf(err error) Stage {
	var appErr *AppError
	if !stderrors.As(err, &appErr) || appErr.Details == nil {
		return ""
	}
	s, _ := appErr.Details["stage"].(string)
	return Stage(s)
}
