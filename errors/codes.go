package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates a backend is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the client sent too many requests.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Request errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodePayloadTooLarge indicates the request body exceeds the upload limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// ErrCodeUnauthorized indicates a missing or invalid bearer token.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Speech processing errors
const (
	// ErrCodeDecode indicates the uploaded audio could not be decoded.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeInvalidSpan indicates a time span that cannot be cut from a waveform.
	ErrCodeInvalidSpan ErrorCode = "INVALID_SPAN"
	// ErrCodeInference indicates an external model capability failed.
	ErrCodeInference ErrorCode = "INFERENCE_ERROR"
	// ErrCodeAlignment indicates malformed correlated input to the aligner.
	ErrCodeAlignment ErrorCode = "ALIGNMENT_ERROR"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExternalService indicates an error from an external service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// Inference errors are flagged retryable so callers know a selective re-run
// is possible. Nothing in this module retries them on its own.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
	ErrCodeExternalService:    true,
	ErrCodeInference:          true,
	ErrCodeInternal:           false,
	ErrCodeDecode:             false,
	ErrCodeAlignment:          false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
