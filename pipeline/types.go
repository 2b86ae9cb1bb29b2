package pipeline

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/translation"
)

// Request is one pipeline invocation.
type Request struct {
	Audio      []byte
	FormatHint string
	SourceLang string
	TargetLang string
	// SkipTranslation stops each turn after transcription.
	SkipTranslation bool
	// OnTurn, when set, is called once per finished turn with either its
	// result or its failure. It runs on the turn's goroutine and must be safe
	// for concurrent use.
	OnTurn func(done *TurnResult, failed *TurnError)
	// OnDiarized, when set, receives the number of turns before any turn runs.
	OnDiarized func(turns int)
}

// TurnResult is the output of one successful turn.
type TurnResult struct {
	Index       int     `json:"index"`
	Speaker     string  `json:"speaker"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Transcript  string  `json:"transcript"`
	Translation string  `json:"translation,omitempty"`
}

// TurnError records why a turn produced no result.
type TurnError struct {
	Index   int
	Stage   apperrors.Stage
	Speaker string
	Start   float64
	End     float64
	Err     error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turn %d failed at %s: %v", e.Index, e.Stage, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// MarshalJSON renders the error with its application code.
func (e *TurnError) MarshalJSON() ([]byte, error) {
	code := "UNKNOWN"
	msg := e.Err.Error()
	if appErr, ok := apperrors.AsAppError(e.Err); ok {
		code = string(appErr.Code)
	}
	return json.Marshal(struct {
		Index   int     `json:"index"`
		Stage   string  `json:"stage"`
		Speaker string  `json:"speaker"`
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
		Code    string  `json:"code"`
		Message string  `json:"message"`
	}{e.Index, string(e.Stage), e.Speaker, e.Start, e.End, code, msg})
}

// Result is the outcome of a pipeline run. Turns are ordered by start time.
type Result struct {
	Turns     []TurnResult         `json:"segments"`
	Errors    map[int]*TurnError   `json:"errors,omitempty"`
	Skipped   []int                `json:"skipped,omitempty"`
	Cancelled bool                 `json:"cancelled"`
	Source    translation.Language `json:"source"`
	Target    translation.Language `json:"target"`
	// Duration is the length of the standardized audio in seconds.
	Duration float64 `json:"duration"`
}

// Failed reports whether any turn failed.
func (r *Result) Failed() bool { return len(r.Errors) > 0 }
