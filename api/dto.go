package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kbukum/speechkit/alignment"
	"github.com/kbukum/speechkit/diarization"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/translation"
)

type statusResponse struct {
	Service     string                 `json:"service"`
	Version     string                 `json:"version"`
	Status      string                 `json:"status"`
	Translation bool                   `json:"translation"`
	Storage     bool                   `json:"storage"`
	Providers   map[string]string      `json:"providers"`
	Backends    []observability.Health `json:"backends,omitempty"`
	Endpoints   []string               `json:"endpoints"`
	Languages   []translation.Language `json:"languages"`
}

type languagesResponse struct {
	Languages []translation.Language `json:"languages"`
}

type asrResponse struct {
	Transcript string `json:"transcript"`
}

type segmentsResponse struct {
	Segments []transcription.Segment `json:"segments"`
}

type diarizeResponse struct {
	Segments []diarization.Turn `json:"segments"`
}

type translateRequest struct {
	Text    string `json:"text"`
	SrcLang string `json:"src_lang"`
	TgtLang string `json:"tgt_lang"`
}

// segmentInput is a timed transcript piece supplied by the caller.
type segmentInput struct {
	Start float64 `json:"start" validate:"gte=0"`
	End   float64 `json:"end" validate:"gtefield=Start"`
	Text  string  `json:"text"`
}

// turnInput is a speaker turn supplied by the caller.
type turnInput struct {
	Start   float64   `json:"start" validate:"gte=0"`
	End     float64   `json:"end" validate:"gtefield=Start"`
	Speaker speakerID `json:"speaker" validate:"required"`
}

type transcriptRequest struct {
	Segments     []segmentInput `json:"asr_segments" validate:"required,dive"`
	Diarization  []turnInput    `json:"diarization" validate:"required,dive"`
	Translations []string       `json:"translations"`
}

func (r *transcriptRequest) segments() []transcription.Segment {
	out := make([]transcription.Segment, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = transcription.Segment{Start: s.Start, End: s.End, Text: s.Text}
	}
	return out
}

func (r *transcriptRequest) turns() []diarization.Turn {
	out := make([]diarization.Turn, len(r.Diarization))
	for i, t := range r.Diarization {
		out[i] = diarization.Turn{Start: t.Start, End: t.End, Speaker: string(t.Speaker)}
	}
	return out
}

type exportRequest struct {
	Transcript []alignment.Utterance `json:"transcript" validate:"required"`
	Format     string                `json:"format"`
	Store      bool                  `json:"store"`
}

// speakerID accepts both string and numeric speaker labels, since
// diarization backends emit either.
type speakerID string

func (s *speakerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = speakerID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("speaker must be a string or a number: %w", err)
	}
	*s = speakerID(n.String())
	return nil
}
