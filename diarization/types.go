package diarization

import "github.com/kbukum/speechkit/audio"

// Turn is a contiguous time range attributed to one speaker. Speaker is the
// backend's raw label ("0", "SPEAKER_01", "A").
type Turn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Span returns the turn's time range.
func (t Turn) Span() audio.Span {
	return audio.Span{Start: t.Start, End: t.End}
}

// Options are speaker-count hints passed to the backend. Zero means unset.
type Options struct {
	NumSpeakers int `json:"num_speakers,omitempty"`
	MinSpeakers int `json:"min_speakers,omitempty"`
	MaxSpeakers int `json:"max_speakers,omitempty"`
}
