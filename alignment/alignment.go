// Package alignment merges time-stamped transcript segments with speaker
// turns into speaker-attributed utterances and renders them as text.
//
// Alignment is pure: the same inputs always produce the same output, and
// inputs are never modified.
package alignment

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/speechkit/diarization"
	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/transcription"
)

// UnknownSpeaker labels segments whose start falls inside no turn.
const UnknownSpeaker = "Unknown"

// DefaultTranslationLabel prefixes translation lines in Render.
const DefaultTranslationLabel = "EN"

// Utterance is one transcript segment attributed to a speaker.
type Utterance struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	// Translation is nil when no translations were supplied. An empty
	// translation is kept and rendered.
	Translation *string `json:"translation,omitempty"`
}

// Transcript is the aligned utterance list together with its rendering.
type Transcript struct {
	Utterances []Utterance `json:"transcript"`
	Rendered   string      `json:"pretty"`
}

// SpeakerLabel returns the display label for a raw backend speaker id.
func SpeakerLabel(id string) string {
	return "Speaker " + id
}

// Align attributes every segment to the first turn, in the order given,
// whose [start, end) contains the segment's start. Segments outside every
// turn get UnknownSpeaker.
//
// translations is either nil or positionally paired with segments.
func Align(segments []transcription.Segment, turns []diarization.Turn, translations []string) ([]Utterance, error) {
	if translations != nil && len(translations) != len(segments) {
		return nil, apperrors.Alignment("got %d translations for %d segments", len(translations), len(segments))
	}
	for i, s := range segments {
		if s.Start < 0 || s.End < s.Start {
			return nil, apperrors.Alignment("segment %d has invalid span [%.3f, %.3f]", i, s.Start, s.End)
		}
	}
	for i, t := range turns {
		if t.Start < 0 || t.End < t.Start {
			return nil, apperrors.Alignment("turn %d has invalid span [%.3f, %.3f]", i, t.Start, t.End)
		}
	}

	// Overlapping turns resolve to the earliest start; equal starts keep input order.
	byStart := slices.Clone(turns)
	slices.SortStableFunc(byStart, func(a, b diarization.Turn) int { return cmp.Compare(a.Start, b.Start) })

	out := make([]Utterance, len(segments))
	for i, s := range segments {
		out[i] = Utterance{
			Start:   s.Start,
			End:     s.End,
			Speaker: speakerAt(s.Start, byStart),
			Text:    s.Text,
		}
		if translations != nil {
			tr := translations[i]
			out[i].Translation = &tr
		}
	}
	return out, nil
}

func speakerAt(t float64, turns []diarization.Turn) string {
	for _, turn := range turns {
		if turn.Start <= t && t < turn.End {
			return SpeakerLabel(turn.Speaker)
		}
	}
	return UnknownSpeaker
}

// Render formats utterances as human-readable text with the "EN" label.
func Render(utts []Utterance) string {
	return RenderWithLabel(utts, DefaultTranslationLabel)
}

// RenderWithLabel formats utterances as
//
//	[0.00-2.00s] Speaker A:
//	  text
//	    EN: translation
//
// using label in place of EN. Blocks are separated by a newline and the
// output has no trailing newline.
func RenderWithLabel(utts []Utterance, label string) string {
	var b strings.Builder
	for i, u := range utts {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%.2f-%.2fs] %s:\n  %s", u.Start, u.End, u.Speaker, u.Text)
		if u.Translation != nil {
			fmt.Fprintf(&b, "\n    %s: %s", label, *u.Translation)
		}
	}
	return b.String()
}

// AlignTranscript aligns and renders in one step.
func AlignTranscript(segments []transcription.Segment, turns []diarization.Turn, translations []string) (*Transcript, error) {
	utts, err := Align(segments, turns, translations)
	if err != nil {
		return nil, err
	}
	return &Transcript{Utterances: utts, Rendered: Render(utts)}, nil
}
