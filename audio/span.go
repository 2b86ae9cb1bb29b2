package audio

import "math"

// Span is a half-open time interval [Start, End) in seconds.
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Valid reports whether Start >= 0 and End > Start.
func (s Span) Valid() bool {
	return s.Start >= 0 && s.End > s.Start
}

// Duration returns End - Start.
func (s Span) Duration() float64 {
	return s.End - s.Start
}

// Contains reports whether t falls inside [Start, End).
func (s Span) Contains(t float64) bool {
	return s.Start <= t && t < s.End
}

// Overlaps reports whether the two spans share any time.
func (s Span) Overlaps(o Span) bool {
	return math.Max(s.Start, o.Start) < math.Min(s.End, o.End)
}
