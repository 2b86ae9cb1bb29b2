package transcription

// Segment is a time-stamped piece of transcript. Times are seconds from the
// start of the transcribed waveform.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Options are per-call backend hints.
type Options struct {
	// Language is an ISO-639-1 hint ("hi", "en"). Empty lets the model detect it.
	Language string
	// Model overrides the backend's configured model.
	Model string
	// Timestamps asks the backend for segment timing.
	Timestamps bool
}

// Response is what a backend returns for one waveform.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	Language string    `json:"language,omitempty"`
}
