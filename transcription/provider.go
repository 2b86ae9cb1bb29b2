package transcription

import (
	"context"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider

	// Transcribe returns the text of w, with segments when opts.Timestamps
	// is set.
	Transcribe(ctx context.Context, w *audio.Waveform, opts Options) (*Response, error)
}
