package diarization

import (
	"context"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/provider"
)

// Provider is the interface that diarization backends must implement.
type Provider interface {
	provider.Provider

	// Diarize returns the speaker turns found in w. Turns may come back in
	// any order.
	Diarize(ctx context.Context, w *audio.Waveform, opts Options) ([]Turn, error)
}
