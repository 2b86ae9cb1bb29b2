package diarization

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kbukum/speechkit/audio"
	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
)

// Source hands out the backend to use for a call. *provider.Manager[Provider]
// satisfies it.
type Source interface {
	Get(ctx context.Context) (Provider, error)
}

type static struct{ p Provider }

func (s static) Get(context.Context) (Provider, error) { return s.p, nil }

// Static returns a Source that always yields p.
func Static(p Provider) Source { return static{p: p} }

// Diarizer runs diarization and normalizes the backend's output.
type Diarizer struct {
	source Source
	opts   Options
	log    *logger.Logger
}

// NewDiarizer creates a Diarizer that passes opts to every backend call.
func NewDiarizer(source Source, opts Options) *Diarizer {
	return &Diarizer{
		source: source,
		opts:   opts,
		log:    logger.Get("diarization"),
	}
}

// Diarize returns the speaker turns of w ordered by start time. Turns with
// equal starts keep the backend's order. No speech yields an empty slice.
func (d *Diarizer) Diarize(ctx context.Context, w *audio.Waveform) ([]Turn, error) {
	p, err := d.source.Get(ctx)
	if err != nil {
		return nil, apperrors.ServiceUnavailable("diarization").WithCause(err)
	}

	started := time.Now()
	turns, err := p.Diarize(ctx, w, d.opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.Inference(apperrors.StageDiarization, err).
			WithDetail("provider", p.Name())
	}

	out := make([]Turn, len(turns))
	copy(out, turns)
	for _, t := range out {
		if !t.Span().Valid() {
			return nil, apperrors.Inference(apperrors.StageDiarization,
				fmt.Errorf("backend returned invalid turn [%.3f, %.3f) for speaker %q", t.Start, t.End, t.Speaker)).
				WithDetail("provider", p.Name())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	d.log.Debug("Diarization complete", logger.MergeWithDuration(map[string]interface{}{
		logger.FieldProvider: p.Name(),
		logger.FieldTurns:    len(out),
	}, time.Since(started)))
	return out, nil
}
