package transcription

import (
	"context"
	"sort"
	"strings"
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

// Transcriber runs speech recognition through the selected backend.
type Transcriber struct {
	source Source
	opts   Options
	log    *logger.Logger
}

// NewTranscriber creates a Transcriber. opts.Language and opts.Model are
// sent with every call.
func NewTranscriber(source Source, opts Options) *Transcriber {
	return &Transcriber{
		source: source,
		opts:   opts,
		log:    logger.Get("transcription"),
	}
}

// TranscribeText returns the whole text of w. An empty waveform yields ""
// without calling the backend.
func (t *Transcriber) TranscribeText(ctx context.Context, w *audio.Waveform) (string, error) {
	if w == nil || w.Empty() {
		return "", nil
	}
	opts := t.opts
	opts.Timestamps = false
	resp, err := t.call(ctx, w, opts)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// TranscribeTimestamped returns the segments of w ordered by start time.
// Segments with no text are dropped. An empty waveform yields no segments
// without calling the backend.
func (t *Transcriber) TranscribeTimestamped(ctx context.Context, w *audio.Waveform) ([]Segment, error) {
	if w == nil || w.Empty() {
		return []Segment{}, nil
	}
	opts := t.opts
	opts.Timestamps = true
	resp, err := t.call(ctx, w, opts)
	if err != nil {
		return nil, err
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		s.Text = strings.TrimSpace(s.Text)
		if s.Text == "" {
			continue
		}
		segments = append(segments, s)
	}
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].Start < segments[j].Start })
	return segments, nil
}

func (t *Transcriber) call(ctx context.Context, w *audio.Waveform, opts Options) (*Response, error) {
	p, err := t.source.Get(ctx)
	if err != nil {
		return nil, apperrors.ServiceUnavailable("transcription").WithCause(err)
	}

	started := time.Now()
	resp, err := p.Transcribe(ctx, w, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.Inference(apperrors.StageASR, err).WithDetail("provider", p.Name())
	}
	if resp == nil {
		resp = &Response{}
	}

	t.log.Debug("Transcription complete", logger.MergeWithDuration(map[string]interface{}{
		logger.FieldProvider: p.Name(),
		"timestamps":         opts.Timestamps,
		"seconds":            w.Duration(),
	}, time.Since(started)))
	return resp, nil
}
