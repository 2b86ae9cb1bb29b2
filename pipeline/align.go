package pipeline

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/speechkit/alignment"
	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/diarization"
	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/resilience"
	"github.com/kbukum/speechkit/transcription"
)

// AlignRequest asks for a segment-level transcript of one recording.
type AlignRequest struct {
	Audio      []byte
	FormatHint string
	SourceLang string
	TargetLang string
	Translate  bool
}

// AlignAudio transcribes the whole recording with timestamps, diarizes it,
// optionally translates every segment and attributes each segment to a
// speaker. Unlike RunFullPipeline any failure aborts the call.
func (o *Orchestrator) AlignAudio(ctx context.Context, req AlignRequest) (*alignment.Transcript, error) {
	started := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanAlign)
	defer span.End()
	log := o.log.WithContext(ctx)

	w, err := o.prepare(ctx, Request{Audio: req.Audio, FormatHint: req.FormatHint})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer w.Release()

	segments, turns, err := o.segmentsAndTurns(ctx, w)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var translations []string
	if req.Translate && o.translator != nil {
		translations, err = o.translateSegments(ctx, segments, req.SourceLang, req.TargetLang)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	opCtx, op := observability.StartOperation(ctx, o.metrics, string(apperrors.StageAlignment))
	transcript, err := alignment.AlignTranscript(segments, turns, translations)
	op.End(opCtx, err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int(observability.AttrTurns, len(turns)))
	log.Info("Transcript aligned", logger.MergeWithDuration(map[string]interface{}{
		"segments":        len(segments),
		logger.FieldTurns: len(turns),
		"translated":      translations != nil,
	}, time.Since(started)))
	return transcript, nil
}

// segmentsAndTurns runs timestamped ASR and diarization of w side by side.
func (o *Orchestrator) segmentsAndTurns(ctx context.Context, w *audio.Waveform) ([]transcription.Segment, []diarization.Turn, error) {
	var (
		wg       sync.WaitGroup
		segments []transcription.Segment
		asrErr   error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		opCtx, op := observability.StartOperation(ctx, o.metrics, string(apperrors.StageASR))
		segments, asrErr = o.transcriber.TranscribeTimestamped(opCtx, w)
		op.End(opCtx, asrErr)
	}()

	turns, diaErr := o.diarize(ctx, w)
	wg.Wait()

	if diaErr != nil {
		return nil, nil, diaErr
	}
	if asrErr != nil {
		return nil, nil, asrErr
	}
	return segments, turns, nil
}

// translateSegments translates every segment text, preserving order.
func (o *Orchestrator) translateSegments(ctx context.Context, segments []transcription.Segment, src, tgt string) ([]string, error) {
	source, target, _, _ := o.translator.Resolve(src, tgt)
	out := make([]string, len(segments))
	errs := make([]error, len(segments))

	bulkhead := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "pipeline.translations",
		MaxConcurrent: o.cfg.MaxConcurrentTurns,
	})
	var wg sync.WaitGroup
	for i, seg := range segments {
		release, err := bulkhead.Acquire(ctx)
		if err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			defer release()
			opCtx, op := observability.StartOperation(ctx, o.metrics, string(apperrors.StageTranslation))
			r, err := o.translator.Translate(opCtx, text, source.Name, target.Name)
			op.End(opCtx, err)
			if err != nil {
				errs[i] = err
				return
			}
			out[i] = r.Text
		}(i, seg.Text)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
