package pipeline

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/diarization"
	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/resilience"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/translation"
)

// Preparer decodes uploads and cuts turns out of a waveform.
type Preparer interface {
	Standardize(ctx context.Context, data []byte, hint string) (*audio.Waveform, error)
	Crop(w *audio.Waveform, span audio.Span) (*audio.Waveform, error)
}

// Diarizer splits a waveform into speaker turns.
type Diarizer interface {
	Diarize(ctx context.Context, w *audio.Waveform) ([]diarization.Turn, error)
}

// Transcriber converts speech to text.
type Transcriber interface {
	TranscribeText(ctx context.Context, w *audio.Waveform) (string, error)
	TranscribeTimestamped(ctx context.Context, w *audio.Waveform) ([]transcription.Segment, error)
}

// Translator translates text between languages of the fixed table.
type Translator interface {
	Resolve(src, tgt string) (source, target translation.Language, srcFallback, tgtFallback bool)
	Translate(ctx context.Context, text, src, tgt string) (*translation.Result, error)
}

// Orchestrator runs the pipeline. It holds no per-request state and is safe
// for concurrent use.
type Orchestrator struct {
	cfg         Config
	preparer    Preparer
	diarizer    Diarizer
	transcriber Transcriber
	translator  Translator
	metrics     *observability.Metrics
	log         *logger.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics records pipeline and stage metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithLogger overrides the component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// NewOrchestrator creates an orchestrator over the given adapters.
func NewOrchestrator(cfg Config, preparer Preparer, diarizer Diarizer, transcriber Transcriber, translator Translator, opts ...Option) *Orchestrator {
	cfg.ApplyDefaults()
	o := &Orchestrator{
		cfg:         cfg,
		preparer:    preparer,
		diarizer:    diarizer,
		transcriber: transcriber,
		translator:  translator,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get("pipeline")
	}
	return o
}

// turnJob is the immutable input of one turn sub-pipeline.
type turnJob struct {
	index  int
	turn   diarization.Turn
	source translation.Language
	target translation.Language
	skip   bool
}

// RunFullPipeline standardizes, diarizes and then crops, transcribes and
// translates every turn. Prepare and diarization failures abort the run.
// Per-turn failures are collected in Result.Errors. On cancellation the
// partial result is returned with a nil error.
func (o *Orchestrator) RunFullPipeline(ctx context.Context, req Request) (res *Result, err error) {
	started := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanPipeline)
	log := o.log.WithContext(ctx)
	defer func() {
		status := observability.StatusFor(err)
		if err == nil && res.Cancelled {
			status = observability.StatusCancelled
		}
		o.metrics.RecordPipeline(ctx, status, time.Since(started))
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	source, target := o.languages(req)
	span.SetAttributes(
		attribute.String(observability.AttrSourceLang, source.Code),
		attribute.String(observability.AttrTargetLang, target.Code),
	)
	log.Info("Pipeline started", map[string]interface{}{
		logger.FieldBytes: len(req.Audio),
		"format_hint":     req.FormatHint,
		"source":          source.Name,
		"target":          target.Name,
		"translate":       !req.SkipTranslation,
	})

	w, err := o.prepare(ctx, req)
	if err != nil {
		log.Warn("Audio preparation failed", logger.MergeWithError(nil, err))
		return nil, err
	}
	defer w.Release()

	turns, err := o.diarize(ctx, w)
	if err != nil {
		log.Warn("Diarization failed", logger.MergeWithError(nil, err))
		return nil, err
	}
	span.SetAttributes(attribute.Int(observability.AttrTurns, len(turns)))
	if req.OnDiarized != nil {
		req.OnDiarized(len(turns))
	}
	log.Info("Diarization produced turns", map[string]interface{}{
		logger.FieldTurns: len(turns),
		"audio_seconds":   w.Duration(),
	})

	res = &Result{
		Turns:    []TurnResult{},
		Errors:   map[int]*TurnError{},
		Source:   source,
		Target:   target,
		Duration: w.Duration(),
	}

	outputs := make([]*TurnResult, len(turns))
	failures := make([]*TurnError, len(turns))
	bulkhead := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "pipeline.turns",
		MaxConcurrent: o.cfg.MaxConcurrentTurns,
	})

	var wg sync.WaitGroup
	for i, turn := range turns {
		release, acqErr := bulkhead.Acquire(ctx)
		if acqErr != nil {
			for j := i; j < len(turns); j++ {
				res.Skipped = append(res.Skipped, j)
			}
			break
		}
		job := turnJob{index: i, turn: turn, source: source, target: target, skip: req.SkipTranslation || o.translator == nil}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer release()
			outputs[job.index], failures[job.index] = o.runTurn(ctx, w, job)
			if req.OnTurn != nil {
				req.OnTurn(outputs[job.index], failures[job.index])
			}
		}()
	}
	wg.Wait()

	interrupted := len(res.Skipped) > 0
	for i := range turns {
		if outputs[i] != nil {
			res.Turns = append(res.Turns, *outputs[i])
		}
		if failures[i] != nil {
			res.Errors[i] = failures[i]
			if ctx.Err() != nil && isContextErr(failures[i].Err) {
				interrupted = true
			}
		}
	}
	sort.SliceStable(res.Turns, func(a, b int) bool {
		if res.Turns[a].Start != res.Turns[b].Start {
			return res.Turns[a].Start < res.Turns[b].Start
		}
		return res.Turns[a].Index < res.Turns[b].Index
	})
	res.Cancelled = interrupted

	log.Info("Pipeline finished", logger.MergeWithDuration(map[string]interface{}{
		logger.FieldTurns: len(turns),
		"completed":       len(res.Turns),
		"failed":          len(res.Errors),
		"skipped":         len(res.Skipped),
		"cancelled":       res.Cancelled,
	}, time.Since(started)))
	return res, nil
}

// DiarizeTranscribe is RunFullPipeline without the translation stage.
func (o *Orchestrator) DiarizeTranscribe(ctx context.Context, req Request) (*Result, error) {
	req.SkipTranslation = true
	return o.RunFullPipeline(ctx, req)
}

func (o *Orchestrator) languages(req Request) (translation.Language, translation.Language) {
	if o.translator == nil {
		source, _ := translation.ResolveLanguage(req.SourceLang, translation.Hindi)
		target, _ := translation.ResolveLanguage(req.TargetLang, translation.English)
		return source, target
	}
	source, target, _, _ := o.translator.Resolve(req.SourceLang, req.TargetLang)
	return source, target
}

func (o *Orchestrator) prepare(ctx context.Context, req Request) (*audio.Waveform, error) {
	opCtx, op := observability.StartOperation(ctx, o.metrics, string(apperrors.StagePrepare))
	w, err := o.preparer.Standardize(opCtx, req.Audio, req.FormatHint)
	op.End(opCtx, err)
	return w, err
}

func (o *Orchestrator) diarize(ctx context.Context, w *audio.Waveform) ([]diarization.Turn, error) {
	opCtx, op := observability.StartOperation(ctx, o.metrics, string(apperrors.StageDiarization))
	turns, err := o.diarizer.Diarize(opCtx, w)
	op.End(opCtx, err)
	return turns, err
}

// runTurn crops, transcribes and optionally translates one turn. Exactly one
// of the return values is non-nil.
func (o *Orchestrator) runTurn(ctx context.Context, w *audio.Waveform, job turnJob) (*TurnResult, *TurnError) {
	if o.cfg.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.TurnTimeout)
		defer cancel()
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanTurn,
		trace.WithAttributes(observability.TurnAttrs(job.index, job.turn.Speaker)...))
	defer span.End()

	o.metrics.TurnStarted(ctx)
	defer o.metrics.TurnFinished(ctx)

	started := time.Now()
	fields := logger.TurnFields(job.index, job.turn.Speaker, job.turn.Start, job.turn.End)
	log := o.log.WithContext(ctx)

	fail := func(stage apperrors.Stage, err error) *TurnError {
		span.RecordError(err)
		f := logger.MergeWithError(copyFields(fields), err)
		f[logger.FieldStage] = string(stage)
		log.Warn("Turn failed", f)
		return &TurnError{
			Index:   job.index,
			Stage:   stage,
			Speaker: job.turn.Speaker,
			Start:   job.turn.Start,
			End:     job.turn.End,
			Err:     err,
		}
	}

	cropCtx, op := observability.StartOperation(ctx, o.metrics, string(apperrors.StageCrop), observability.TurnAttrs(job.index, job.turn.Speaker)...)
	clip, err := o.preparer.Crop(w, job.turn.Span())
	op.End(cropCtx, err)
	if err != nil {
		return nil, fail(apperrors.StageCrop, err)
	}
	defer clip.Release()

	asrCtx, op := observability.StartOperation(ctx, o.metrics, string(apperrors.StageASR), observability.TurnAttrs(job.index, job.turn.Speaker)...)
	text, err := o.transcriber.TranscribeText(asrCtx, clip)
	op.End(asrCtx, err)
	if err != nil {
		return nil, fail(apperrors.StageASR, err)
	}

	out := &TurnResult{
		Index:      job.index,
		Speaker:    job.turn.Speaker,
		Start:      job.turn.Start,
		End:        job.turn.End,
		Transcript: text,
	}

	if !job.skip {
		trCtx, op := observability.StartOperation(ctx, o.metrics, string(apperrors.StageTranslation), observability.TurnAttrs(job.index, job.turn.Speaker)...)
		tr, err := o.translator.Translate(trCtx, text, job.source.Name, job.target.Name)
		op.End(trCtx, err)
		if err != nil {
			return nil, fail(apperrors.StageTranslation, err)
		}
		out.Translation = tr.Text
	}

	log.Debug("Turn complete", logger.MergeWithDuration(copyFields(fields), time.Since(started)))
	return out, nil
}

func copyFields(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
