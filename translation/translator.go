package translation

import (
	"context"
	"strings"
	"time"

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

// Translator resolves language identifiers and calls the selected backend.
type Translator struct {
	source        Source
	defaultSource Language
	defaultTarget Language
	log           *logger.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithDefaults sets the languages used for empty or unknown identifiers.
func WithDefaults(src, tgt Language) Option {
	return func(t *Translator) {
		t.defaultSource = src
		t.defaultTarget = tgt
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(t *Translator) { t.log = l }
}

// NewTranslator creates a Translator with hindi to english defaults.
func NewTranslator(source Source, opts ...Option) *Translator {
	t := &Translator{
		source:        source,
		defaultSource: Hindi,
		defaultTarget: English,
		log:           logger.Get("translation"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Resolve maps caller identifiers to languages. An empty identifier selects
// the default silently; an unknown one selects the default and logs a warning.
func (t *Translator) Resolve(src, tgt string) (source, target Language, srcFallback, tgtFallback bool) {
	source, srcFallback = t.resolve(src, t.defaultSource, "source")
	target, tgtFallback = t.resolve(tgt, t.defaultTarget, "target")
	return source, target, srcFallback, tgtFallback
}

func (t *Translator) resolve(id string, fallback Language, role string) (Language, bool) {
	if strings.TrimSpace(id) == "" {
		return fallback, false
	}
	l, ok := ResolveLanguage(id, fallback)
	if !ok {
		t.log.Warn("Unknown language, using default", map[string]interface{}{
			"role":      role,
			"requested": id,
			"used":      fallback.Name,
		})
	}
	return l, !ok
}

// Translate translates text from src to tgt. Empty text and identical
// languages return the input without calling the backend.
func (t *Translator) Translate(ctx context.Context, text, src, tgt string) (*Result, error) {
	source, target, srcFallback, tgtFallback := t.Resolve(src, tgt)
	result := &Result{
		Text:           text,
		Source:         source,
		Target:         target,
		SourceFallback: srcFallback,
		TargetFallback: tgtFallback,
	}
	if strings.TrimSpace(text) == "" || source == target {
		return result, nil
	}

	p, err := t.source.Get(ctx)
	if err != nil {
		return nil, apperrors.ServiceUnavailable("translation").WithCause(err)
	}

	started := time.Now()
	out, err := p.Translate(ctx, Request{Text: text, Source: source, Target: target})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.Inference(apperrors.StageTranslation, err).
			WithDetail("provider", p.Name()).
			WithDetail("source", source.Code).
			WithDetail("target", target.Code)
	}
	result.Text = strings.TrimSpace(out)

	t.log.Debug("Translation complete", logger.MergeWithDuration(map[string]interface{}{
		logger.FieldProvider: p.Name(),
		"source":             source.Code,
		"target":             target.Code,
	}, time.Since(started)))
	return result, nil
}
