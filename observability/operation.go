package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/speechkit/errors"
)

// Outcome values recorded on spans and metrics.
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// Operation is a traced and timed pipeline stage.
type Operation struct {
	stage   string
	span    trace.Span
	metrics *Metrics
	started time.Time
}

// StartOperation opens a span named "speech.<stage>" and starts the clock.
// metrics may be nil.
func StartOperation(ctx context.Context, metrics *Metrics, stage string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, "speech."+stage, trace.WithAttributes(
		append([]attribute.KeyValue{attribute.String(AttrStage, stage)}, attrs...)...,
	))
	return ctx, &Operation{stage: stage, span: span, metrics: metrics, started: time.Now()}
}

// End closes the span, records the stage metrics and returns the elapsed time.
func (o *Operation) End(ctx context.Context, err error) time.Duration {
	elapsed := time.Since(o.started)
	status := StatusFor(err)

	if err != nil {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.metrics.RecordError(ctx, o.stage, ErrorCode(err))
	}
	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, elapsed.Milliseconds()),
	)
	o.span.End()
	o.metrics.RecordStage(ctx, o.stage, status, elapsed)
	return elapsed
}

// StatusFor maps an error to an outcome value.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	default:
		return StatusError
	}
}

// ErrorCode returns the application error code of err, or "UNKNOWN".
func ErrorCode(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "CANCELLED"
	}
	return "UNKNOWN"
}
