// Package observability wires OpenTelemetry tracing and metrics for the
// speech pipeline.
//
// Setup installs OTLP/HTTP exporters when enabled; otherwise the global
// no-op providers stay in place and every span and instrument is free.
//
//	shutdown, err := observability.Setup(ctx, cfg, "speechkit", version.Get().Version, "production")
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("speechkit"))
//	ctx, op := observability.StartOperation(ctx, metrics, "asr", observability.TurnAttrs(3, "A")...)
//	err = transcribe(ctx)
//	op.End(ctx, err)
package observability
