// Package pipeline runs the end-to-end speech workflow: standardize the
// upload, diarize it, then crop, transcribe and translate every speaker turn.
//
// Turns run concurrently up to Config.MaxConcurrentTurns and are admitted
// through a resilience.Bulkhead. A failing turn is recorded in
// Result.Errors and does not stop the others. When the request context is
// cancelled no further turns are admitted and the partial result is returned.
//
//	orch := pipeline.NewOrchestrator(cfg, preparer, diarizer, transcriber, translator,
//	    pipeline.WithMetrics(metrics),
//	)
//	res, err := orch.RunFullPipeline(ctx, pipeline.Request{Audio: data, FormatHint: "mp3"})
package pipeline
