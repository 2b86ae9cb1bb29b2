package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/export"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/pipeline"
	"github.com/kbukum/speechkit/server"
	"github.com/kbukum/speechkit/sse"
)

// Deps are the services the handlers call into.
type Deps struct {
	Service string
	Version string

	Preparer    pipeline.Preparer
	Diarizer    pipeline.Diarizer
	Transcriber pipeline.Transcriber
	// Translator is optional. Without it /translate answers 503 and the
	// pipelines skip translation.
	Translator pipeline.Translator
	Pipeline   *pipeline.Orchestrator
	Exporter   *export.Exporter
	// Events is optional. Without it streamed runs cannot be watched from
	// another connection.
	Events *sse.Hub

	// Providers names the backend serving each stage, reported by /status.
	Providers map[string]string
	// Backends probes every configured backend of each stage for /status.
	// Without it /status reports "running" and no backend health.
	Backends func(ctx context.Context) []observability.Health
}

func (d Deps) validate() error {
	switch {
	case d.Preparer == nil:
		return fmt.Errorf("api: preparer is required")
	case d.Diarizer == nil:
		return fmt.Errorf("api: diarizer is required")
	case d.Transcriber == nil:
		return fmt.Errorf("api: transcriber is required")
	case d.Pipeline == nil:
		return fmt.Errorf("api: pipeline orchestrator is required")
	case d.Exporter == nil:
		return fmt.Errorf("api: exporter is required")
	}
	return nil
}

// Handler serves the speech endpoints. It holds no per-request state.
type Handler struct {
	deps Deps
	log  *logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger overrides the handler logger.
func WithLogger(l *logger.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// New creates a Handler over deps.
func New(deps Deps, opts ...Option) (*Handler, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	h := &Handler{deps: deps}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.Get("api")
	}
	return h, nil
}

// fail records err on the gin context for the request logger and writes the
// error response. A deadline hit inside a stage is reported as a timeout.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) && !apperrors.IsAppError(err) {
		err = apperrors.Timeout(c.FullPath()).WithCause(err)
	}
	_ = c.Error(err)
	h.log.WithContext(c.Request.Context()).Debug("Request failed", logger.MergeWithError(map[string]interface{}{
		"path": c.FullPath(),
	}, err))
	server.RespondWithError(c, err)
}
