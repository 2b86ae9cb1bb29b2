package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/pipeline"
	"github.com/kbukum/speechkit/sse"
)

// JobIDHeader names the run on a streamed pipeline response.
const JobIDHeader = "X-Job-Id"

type startedEvent struct {
	JobID string `json:"job_id"`
}

type diarizedEvent struct {
	Turns int `json:"turns"`
}

// FullPipelineStream runs the full pipeline and streams its progress as
// server-sent events: started, diarized, one turn or turn_error per turn,
// then done with the complete result. Upload errors are answered as JSON
// before the stream opens; later failures arrive as an error event.
func (h *Handler) FullPipelineStream(c *gin.Context) {
	up, err := readUpload(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	form := readLanguageForm(c)

	jobID := uuid.NewString()
	c.Header(JobIDHeader, jobID)
	stream, err := sse.NewStream(c.Writer)
	if err != nil {
		h.fail(c, apperrors.Internal(err))
		return
	}
	log := h.log.WithContext(c.Request.Context()).WithFields(map[string]interface{}{"job_id": jobID})

	emit := func(typ string, data any) {
		ev, err := sse.NewEvent(typ, data)
		if err != nil {
			log.Error("Encoding pipeline event failed", map[string]interface{}{"event": typ, "error": err.Error()})
			return
		}
		if err := stream.Send(ev); err != nil {
			log.Debug("Client stream closed", map[string]interface{}{"event": typ, "error": err.Error()})
		}
		if h.deps.Events != nil {
			h.deps.Events.BroadcastToPattern(watchPattern(jobID), ev)
		}
	}

	emit(sse.EventStarted, startedEvent{JobID: jobID})
	res, err := h.deps.Pipeline.RunFullPipeline(c.Request.Context(), pipeline.Request{
		Audio:      up.data,
		FormatHint: up.hint,
		SourceLang: form.Source,
		TargetLang: form.Target,
		OnDiarized: func(n int) { emit(sse.EventDiarized, diarizedEvent{Turns: n}) },
		OnTurn: func(done *pipeline.TurnResult, failed *pipeline.TurnError) {
			if failed != nil {
				emit(sse.EventTurnError, failed)
				return
			}
			emit(sse.EventTurn, done)
		},
	})
	if err != nil {
		_ = c.Error(err)
		emit(sse.EventError, errorBody(err))
		return
	}
	emit(sse.EventDone, res)
}

// WatchPipeline follows a streamed run from another connection. Events
// sent before the watcher connects are not replayed.
func (h *Handler) WatchPipeline(c *gin.Context) {
	if h.deps.Events == nil {
		h.fail(c, apperrors.ServiceUnavailable("pipeline events"))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.fail(c, apperrors.InvalidInput("id", "must be a job id"))
		return
	}
	clientID := watchPrefix(id.String()) + uuid.NewString()
	if err := sse.ServeWatcher(h.deps.Events, c.Writer, c.Request, clientID); err != nil {
		h.log.Debug("Watcher ended", map[string]interface{}{"client_id": clientID, "error": err.Error()})
	}
}

func watchPrefix(jobID string) string { return "pipeline:" + jobID + ":" }

func watchPattern(jobID string) string { return watchPrefix(jobID) + "*" }

func errorBody(err error) apperrors.ErrorBody {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	return appErr.ToResponse().Error
}
