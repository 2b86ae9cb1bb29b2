package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/alignment"
	"github.com/kbukum/speechkit/export"
	"github.com/kbukum/speechkit/pipeline"
	"github.com/kbukum/speechkit/server"
)

// Transcript aligns caller-supplied ASR segments with diarization turns.
func (h *Handler) Transcript(c *gin.Context) {
	var req transcriptRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	t, err := alignment.AlignTranscript(req.segments(), req.turns(), req.Translations)
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, t)
}

// TranscriptAudio produces an aligned transcript straight from a recording.
// Segments are translated only when the "translate" field is true.
func (h *Handler) TranscriptAudio(c *gin.Context) {
	up, err := readUpload(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	form := readLanguageForm(c)
	t, err := h.deps.Pipeline.AlignAudio(c.Request.Context(), pipeline.AlignRequest{
		Audio:      up.data,
		FormatHint: up.hint,
		SourceLang: form.Source,
		TargetLang: form.Target,
		Translate:  form.Translate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, t)
}

// ExportTranscript renders an utterance list as txt, json or pdf. The file
// is returned as a download, or stored and linked when "store" is true.
func (h *Handler) ExportTranscript(c *gin.Context) {
	var req exportRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	name := req.Format
	if name == "" {
		name = string(export.FormatTXT)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	artifact, err := h.deps.Exporter.Export(ctx, req.Transcript, format)
	if err != nil {
		h.fail(c, err)
		return
	}

	if req.Store {
		stored, err := h.deps.Exporter.Store(ctx, artifact)
		if err != nil {
			h.fail(c, err)
			return
		}
		server.RespondCreated(c, stored)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
