package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/pipeline"
	"github.com/kbukum/speechkit/server"
)

// FullPipeline diarizes the upload, then transcribes and translates every
// turn. Per-turn failures are reported in the body of a 200 response; only
// failures of decoding or diarization fail the request.
func (h *Handler) FullPipeline(c *gin.Context) {
	h.runPipeline(c, false)
}

// DiarizeTranscribe is FullPipeline without translation.
func (h *Handler) DiarizeTranscribe(c *gin.Context) {
	h.runPipeline(c, true)
}

func (h *Handler) runPipeline(c *gin.Context, skipTranslation bool) {
	up, err := readUpload(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	form := readLanguageForm(c)
	res, err := h.deps.Pipeline.RunFullPipeline(c.Request.Context(), pipeline.Request{
		Audio:           up.data,
		FormatHint:      up.hint,
		SourceLang:      form.Source,
		TargetLang:      form.Target,
		SkipTranslation: skipTranslation,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, res)
}
