package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/diarization"
	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/server"
	"github.com/kbukum/speechkit/transcription"
	"github.com/kbukum/speechkit/validation"
)

// ASR transcribes the uploaded recording as one text.
func (h *Handler) ASR(c *gin.Context) {
	w := h.standardize(c, readUpload)
	if w == nil {
		return
	}
	defer w.Release()

	text, err := h.deps.Transcriber.TranscribeText(c.Request.Context(), w)
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, asrResponse{Transcript: text})
}

// ASRTimestamps transcribes the uploaded recording into timed segments.
func (h *Handler) ASRTimestamps(c *gin.Context) {
	w := h.standardize(c, readUpload)
	if w == nil {
		return
	}
	defer w.Release()

	segments, err := h.deps.Transcriber.TranscribeTimestamped(c.Request.Context(), w)
	if err != nil {
		h.fail(c, err)
		return
	}
	if segments == nil {
		segments = []transcription.Segment{}
	}
	server.RespondOK(c, segmentsResponse{Segments: segments})
}

// Diarize returns the speaker turns of the uploaded recording.
func (h *Handler) Diarize(c *gin.Context) {
	h.diarize(c, readUpload)
}

// DiarizeBytes is Diarize for a raw request body.
func (h *Handler) DiarizeBytes(c *gin.Context) {
	h.diarize(c, readBody)
}

func (h *Handler) diarize(c *gin.Context, read func(*gin.Context) (*upload, error)) {
	w := h.standardize(c, read)
	if w == nil {
		return
	}
	defer w.Release()

	turns, err := h.deps.Diarizer.Diarize(c.Request.Context(), w)
	if err != nil {
		h.fail(c, err)
		return
	}
	if turns == nil {
		turns = []diarization.Turn{}
	}
	server.RespondOK(c, diarizeResponse{Segments: turns})
}

// Translate translates a text between two supported languages. Unknown
// language names fall back to the defaults and are flagged in the response.
func (h *Handler) Translate(c *gin.Context) {
	if h.deps.Translator == nil {
		h.fail(c, apperrors.ServiceUnavailable("translation service"))
		return
	}
	var req translateRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.deps.Translator.Translate(c.Request.Context(), req.Text, req.SrcLang, req.TgtLang)
	if err != nil {
		h.fail(c, err)
		return
	}
	server.RespondOK(c, res)
}

// bindJSON decodes the body into dst and validates it.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if isTooLarge(err) {
			return readError(err)
		}
		return apperrors.InvalidInput("body", "malformed JSON: "+err.Error())
	}
	return validation.Validate(dst)
}
