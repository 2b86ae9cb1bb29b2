package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/server"
	"github.com/kbukum/speechkit/translation"
)

// WatchPath is the route for following a streamed run by job id.
const WatchPath = "/pipeline/:id/events"

type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
}

func (h *Handler) routes() []route {
	return []route{
		{http.MethodGet, "/status", h.Status},
		{http.MethodGet, "/languages", h.Languages},
		{http.MethodPost, "/asr", h.ASR},
		{http.MethodPost, "/asr_timestamps", h.ASRTimestamps},
		{http.MethodPost, "/diarize", h.Diarize},
		{http.MethodPost, "/diarize/bytes", h.DiarizeBytes},
		{http.MethodPost, "/translate", h.Translate},
		{http.MethodPost, "/transcript", h.Transcript},
		{http.MethodPost, "/transcript/audio", h.TranscriptAudio},
		{http.MethodPost, "/diarize_transcribe", h.DiarizeTranscribe},
		{http.MethodPost, "/full_pipeline", h.FullPipeline},
		{http.MethodPost, "/full_pipeline/stream", h.FullPipelineStream},
		{http.MethodGet, WatchPath, h.WatchPipeline},
		{http.MethodPost, "/rtc_full_pipeline", h.FullPipeline},
		{http.MethodPost, "/process_audio_chunk", h.FullPipeline},
		{http.MethodPost, "/export_transcript", h.ExportTranscript},
	}
}

// Register mounts every endpoint on r.
func (h *Handler) Register(r gin.IRouter) {
	for _, rt := range h.routes() {
		r.Handle(rt.method, rt.path, rt.handler)
	}
}

// Status reports the service, its backends, endpoints and languages.
func (h *Handler) Status(c *gin.Context) {
	routes := h.routes()
	endpoints := make([]string, 0, len(routes))
	for _, rt := range routes {
		endpoints = append(endpoints, rt.method+" "+rt.path)
	}
	providers := h.deps.Providers
	if providers == nil {
		providers = map[string]string{}
	}
	resp := statusResponse{
		Service:     h.deps.Service,
		Version:     h.deps.Version,
		Status:      "running",
		Translation: h.deps.Translator != nil,
		Storage:     h.deps.Exporter.CanStore(),
		Providers:   providers,
		Endpoints:   endpoints,
		Languages:   translation.Languages(),
	}
	if h.deps.Backends != nil {
		sh := observability.NewServiceHealth(h.deps.Service, h.deps.Version)
		for _, b := range h.deps.Backends(c.Request.Context()) {
			sh.AddComponent(b)
		}
		resp.Status = string(sh.Status)
		resp.Backends = sh.Components
	}
	server.RespondOK(c, resp)
}

// Languages lists the supported languages.
func (h *Handler) Languages(c *gin.Context) {
	server.RespondOK(c, languagesResponse{Languages: translation.Languages()})
}
