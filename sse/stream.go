package sse

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ErrStreamingUnsupported is returned when the response cannot be flushed.
var ErrStreamingUnsupported = errors.New("sse: streaming not supported")

// Stream writes events to one response. Send is safe for concurrent use.
type Stream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewStream writes the event-stream headers and lifts the server write
// deadline, which would otherwise cut long runs short.
func NewStream(w http.ResponseWriter) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	// Not every writer supports deadlines; keep-alives cover the rest.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Stream{w: w, flusher: flusher}, nil
}

// Send writes and flushes one event.
func (s *Stream) Send(e Event) error {
	return s.write(e.frame())
}

// KeepAlive writes a comment line.
func (s *Stream) KeepAlive() error {
	return s.write([]byte(fmt.Sprintf(": keepalive %d\n\n", time.Now().Unix())))
}

func (s *Stream) write(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
