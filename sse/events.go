package sse

import (
	"encoding/json"
	"fmt"
)

// Event types written by the pipeline stream.
const (
	// EventConnected is the first event a watcher receives.
	EventConnected = "connected"
	// EventStarted carries the job id of a new run.
	EventStarted = "started"
	// EventDiarized carries the number of turns found.
	EventDiarized = "diarized"
	// EventTurn carries one finished turn.
	EventTurn = "turn"
	// EventTurnError carries one failed turn.
	EventTurnError = "turn_error"
	// EventDone carries the final result and ends the stream.
	EventDone = "done"
	// EventError carries a failure that aborted the run.
	EventError = "error"
)

// Event is one server-sent event with a JSON payload.
type Event struct {
	Type string
	Data []byte
}

// NewEvent marshals data into an event of the given type.
func NewEvent(typ string, data any) (Event, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("sse: encode %s event: %w", typ, err)
	}
	return Event{Type: typ, Data: b}, nil
}

// Terminal reports whether no event follows e on the same run.
func (e Event) Terminal() bool {
	return e.Type == EventDone || e.Type == EventError
}

func (e Event) frame() []byte {
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", e.Type, e.Data))
}
