package sse

import (
	"net/http"
	"time"
)

// KeepAliveInterval is how often an idle watcher receives a comment line.
// It stays under the usual 60s proxy idle timeout.
var KeepAliveInterval = 30 * time.Second

// ConnectedEvent is the payload of EventConnected.
type ConnectedEvent struct {
	ClientID string `json:"client_id"`
}

// ServeWatcher streams hub events for clientID to w until the request ends,
// the hub stops, or a terminal event has been written.
func ServeWatcher(hub *Hub, w http.ResponseWriter, r *http.Request, clientID string) error {
	stream, err := NewStream(w)
	if err != nil {
		return err
	}
	client := NewClient(clientID)
	if !hub.Register(client) {
		return nil
	}
	defer hub.Unregister(client)

	hello, err := NewEvent(EventConnected, ConnectedEvent{ClientID: clientID})
	if err != nil {
		return err
	}
	if err := stream.Send(hello); err != nil {
		return err
	}

	keepAlive := time.NewTicker(KeepAliveInterval)
	defer keepAlive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-client.Events():
			if !ok {
				return nil
			}
			if err := stream.Send(e); err != nil {
				return err
			}
			if e.Terminal() {
				return nil
			}
		case <-keepAlive.C:
			if err := stream.KeepAlive(); err != nil {
				return err
			}
		}
	}
}
