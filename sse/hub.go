package sse

import (
	"path/filepath"
	"sync"

	"github.com/kbukum/speechkit/logger"
)

const clientBuffer = 64

// Client is one watcher connection.
type Client struct {
	id     string
	events chan Event
}

// NewClient creates a watcher with the given id. Ids are matched against
// broadcast patterns with path/filepath.Match.
func NewClient(id string) *Client {
	return &Client{id: id, events: make(chan Event, clientBuffer)}
}

// ID returns the client id.
func (c *Client) ID() string { return c.id }

// Events returns the client's event channel. It is closed on unregister.
func (c *Client) Events() <-chan Event { return c.events }

// send never blocks; a slow watcher loses events rather than stalling a run.
func (c *Client) send(e Event) bool {
	select {
	case c.events <- e:
		return true
	default:
		return false
	}
}

type message struct {
	pattern string
	event   Event
}

// Hub routes broadcast events to matching watchers. All client bookkeeping
// happens on the Run goroutine.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	log        *logger.Logger
}

// NewHub creates a Hub. Call Run before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		log:        logger.Get("sse"),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[c.id]; ok {
				close(old.events)
			}
			h.clients[c.id] = c
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("Watcher registered", map[string]interface{}{"client_id": c.id, "clients": n})

		case c := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[c.id]; ok && cur == c {
				delete(h.clients, c.id)
				close(c.events)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("Watcher unregistered", map[string]interface{}{"client_id": c.id, "clients": n})

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Stop ends Run and closes every client. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.events)
		delete(h.clients, id)
	}
}

// Register adds c. It reports false once the hub is stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c and closes its channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// BroadcastToPattern queues e for every client whose id matches pattern.
// Events published after Stop are dropped.
func (h *Hub) BroadcastToPattern(pattern string, e Event) {
	select {
	case h.broadcast <- message{pattern: pattern, event: e}:
	case <-h.done:
	}
}

func (h *Hub) deliver(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered, dropped := 0, 0
	for id, c := range h.clients {
		matched, err := filepath.Match(msg.pattern, id)
		if err != nil {
			h.log.Error("Bad broadcast pattern", map[string]interface{}{"pattern": msg.pattern, "error": err.Error()})
			return
		}
		if !matched {
			continue
		}
		if c.send(msg.event) {
			delivered++
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		h.log.Warn("Slow watchers dropped an event", map[string]interface{}{
			"pattern": msg.pattern,
			"event":   msg.event.Type,
			"dropped": dropped,
		})
	}
	if delivered > 0 {
		h.log.Debug("Event delivered", map[string]interface{}{
			"pattern":   msg.pattern,
			"event":     msg.event.Type,
			"delivered": delivered,
		})
	}
}

// ClientCount returns the number of connected watchers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
