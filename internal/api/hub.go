package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsSendBuffer       = 16
)

// Event is pushed to websocket subscribers of a game.
type Event struct {
	Type    string          `json:"type"`
	Game    string          `json:"game"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// client is one websocket subscriber of one game.
type client struct {
	game string
	send chan []byte
}

func (c *client) sendEvent(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		// Slow subscribers miss updates; they can request a fresh state.
	}
}

// Hub fans game events out to websocket subscribers.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Publish sends ev to every subscriber of ev.Game.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.game == ev.Game {
			c.sendEvent(ev)
		}
	}
}

// Subscribers returns the number of subscribers of a game.
func (h *Hub) Subscribers(game string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.clients {
		if c.game == game {
			n++
		}
	}
	return n
}

// wsRequest is a message a subscriber may send.
type wsRequest struct {
	Type string `json:"type"`
}

// serveWS upgrades the request and streams events of one game until the
// peer disconnects. snapshot produces the current state on demand.
func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request, game string, snapshot func() Event) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{game: game, send: make(chan []byte, wsSendBuffer)}
	h.register(c)
	c.sendEvent(snapshot())

	go func() {
		defer conn.Close()
		//nolint:errcheck // The read loop notices the broken connection.
		writeWSWithHeartbeat(conn, c.send)
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			h.unregister(c)
			return
		}
		var req wsRequest
		if err := json.Unmarshal(message, &req); err != nil {
			continue
		}
		if req.Type == "request_state" {
			c.sendEvent(snapshot())
		}
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(Event{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
