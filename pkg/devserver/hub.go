package devserver

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/reflow/pkg/protocol"
)

// sendBuffer is the number of messages queued per client before it is
// considered too slow and dropped.
const sendBuffer = 16

type client struct {
	conn   *websocket.Conn
	binary bool
	send   chan []byte
}

// hub tracks connected clients and fans messages out to them. Each client
// has its own writer goroutine so a slow connection never blocks the event
// loop.
type hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	logger  *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		clients: make(map[*client]bool),
		logger:  logger,
	}
}

func (h *hub) add(conn *websocket.Conn, binary bool) *client {
	c := &client{conn: conn, binary: binary, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	go h.writeLoop(c)
	return c
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *hub) writeLoop(c *client) {
	defer c.conn.Close()
	mt := websocket.TextMessage
	if c.binary {
		mt = websocket.BinaryMessage
	}
	for data := range c.send {
		if err := c.conn.WriteMessage(mt, data); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			h.remove(c)
			return
		}
	}
}

// encoded caches the two encodings of one message.
type encoded struct {
	msg        Message
	text, bin  []byte
	textFailed bool
}

func (e *encoded) forClient(c *client, logger *slog.Logger) []byte {
	if c.binary {
		if e.bin == nil {
			e.bin = protocol.Encode(e.msg.update())
		}
		return e.bin
	}
	if e.text == nil && !e.textFailed {
		data, err := json.Marshal(e.msg)
		if err != nil {
			logger.Error("encode message", "error", err)
			e.textFailed = true
			return nil
		}
		e.text = data
	}
	return e.text
}

// sendTo queues msg for one client.
func (h *hub) sendTo(c *client, msg Message) {
	enc := &encoded{msg: msg}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		if data := enc.forClient(c, h.logger); data != nil {
			h.queue(c, data)
		}
	}
}

// broadcast queues msg for every client, encoding it at most once per
// format.
func (h *hub) broadcast(msg Message) {
	enc := &encoded{msg: msg}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if data := enc.forClient(c, h.logger); data != nil {
			h.queue(c, data)
		}
	}
}

// queue must be called with mu held.
func (h *hub) queue(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.logger.Warn("dropping slow websocket client")
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
