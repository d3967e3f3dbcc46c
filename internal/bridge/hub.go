package bridge

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// sendBuffer is the number of outgoing messages queued per client before
// it is considered too slow and dropped.
const sendBuffer = 64

type client struct {
	conn *websocket.Conn
	send chan []byte
	log  zerolog.Logger

	closeOnce sync.Once
}

// hub fans messages out to every connected stream client.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	log     zerolog.Logger
}

func newHub(log zerolog.Logger) *hub {
	return &hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (h *hub) add(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		log:  h.log.With().Str("remote", conn.RemoteAddr().String()).Logger(),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	c.log.Debug().Int("clients", n).Msg("stream client connected")
	return c
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.close()
		c.log.Debug().Msg("stream client disconnected")
	}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast queues v for every client without blocking. Clients whose
// queue is full are disconnected.
func (h *hub) broadcast(v any) {
	h.mu.Lock()
	if len(h.clients) == 0 {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode stream message")
		return
	}

	h.mu.Lock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		delete(h.clients, c)
	}
	h.mu.Unlock()

	for _, c := range slow {
		c.log.Warn().Msg("stream client too slow, disconnecting")
		c.close()
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	clear(h.clients)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// sendTo queues v for a single client.
func (h *hub) sendTo(c *client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to encode stream message")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		c.log.Warn().Msg("stream client queue full, message dropped")
	}
}

// writePump writes queued messages until the client is closed.
func (c *client) writePump() {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(writeTimeout())
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.log.Debug().Err(err).Msg("websocket write failed")
			_ = c.conn.Close()
			return
		}
	}
	_ = c.conn.SetWriteDeadline(writeTimeout())
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = c.conn.Close()
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
