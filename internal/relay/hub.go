//go:build !js || !wasm

package relay

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 32
)

// ErrClosed is returned when broadcasting on a closed hub
var ErrClosed = errors.New("relay: hub closed")

// Hub accepts relay sockets and fans messages out to them
type Hub struct {
	upgrader websocket.Upgrader
	log      *slog.Logger
	metrics  *Metrics
	history  int
	onSelect func(Selection)

	mu      sync.RWMutex
	clients map[string]*client
	recent  []Selection
	closed  bool
}

// Option configures a Hub
type Option func(*Hub)

// WithLogger sets the hub logger
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) { h.log = l }
}

// WithMetrics records hub activity in m
func WithMetrics(m *Metrics) Option {
	return func(h *Hub) { h.metrics = m }
}

// WithHistory sets how many recent selections are kept
func WithHistory(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.history = n
		}
	}
}

// OnSelect is called for every selection reported by a page
func OnSelect(fn func(Selection)) Option {
	return func(h *Hub) { h.onSelect = fn }
}

// NewHub creates an empty hub
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log:     slog.Default(),
		history: 50,
		clients: make(map[string]*client),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics(nil)
	}
	return h
}

type client struct {
	id    string
	conn  *websocket.Conn
	send  chan []byte
	done  chan struct{}
	once  sync.Once
	ready bool
}

func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// ServeHTTP upgrades the request and serves the relay protocol
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("relay: upgrade failed", "err", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c.id] = c
	h.mu.Unlock()
	h.metrics.Clients.Inc()
	h.log.Info("relay: client connected", "client", c.id, "remote", r.RemoteAddr)

	go h.writeLoop(c)
	h.sendTo(c, Message{Type: TypeHello, Client: c.id})
	go h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("relay: unexpected close", "client", c.id, "err", err)
			}
			return
		}

		msg, err := Decode(data)
		if err != nil {
			h.log.Warn("relay: bad message", "client", c.id, "err", err)
			continue
		}
		h.metrics.Messages.WithLabelValues("in", string(msg.Type)).Inc()
		h.handle(c, msg)
	}
}

func (h *Hub) handle(c *client, msg Message) {
	switch msg.Type {
	case TypeReady:
		h.mu.Lock()
		first := !c.ready
		c.ready = true
		h.mu.Unlock()
		if first {
			h.metrics.Ready.Inc()
		}
		h.log.Debug("relay: widget ready", "client", c.id)

	case TypePoint:
		sel := Selection{Client: c.id, Point: *msg.Point, At: time.Now().UTC()}
		h.mu.Lock()
		h.recent = append(h.recent, sel)
		if over := len(h.recent) - h.history; over > 0 {
			h.recent = append(h.recent[:0:0], h.recent[over:]...)
		}
		h.mu.Unlock()
		h.metrics.Selections.Inc()
		h.log.Info("relay: point selected", "client", c.id, "point", sel.Point.Name)
		if h.onSelect != nil {
			h.onSelect(sel)
		}

	default:
		h.log.Debug("relay: ignoring message", "client", c.id, "type", msg.Type)
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.log.Debug("relay: write failed", "client", c.id, "err", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	ready := c.ready
	h.mu.Unlock()

	c.close()
	if !ok {
		return
	}
	h.metrics.Clients.Dec()
	if ready {
		h.metrics.Ready.Dec()
	}
	h.log.Info("relay: client disconnected", "client", c.id)
}

// sendTo queues msg for c, dropping it if the client is too slow
func (h *Hub) sendTo(c *client, msg Message) bool {
	data, err := Encode(msg)
	if err != nil {
		h.log.Error("relay: encode", "err", err)
		return false
	}
	return h.queue(c, msg.Type, data)
}

func (h *Hub) queue(c *client, t MessageType, data []byte) bool {
	select {
	case c.send <- data:
		h.metrics.Messages.WithLabelValues("out", string(t)).Inc()
		return true
	case <-c.done:
		return false
	default:
		h.metrics.Dropped.Inc()
		h.log.Warn("relay: send buffer full, dropping", "client", c.id, "type", t)
		return false
	}
}

// Broadcast queues msg for every connected client and returns how many
// accepted it
func (h *Hub) Broadcast(msg Message) (int, error) {
	data, err := Encode(msg)
	if err != nil {
		return 0, err
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return 0, ErrClosed
	}
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if msg.Type == TypeCommand && msg.Command != nil {
		h.metrics.Commands.WithLabelValues(msg.Command.Method).Inc()
	}

	n := 0
	for _, c := range clients {
		if h.queue(c, msg.Type, data) {
			n++
		}
	}
	return n, nil
}

// Recent returns the retained selections, oldest first
func (h *Hub) Recent() []Selection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Selection(nil), h.recent...)
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ReadyClients returns the number of clients whose widget reported ready
func (h *Hub) ReadyClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.ready {
			n++
		}
	}
	return n
}

// Close disconnects every client and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[string]*client)
	ready := 0
	for _, c := range clients {
		if c.ready {
			ready++
		}
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.metrics.Clients.Sub(float64(len(clients)))
	h.metrics.Ready.Sub(float64(ready))
}
