package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jadamsuryateja/feedback-console/internal/model"
)

const (
	sendBuffer     = 16
	maxFrameSize   = 4096
	defaultTimeout = 10 * time.Second
)

// HubOptions tunes a Hub.
type HubOptions struct {
	WriteTimeout time.Duration
	// CheckOrigin defaults to allowing every origin; CORS is enforced on the
	// HTTP routes and the socket requires a console token.
	CheckOrigin func(r *http.Request) bool
	// Observe sees every broker message, local or from another instance,
	// before it reaches the sockets.
	Observe func(m Message)
}

// Hub serves console WebSocket connections and forwards broker messages to
// the members of each room.
type Hub struct {
	broker       Broker
	logger       *zap.Logger
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	observe      func(Message)

	mu    sync.RWMutex
	conns map[*conn]struct{}
}

// NewHub builds a Hub on broker. Call Start before serving connections.
func NewHub(broker Broker, opts HubOptions, logger *zap.Logger) *Hub {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultTimeout
	}
	if opts.CheckOrigin == nil {
		opts.CheckOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		broker:       broker,
		logger:       logger.Named("notify.hub"),
		upgrader:     websocket.Upgrader{CheckOrigin: opts.CheckOrigin},
		writeTimeout: opts.WriteTimeout,
		observe:      opts.Observe,
		conns:        make(map[*conn]struct{}),
	}
}

// Start subscribes to the broker and forwards messages until ctx is done.
func (h *Hub) Start(ctx context.Context) error {
	msgs, err := h.broker.Subscribe(ctx)
	if err != nil {
		return err
	}
	go func() {
		for m := range msgs {
			if h.observe != nil {
				h.observe(m)
			}
			h.dispatch(m)
		}
		h.closeAll()
	}()
	return nil
}

func (h *Hub) dispatch(m Message) {
	data, err := json.Marshal(m.Frame)
	if err != nil {
		h.logger.Error("encode frame", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		if c.memberOfAny(m.Rooms) {
			c.enqueue(data)
		}
	}
}

// ServeWS upgrades the request and serves the connection for identity until
// it closes. The caller has already authenticated the request.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, id model.Identity, sessionID string) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	ws.SetReadLimit(maxFrameSize)

	c := &conn{
		hub:       h,
		ws:        ws,
		identity:  id,
		sessionID: sessionID,
		allowed:   make(map[string]bool),
		rooms:     make(map[string]bool),
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
	for _, room := range RoomsFor(id) {
		c.allowed[room] = true
		c.rooms[room] = true
	}

	h.register(c)
	defer h.unregister(c)

	h.logger.Info("socket connected",
		zap.String("username", id.Username),
		zap.String("role", string(id.Role)),
	)

	go c.writePump()
	c.readPump(r.Context())
	return nil
}

func (h *Hub) register(c *conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	c.close()
}

// Disconnect closes every connection opened under sessionID.
func (h *Hub) Disconnect(sessionID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		if c.sessionID == sessionID {
			c.close()
		}
	}
}

// Count is the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		c.close()
	}
}

// conn is one socket.
type conn struct {
	hub       *Hub
	ws        *websocket.Conn
	identity  model.Identity
	sessionID string
	allowed   map[string]bool

	mu    sync.RWMutex
	rooms map[string]bool

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *conn) memberOfAny(rooms []string) bool {
	if len(rooms) == 0 {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range rooms {
		if c.rooms[r] {
			return true
		}
	}
	return false
}

func (c *conn) join(room string) bool {
	if !c.allowed[room] {
		return false
	}
	c.mu.Lock()
	c.rooms[room] = true
	c.mu.Unlock()
	return true
}

// enqueue never blocks; a full buffer drops the connection.
func (c *conn) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.hub.logger.Warn("dropping slow socket", zap.String("username", c.identity.Username))
		c.close()
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *conn) writePump() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.hub.writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *conn) readPump(ctx context.Context) {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		c.handle(ctx, f)
	}
}

func (c *conn) handle(ctx context.Context, f Frame) {
	switch f.Event {
	case EventJoinRoom:
		var room string
		if err := json.Unmarshal(f.Data, &room); err != nil {
			return
		}
		if !c.join(room) {
			c.hub.logger.Warn("join refused",
				zap.String("username", c.identity.Username),
				zap.String("room", room),
			)
		}
	case EventConfigUpdated:
		var hint BranchHint
		_ = json.Unmarshal(f.Data, &hint)
		branch, ok := RelayBranch(c.identity, hint.Branch)
		if !ok {
			c.hub.logger.Warn("relay refused", zap.String("username", c.identity.Username))
			return
		}
		if err := c.hub.broker.Publish(context.WithoutCancel(ctx), ConfigRefresh(branch)); err != nil {
			c.hub.logger.Warn("relay config-updated", zap.Error(err))
		}
	}
}
