package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrNotConnected is returned by Emit while no connection is open.
var ErrNotConnected = errors.New("notify: not connected")

// Handler reacts to one received frame.
type Handler func(ctx context.Context, f Frame)

// ClientOptions configures a Client.
type ClientOptions struct {
	URL            string
	Token          string
	Rooms          []string
	ReconnectDelay time.Duration
	WriteTimeout   time.Duration
	Dialer         *websocket.Dialer

	// OnJoined runs after every successful connect and room claim.
	OnJoined func()
	// OnDrop runs when an established or attempted connection is lost.
	OnDrop func(err error)
}

// Client is a long-lived socket that claims rooms and dispatches frames by
// event name. It reconnects after ReconnectDelay until its context ends.
type Client struct {
	opts   ClientOptions
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string]Handler
	conn     *websocket.Conn
	writeMu  sync.Mutex
}

// NewClient builds a Client; nothing is dialed until Run.
func NewClient(opts ClientOptions, logger *zap.Logger) *Client {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 3 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultTimeout
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	return &Client{
		opts:     opts,
		logger:   logger.Named("notify.client"),
		handlers: make(map[string]Handler),
	}
}

// On registers h for event, replacing any previous handler.
func (c *Client) On(event string, h Handler) {
	c.mu.Lock()
	c.handlers[event] = h
	c.mu.Unlock()
}

// Run keeps the connection up until ctx is done and returns ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("socket dropped, reconnecting",
			zap.String("url", c.opts.URL),
			zap.Duration("delay", c.opts.ReconnectDelay),
			zap.Error(err),
		)
		if c.opts.OnDrop != nil {
			c.opts.OnDrop(err)
		}

		t := time.NewTimer(c.opts.ReconnectDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (c *Client) runOnce(ctx context.Context) error {
	header := http.Header{}
	if c.opts.Token != "" {
		header.Set("Authorization", "Bearer "+c.opts.Token)
	}
	ws, _, err := c.opts.Dialer.DialContext(ctx, c.opts.URL, header)
	if err != nil {
		return err
	}
	defer ws.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = ws.Close()
		case <-stop:
		}
	}()

	for _, room := range c.opts.Rooms {
		if err := c.write(ws, mustFrame(EventJoinRoom, room)); err != nil {
			return err
		}
	}

	c.setConn(ws)
	defer c.setConn(nil)
	if c.opts.OnJoined != nil {
		c.opts.OnJoined()
	}

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		c.mu.RLock()
		h := c.handlers[f.Event]
		c.mu.RUnlock()
		if h != nil {
			h(ctx, f)
		}
	}
}

func (c *Client) setConn(ws *websocket.Conn) {
	c.mu.Lock()
	c.conn = ws
	c.mu.Unlock()
}

func (c *Client) write(ws *websocket.Conn, f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	return ws.WriteMessage(websocket.TextMessage, data)
}

// Emit sends one frame on the current connection.
func (c *Client) Emit(event string, data interface{}) error {
	c.mu.RLock()
	ws := c.conn
	c.mu.RUnlock()
	if ws == nil {
		return ErrNotConnected
	}
	f, err := NewFrame(event, data)
	if err != nil {
		return err
	}
	return c.write(ws, f)
}
