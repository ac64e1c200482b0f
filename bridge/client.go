package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
)

// requestTimeout bounds a correlated call when the caller's context
// carries no deadline of its own.
const requestTimeout = 10 * time.Second

// Conn is the message transport under the client. The production conn
// is a websocket; tests substitute an in-memory fake.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	return data, err
}

func (c *wsConn) WriteMessage(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// Client is the host bridge: correlated requests, notifies, and a push
// subscription channel.
type Client struct {
	conn   Conn
	logger *log.Logger

	mu      sync.Mutex
	pending map[string]chan Response
	subs    map[int]func(Push)
	nextSub int

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the host over websocket and starts the read loop.
func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial host: %w", err)
	}
	client := NewClient(&wsConn{conn: conn}, nil)
	client.Start()
	return client, nil
}

// NewClient wraps an established transport. Callers must Start it.
func NewClient(conn Conn, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(os.Stderr, "[bridge] ", log.LstdFlags|log.Lmicroseconds)
	}
	return &Client{
		conn:    conn,
		logger:  logger,
		pending: make(map[string]chan Response),
		subs:    make(map[int]func(Push)),
		done:    make(chan struct{}),
	}
}

// Start launches the read loop.
func (c *Client) Start() {
	c.startOnce.Do(func() {
		go c.readLoop()
	})
}

// Close tears down the transport and fails outstanding requests.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}

// Request issues a named call and waits for the correlated response.
// Transport failures come back as an error-shaped response, so callers
// only ever inspect the structured error field.
func (c *Client) Request(ctx context.Context, event string, payload any) Response {
	data, err := json.Marshal(payload)
	if err != nil {
		return errorResponse(fmt.Sprintf("encode %s: %v", event, err))
	}
	id := ulid.Make().String()
	frame, err := json.Marshal(envelope{ID: id, Event: event, Data: data})
	if err != nil {
		return errorResponse(fmt.Sprintf("encode %s: %v", event, err))
	}

	ch := make(chan Response, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.conn.WriteMessage(frame); err != nil {
		c.logger.Printf("request %s: write failed: %v", event, err)
		return errorResponse("callback failed")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	timer := time.NewTimer(requestTimeout)
	defer timer.Stop()
	select {
	case resp := <-ch:
		return resp
	case <-ctx.Done():
		return errorResponse(fmt.Sprintf("%s cancelled: %v", event, ctx.Err()))
	case <-timer.C:
		c.logger.Printf("request %s: timed out", event)
		return errorResponse("callback timed out")
	case <-c.done:
		return errorResponse("transport closed")
	}
}

// Notify sends a fire-and-forget message; no response is awaited.
func (c *Client) Notify(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Printf("notify %s: encode failed: %v", event, err)
		return
	}
	frame, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		c.logger.Printf("notify %s: encode failed: %v", event, err)
		return
	}
	if err := c.conn.WriteMessage(frame); err != nil {
		c.logger.Printf("notify %s: write failed: %v", event, err)
	}
}

// Subscribe registers a handler for host pushes and returns its
// deregistration function. Handlers run on the read loop goroutine.
func (c *Client) Subscribe(handler func(Push)) func() {
	if handler == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = handler
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Done is closed when the transport has shut down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) readLoop() {
	defer func() {
		c.failPending("transport closed")
		close(c.done)
	}()
	for {
		raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.dispatch(raw)
	}
}

func (c *Client) dispatch(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Printf("dropping unparseable message: %v", err)
		return
	}

	if env.ID != "" {
		c.mu.Lock()
		ch, ok := c.pending[env.ID]
		c.mu.Unlock()
		if !ok {
			// Response for a cancelled or superseded request.
			c.logger.Printf("discarding late response id=%s", env.ID)
			return
		}
		ch <- Response{Data: env.Data}
		return
	}

	typ, err := validatePush(raw)
	if err != nil {
		c.logger.Printf("dropping push: %v", err)
		return
	}
	c.mu.Lock()
	handlers := make([]func(Push), 0, len(c.subs))
	for _, h := range c.subs {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()
	for _, h := range handlers {
		h(Push{Type: typ, Data: raw})
	}
}

func (c *Client) failPending(reason string) {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]chan Response)
	c.mu.Unlock()
	for _, ch := range pending {
		ch <- errorResponse(reason)
	}
}
