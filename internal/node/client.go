// Package node talks to a Substrate node over WebSocket JSON-RPC: plain
// calls, subscriptions, runtime API state calls and extrinsic submission.
package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Mohsinsiddi/inkctl/internal/config"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const subscriptionBuffer = 64

// Client is a JSON-RPC client over a single WebSocket connection.
type Client struct {
	endpoint string
	conn     *websocket.Conn
	log      *zap.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan *message
	subs    map[string]chan json.RawMessage
	orphans map[string][]json.RawMessage
	readErr error

	closeCh   chan struct{}
	closeOnce sync.Once
}

type message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type notification struct {
	Subscription json.RawMessage `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// Dial connects to a node's WebSocket endpoint.
func Dial(ctx context.Context, endpoint string, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dialer := websocket.Dialer{HandshakeTimeout: config.DialTimeout}
	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to %s: %v", ErrTransport, endpoint, err)
	}
	log.Debug("connected to node", zap.String("endpoint", endpoint))

	c := &Client{
		endpoint: endpoint,
		conn:     conn,
		log:      log,
		pending:  make(map[uint64]chan *message),
		subs:     make(map[string]chan json.RawMessage),
		orphans:  make(map[string][]json.RawMessage),
		closeCh:  make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Endpoint returns the URL the client is connected to.
func (c *Client) Endpoint() string { return c.endpoint }

// Call performs a request and decodes its result into result (which may be nil).
func (c *Client) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.RPCCallTimeout)
		defer cancel()
	}
	if params == nil {
		params = []interface{}{}
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding %s params: %w", method, err)
	}

	ch := make(chan *message, 1)
	c.mu.Lock()
	if c.readErr != nil {
		err := c.readErr
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	c.nextID++
	id := c.nextID
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	c.log.Debug("rpc request", zap.String("method", method), zap.Uint64("id", id))
	if err := c.write(&message{JSONRPC: "2.0", ID: &id, Method: method, Params: raw}); err != nil {
		return fmt.Errorf("%w: sending %s: %v", ErrTransport, method, err)
	}

	select {
	case msg := <-ch:
		if msg.Error != nil {
			return msg.Error
		}
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(msg.Result, result); err != nil {
			return fmt.Errorf("%w: %s result: %v", ErrDecode, method, err)
		}
		return nil
	case <-ctx.Done():
		return ctxErr(ctx, method)
	case <-c.closeCh:
		return fmt.Errorf("%w: connection closed during %s: %v", ErrTransport, method, c.err())
	}
}

// Subscription receives the notifications of one server-side subscription.
type Subscription struct {
	id          string
	ch          chan json.RawMessage
	client      *Client
	unsubscribe string
}

// Subscribe opens a subscription with method; unsubscribe names the method
// that cancels it.
func (c *Client) Subscribe(ctx context.Context, method, unsubscribe string, params ...interface{}) (*Subscription, error) {
	var rawID json.RawMessage
	if err := c.Call(ctx, &rawID, method, params...); err != nil {
		return nil, err
	}
	id := subscriptionKey(rawID)
	ch := c.register(id)

	c.log.Debug("subscribed", zap.String("method", method), zap.String("subscription", id))
	return &Subscription{id: id, ch: ch, client: c, unsubscribe: unsubscribe}, nil
}

// register attaches a channel for subscription id, seeded with any
// notifications that arrived before the subscription id was known.
func (c *Client) register(id string) chan json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	early := c.orphans[id]
	delete(c.orphans, id)
	ch := make(chan json.RawMessage, subscriptionBuffer+len(early))
	for _, n := range early {
		ch <- n
	}
	c.subs[id] = ch
	return ch
}

// Next blocks until the next notification arrives.
func (s *Subscription) Next(ctx context.Context) (json.RawMessage, error) {
	select {
	case n, ok := <-s.ch:
		if !ok {
			return nil, fmt.Errorf("%w: subscription closed: %v", ErrTransport, s.client.err())
		}
		return n, nil
	case <-ctx.Done():
		return nil, ctxErr(ctx, "subscription")
	}
}

// Unsubscribe cancels the subscription on the node. Errors are ignored.
func (s *Subscription) Unsubscribe(ctx context.Context) {
	s.client.mu.Lock()
	_, live := s.client.subs[s.id]
	delete(s.client.subs, s.id)
	s.client.mu.Unlock()
	if !live || s.unsubscribe == "" {
		return
	}
	var ok bool
	if err := s.client.Call(ctx, &ok, s.unsubscribe, s.id); err != nil {
		s.client.log.Debug("unsubscribe failed", zap.String("subscription", s.id), zap.Error(err))
	}
}

// Close shuts the connection down and fails all in-flight requests.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) write(msg *message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *Client) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.shutdown(err)
			return
		}
		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("discarding malformed message", zap.Error(err))
			continue
		}
		switch {
		case msg.ID != nil:
			c.mu.Lock()
			ch, ok := c.pending[*msg.ID]
			c.mu.Unlock()
			if ok {
				ch <- &msg
			}
		case msg.Method != "":
			c.dispatch(&msg)
		}
	}
}

func (c *Client) dispatch(msg *message) {
	var n notification
	if err := json.Unmarshal(msg.Params, &n); err != nil {
		c.log.Warn("discarding malformed notification", zap.String("method", msg.Method), zap.Error(err))
		return
	}
	id := subscriptionKey(n.Subscription)

	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.subs[id]
	if !ok {
		if len(c.orphans[id]) >= subscriptionBuffer {
			c.log.Warn("too many early notifications, dropping", zap.String("subscription", id))
			return
		}
		c.orphans[id] = append(c.orphans[id], n.Result)
		return
	}
	select {
	case ch <- n.Result:
	default:
		c.log.Warn("subscription buffer full, dropping notification", zap.String("subscription", id))
	}
}

func (c *Client) shutdown(err error) {
	c.mu.Lock()
	if c.readErr == nil {
		c.readErr = err
	}
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.mu.Unlock()
	close(c.closeCh)
	c.log.Debug("connection closed", zap.String("endpoint", c.endpoint), zap.Error(err))
}

// subscriptionKey normalizes string and numeric subscription ids.
func subscriptionKey(raw json.RawMessage) string {
	return strings.Trim(strings.TrimSpace(string(raw)), `"`)
}

func ctxErr(ctx context.Context, what string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrTimeout, what)
	}
	return ctx.Err()
}
