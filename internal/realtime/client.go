package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Client is one websocket connection. The read pump dispatches inbound
// envelopes to the message handler; the write pump drains the send channel.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	handler *SecretPhraseHandler
	send    chan []byte

	// mu guards closed and every send into the channel from outside the hub
	// goroutine. The hub closes send via close() after dropping a client, so
	// an unguarded Emit from the read pump would race a send against the
	// close and panic.
	mu     sync.Mutex
	closed bool

	log zerolog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, handler *SecretPhraseHandler, log zerolog.Logger) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		handler: handler,
		send:    make(chan []byte, sendBuffer),
		log:     log,
	}
}

var _ Emitter = (*Client)(nil)

// Emit queues an event for this connection only. Events for a client that is
// falling behind are dropped with its connection; events for a client the hub
// has already dropped are discarded.
func (c *Client) Emit(event string, data any) {
	frame, err := marshalEvent(event, data)
	if err != nil {
		c.log.Error().Err(err).Str("event", event).Msg("emit marshal failed")
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	select {
	case c.send <- frame:
		c.mu.Unlock()
		return
	default:
	}
	c.mu.Unlock()
	c.drop()
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// drop hands the client back to the hub. When the hub has already stopped
// there is nothing left to drain unregister, so the client closes itself.
func (c *Client) drop() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
		c.close()
	}
}

// readPump consumes inbound frames until the connection drops or ctx is
// cancelled. Each message is handled independently, mirroring the per-request
// atomicity of the REST surface.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.drop()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("realtime read failed")
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.Emit(eventError, errorPayload{Error: "malformed message"})
			continue
		}

		c.dispatch(ctx, env)
	}
}

func (c *Client) dispatch(ctx context.Context, env envelope) {
	switch env.Event {
	case eventUpdateSecretPhrase:
		var msg updateSecretPhraseMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			c.Emit(eventError, errorPayload{Error: "malformed message"})
			return
		}
		c.handler.HandleUpdate(ctx, msg, c)
	default:
		c.Emit(eventError, errorPayload{Error: "unknown event: " + env.Event})
	}
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
