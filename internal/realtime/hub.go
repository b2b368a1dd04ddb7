// Package realtime implements the websocket fan-out channel for live
// secret-phrase updates. A single hub goroutine owns the client set; clients
// pump frames through buffered channels so a slow consumer never blocks the
// broadcast path.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/hazel260802/lecole-fast-track-24/internal/api/metrics"
)

// envelope is the wire frame for every message in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Emitter delivers an event to a single connection.
type Emitter interface {
	Emit(event string, data any)
}

// Broadcaster fans an event out to every connected client.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// Hub tracks connected clients and fans out broadcasts. All state is owned by
// the Run goroutine; registration and broadcasting go through channels.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log,
	}
}

var _ Broadcaster = (*Hub)(nil)

// Run owns the client set until ctx is cancelled. Start it exactly once.
// After Run returns, done is closed so client pumps never block on the
// unregister channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			metrics.RealtimeClients.Set(0)
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			metrics.RealtimeClients.Set(float64(len(h.clients)))
			h.log.Debug().Int("clients", len(h.clients)).Msg("realtime client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			metrics.RealtimeClients.Set(float64(len(h.clients)))
			h.log.Debug().Int("clients", len(h.clients)).Msg("realtime client disconnected")

		case frame := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// The client's buffer is full; drop it rather than
					// stalling every other connection.
					delete(h.clients, client)
					client.close()
				}
			}
			metrics.RealtimeClients.Set(float64(len(h.clients)))
		}
	}
}

// Broadcast sends the event to every connected client, the originator of the
// change included.
func (h *Hub) Broadcast(event string, data any) {
	frame, err := marshalEvent(event, data)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("broadcast marshal failed")
		return
	}

	metrics.BroadcastsTotal.WithLabelValues(event).Inc()
	select {
	case h.broadcast <- frame:
	case <-h.done:
	}
}

func marshalEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: event, Data: raw})
}
