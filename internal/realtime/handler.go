package realtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hazel260802/lecole-fast-track-24/internal/api/metrics"
	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
	"github.com/hazel260802/lecole-fast-track-24/internal/core/policy"
)

// Event names on the realtime channel. userId and actorId carry usernames;
// the field names are kept for wire compatibility with existing clients.
const (
	eventUpdateSecretPhrase = "update-secret-phrase"
	eventSecretPhraseUpdate = "secret-phrase-updated"
	eventSuccess            = "success"
	eventError              = "error"
)

type updateSecretPhraseMessage struct {
	UserID          string `json:"userId"`
	NewSecretPhrase string `json:"newSecretPhrase"`
	ActorID         string `json:"actorId"`
}

type secretPhraseUpdatedPayload struct {
	UserID          string `json:"userId"`
	NewSecretPhrase string `json:"newSecretPhrase"`
}

type successPayload struct {
	Message string `json:"message"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// UserStore is the slice of the credential store the realtime channel needs.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// UpdateSecretPhraseByUsername returns domain.ErrUserNotFound when no
	// row was updated.
	UpdateSecretPhraseByUsername(ctx context.Context, username, secretPhrase string) error
}

// SecretPhraseHandler validates and applies update-secret-phrase messages.
// The channel re-checks the access policy itself: socket messages arrive
// out-of-band from HTTP, so the actor's identity is resolved from the store
// on every message rather than trusted from the frame.
type SecretPhraseHandler struct {
	users     UserStore
	broadcast Broadcaster
	log       zerolog.Logger
}

func NewSecretPhraseHandler(users UserStore, broadcast Broadcaster, log zerolog.Logger) *SecretPhraseHandler {
	return &SecretPhraseHandler{users: users, broadcast: broadcast, log: log}
}

// HandleUpdate applies one update-secret-phrase message. Every failure is
// reported to the originator only; a confirmed change is broadcast to all
// connected clients so every dashboard stays consistent.
//
// The actor lookup and the conditional update are intentionally two separate
// statements; a concurrent role change between them can make the permission
// check stale, which is accepted for this scope.
func (h *SecretPhraseHandler) HandleUpdate(ctx context.Context, msg updateSecretPhraseMessage, origin Emitter) {
	actor, err := h.users.FindByUsername(ctx, msg.ActorID)
	if err != nil {
		metrics.SecretPhraseUpdatesTotal.WithLabelValues("realtime", "error").Inc()
		origin.Emit(eventError, errorPayload{Error: fmt.Sprintf("Actor not found: %s", msg.ActorID)})
		return
	}

	caller := domain.AccessContext{Username: actor.Username, Role: actor.Roles}
	if !policy.CanMutate(caller, msg.UserID) {
		metrics.SecretPhraseUpdatesTotal.WithLabelValues("realtime", "error").Inc()
		origin.Emit(eventError, errorPayload{Error: "You do not have permission to update this user's secret phrase"})
		return
	}

	if len(msg.NewSecretPhrase) < domain.MinSecretPhraseLen {
		metrics.SecretPhraseUpdatesTotal.WithLabelValues("realtime", "error").Inc()
		origin.Emit(eventError, errorPayload{Error: fmt.Sprintf("Secret phrase must be at least %d characters", domain.MinSecretPhraseLen)})
		return
	}

	if err := h.users.UpdateSecretPhraseByUsername(ctx, msg.UserID, msg.NewSecretPhrase); err != nil {
		metrics.SecretPhraseUpdatesTotal.WithLabelValues("realtime", "error").Inc()
		h.log.Error().Err(err).Str("target", msg.UserID).Msg("secret phrase update failed")
		origin.Emit(eventError, errorPayload{Error: "Failed to update secret phrase"})
		return
	}

	metrics.SecretPhraseUpdatesTotal.WithLabelValues("realtime", "ok").Inc()
	h.broadcast.Broadcast(eventSecretPhraseUpdate, secretPhraseUpdatedPayload{
		UserID:          msg.UserID,
		NewSecretPhrase: msg.NewSecretPhrase,
	})
	origin.Emit(eventSuccess, successPayload{Message: "Secret phrase updated successfully"})
}

// Server upgrades HTTP requests into hub-registered websocket clients.
type Server struct {
	hub      *Hub
	handler  *SecretPhraseHandler
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewServer(hub *Hub, handler *SecretPhraseHandler, log zerolog.Logger) *Server {
	return &Server{
		hub:     hub,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The scaffold serves a local dev frontend on another port.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Serve handles GET /ws.
func (s *Server) Serve(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "websocket upgrade failed")
	}

	client := newClient(s.hub, conn, s.handler, s.log)
	s.hub.register <- client

	go client.writePump()
	// The request context dies when this handler returns; the connection
	// outlives it, so messages run against the background context and end
	// when the hub closes the connection on shutdown.
	go client.readPump(context.Background())

	return nil
}
