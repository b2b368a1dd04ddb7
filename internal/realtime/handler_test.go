package realtime

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
)

type stubStore struct {
	users     map[string]*domain.User
	updateErr error
}

func newStubStore(users ...domain.User) *stubStore {
	s := &stubStore{users: make(map[string]*domain.User)}
	for i := range users {
		u := users[i]
		s.users[u.Username] = &u
	}
	return s
}

func (s *stubStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *stubStore) UpdateSecretPhraseByUsername(_ context.Context, username, secretPhrase string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	u, ok := s.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SecretPhrase = secretPhrase
	return nil
}

type recordedEvent struct {
	event string
	data  any
}

type recordingEmitter struct {
	events []recordedEvent
}

func (r *recordingEmitter) Emit(event string, data any) {
	r.events = append(r.events, recordedEvent{event: event, data: data})
}

type recordingBroadcaster struct {
	events []recordedEvent
}

func (r *recordingBroadcaster) Broadcast(event string, data any) {
	r.events = append(r.events, recordedEvent{event: event, data: data})
}

func newTestHandler(store *stubStore) (*SecretPhraseHandler, *recordingBroadcaster) {
	broadcast := &recordingBroadcaster{}
	return NewSecretPhraseHandler(store, broadcast, zerolog.Nop()), broadcast
}

func TestHandleUpdate_AdminUpdatesAnyUser(t *testing.T) {
	store := newStubStore(
		domain.User{ID: 1, Username: "admin1", Roles: domain.RoleAdmin, SecretPhrase: "adminphrase"},
		domain.User{ID: 2, Username: "user2", Roles: domain.RoleUser, SecretPhrase: "oldphrase1"},
	)
	handler, broadcast := newTestHandler(store)
	origin := &recordingEmitter{}

	handler.HandleUpdate(context.Background(), updateSecretPhraseMessage{
		UserID:          "user2",
		NewSecretPhrase: "newpass1",
		ActorID:         "admin1",
	}, origin)

	if store.users["user2"].SecretPhrase != "newpass1" {
		t.Fatalf("phrase not persisted: %q", store.users["user2"].SecretPhrase)
	}

	if len(broadcast.events) != 1 || broadcast.events[0].event != eventSecretPhraseUpdate {
		t.Fatalf("expected one secret-phrase-updated broadcast, got %+v", broadcast.events)
	}
	payload, ok := broadcast.events[0].data.(secretPhraseUpdatedPayload)
	if !ok || payload.UserID != "user2" || payload.NewSecretPhrase != "newpass1" {
		t.Fatalf("unexpected broadcast payload: %+v", broadcast.events[0].data)
	}

	if len(origin.events) != 1 || origin.events[0].event != eventSuccess {
		t.Fatalf("expected success to originator, got %+v", origin.events)
	}
}

func TestHandleUpdate_UserUpdatesSelf(t *testing.T) {
	store := newStubStore(
		domain.User{ID: 1, Username: "user1", Roles: domain.RoleUser, SecretPhrase: "oldphrase1"},
	)
	handler, broadcast := newTestHandler(store)
	origin := &recordingEmitter{}

	handler.HandleUpdate(context.Background(), updateSecretPhraseMessage{
		UserID:          "user1",
		NewSecretPhrase: "selfchosen",
		ActorID:         "user1",
	}, origin)

	if store.users["user1"].SecretPhrase != "selfchosen" {
		t.Fatalf("phrase not persisted")
	}
	if len(broadcast.events) != 1 {
		t.Fatalf("expected broadcast, got %+v", broadcast.events)
	}
}

func TestHandleUpdate_PermissionDeniedIsPrivate(t *testing.T) {
	store := newStubStore(
		domain.User{ID: 1, Username: "user1", Roles: domain.RoleUser, SecretPhrase: "user1phrase"},
		domain.User{ID: 2, Username: "user2", Roles: domain.RoleUser, SecretPhrase: "user2phrase"},
	)
	handler, broadcast := newTestHandler(store)
	origin := &recordingEmitter{}

	handler.HandleUpdate(context.Background(), updateSecretPhraseMessage{
		UserID:          "user2",
		NewSecretPhrase: "newpass1",
		ActorID:         "user1",
	}, origin)

	if store.users["user2"].SecretPhrase != "user2phrase" {
		t.Fatalf("row must not change on denied update")
	}
	if len(broadcast.events) != 0 {
		t.Fatalf("denied update must not broadcast, got %+v", broadcast.events)
	}
	if len(origin.events) != 1 || origin.events[0].event != eventError {
		t.Fatalf("expected error to originator only, got %+v", origin.events)
	}
}

func TestHandleUpdate_ActorNotFound(t *testing.T) {
	store := newStubStore(
		domain.User{ID: 1, Username: "user1", Roles: domain.RoleUser, SecretPhrase: "user1phrase"},
	)
	handler, broadcast := newTestHandler(store)
	origin := &recordingEmitter{}

	handler.HandleUpdate(context.Background(), updateSecretPhraseMessage{
		UserID:          "user1",
		NewSecretPhrase: "newpass1",
		ActorID:         "ghost",
	}, origin)

	if store.users["user1"].SecretPhrase != "user1phrase" {
		t.Fatalf("row must not change when the actor is unknown")
	}
	if len(broadcast.events) != 0 {
		t.Fatalf("no broadcast expected, got %+v", broadcast.events)
	}
	if len(origin.events) != 1 || origin.events[0].event != eventError {
		t.Fatalf("expected error to originator, got %+v", origin.events)
	}
}

func TestHandleUpdate_ShortPhraseRejected(t *testing.T) {
	// The registration invariant applies on the realtime path too.
	store := newStubStore(
		domain.User{ID: 1, Username: "admin1", Roles: domain.RoleAdmin, SecretPhrase: "adminphrase"},
		domain.User{ID: 2, Username: "user2", Roles: domain.RoleUser, SecretPhrase: "user2phrase"},
	)
	handler, broadcast := newTestHandler(store)
	origin := &recordingEmitter{}

	handler.HandleUpdate(context.Background(), updateSecretPhraseMessage{
		UserID:          "user2",
		NewSecretPhrase: "short",
		ActorID:         "admin1",
	}, origin)

	if store.users["user2"].SecretPhrase != "user2phrase" {
		t.Fatalf("short phrase must not be persisted")
	}
	if len(broadcast.events) != 0 {
		t.Fatalf("no broadcast expected, got %+v", broadcast.events)
	}
	if len(origin.events) != 1 || origin.events[0].event != eventError {
		t.Fatalf("expected error to originator, got %+v", origin.events)
	}
}

func TestHandleUpdate_PersistenceFailure(t *testing.T) {
	store := newStubStore(
		domain.User{ID: 1, Username: "admin1", Roles: domain.RoleAdmin, SecretPhrase: "adminphrase"},
	)
	store.updateErr = context.DeadlineExceeded
	handler, broadcast := newTestHandler(store)
	origin := &recordingEmitter{}

	handler.HandleUpdate(context.Background(), updateSecretPhraseMessage{
		UserID:          "admin1",
		NewSecretPhrase: "replacement",
		ActorID:         "admin1",
	}, origin)

	if len(broadcast.events) != 0 {
		t.Fatalf("failed persistence must not broadcast, got %+v", broadcast.events)
	}
	if len(origin.events) != 1 || origin.events[0].event != eventError {
		t.Fatalf("expected error to originator, got %+v", origin.events)
	}
}
