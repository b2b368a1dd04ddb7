package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testRepo(t *testing.T) *UserRepository {
	t.Helper()
	return NewStore(testDB(t)).Users()
}

func TestStore_RepositoriesShareWriteLock(t *testing.T) {
	store := NewStore(testDB(t))

	if store.Users().writeLock != store.Products().writeLock {
		t.Fatalf("user and product writes must serialize through the same lock")
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := testRepo(t)

	created, err := repo.Create(context.Background(), &domain.User{
		Username:     "alice",
		Roles:        domain.RoleUser,
		SecretPhrase: "wonderland8",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	found, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != created.ID || found.SecretPhrase != "wonderland8" || !found.IsActive {
		t.Fatalf("unexpected row: %+v", found)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	repo := testRepo(t)

	if _, err := repo.Create(context.Background(), &domain.User{
		Username: "bob", Roles: domain.RoleUser, SecretPhrase: "firstphrase", IsActive: true,
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := repo.Create(context.Background(), &domain.User{
		Username: "bob", Roles: domain.RoleAdmin, SecretPhrase: "otherphrase", IsActive: true,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	// The original row must be untouched by the rejected insert.
	found, err := repo.FindByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Roles != domain.RoleUser || found.SecretPhrase != "firstphrase" {
		t.Fatalf("first row was modified: %+v", found)
	}
}

func TestUserRepository_FindMissing(t *testing.T) {
	repo := testRepo(t)

	if _, err := repo.FindByUsername(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_UpdateSecretPhrase(t *testing.T) {
	repo := testRepo(t)

	created, err := repo.Create(context.Background(), &domain.User{
		Username: "carol", Roles: domain.RoleUser, SecretPhrase: "oldphrase1", IsActive: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateSecretPhrase(context.Background(), created.ID, "newphrase1"); err != nil {
		t.Fatalf("update by id: %v", err)
	}
	if err := repo.UpdateSecretPhraseByUsername(context.Background(), "carol", "newphrase2"); err != nil {
		t.Fatalf("update by username: %v", err)
	}

	found, _ := repo.FindByUsername(context.Background(), "carol")
	if found.SecretPhrase != "newphrase2" {
		t.Fatalf("expected newphrase2, got %q", found.SecretPhrase)
	}

	if err := repo.UpdateSecretPhrase(context.Background(), 9999, "whatever1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for missing id, got %v", err)
	}
	if err := repo.UpdateSecretPhraseByUsername(context.Background(), "ghost", "whatever1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for missing username, got %v", err)
	}
}

func TestUserRepository_ListAllNewestFirst(t *testing.T) {
	repo := testRepo(t)

	for _, name := range []string{"first", "second", "third"} {
		if _, err := repo.Create(context.Background(), &domain.User{
			Username: name, Roles: domain.RoleUser, SecretPhrase: name + "-phrase", IsActive: true,
		}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	users, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	if users[0].Username != "third" || users[2].Username != "first" {
		t.Fatalf("expected newest first, got %+v", users)
	}
}
