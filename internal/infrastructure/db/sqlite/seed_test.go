package sqlite

import (
	"context"
	"testing"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
)

func TestSeed_PopulatesEmptyDatabase(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)

	if err := Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	users, err := store.Users().ListAll(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) == 0 {
		t.Fatalf("expected sample users")
	}
	for _, u := range users {
		if u.Roles != domain.RoleAdmin && u.Roles != domain.RoleUser {
			t.Fatalf("sample user %q has unexpected role %q", u.Username, u.Roles)
		}
		if len(u.SecretPhrase) < domain.MinSecretPhraseLen {
			t.Fatalf("sample user %q has a phrase below the minimum length", u.Username)
		}
	}

	products, err := store.Products().ListAll(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) == 0 {
		t.Fatalf("expected sample products")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)

	if err := Seed(db); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	users, _ := store.Users().ListAll(context.Background())
	products, _ := store.Products().ListAll(context.Background())

	if err := Seed(db); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	usersAgain, _ := store.Users().ListAll(context.Background())
	productsAgain, _ := store.Products().ListAll(context.Background())

	if len(usersAgain) != len(users) || len(productsAgain) != len(products) {
		t.Fatalf("reseeding changed row counts: users %d then %d, products %d then %d",
			len(users), len(usersAgain), len(products), len(productsAgain))
	}
}

func TestSeed_LeavesExistingRowsAlone(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)

	if _, err := store.Users().Create(context.Background(), &domain.User{
		Username: "existing", Roles: domain.RoleUser, SecretPhrase: "alreadyhere", IsActive: true,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	users, err := store.Users().ListAll(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].Username != "existing" {
		t.Fatalf("seed must not touch a populated table: %+v", users)
	}
}
