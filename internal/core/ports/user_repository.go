package ports

import (
	"context"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
)

// UserRepository defines the interface for credential store persistence.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByUsername returns domain.ErrUserNotFound when no row matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// UpdateSecretPhrase replaces the stored phrase for the given user id.
	// Returns domain.ErrUserNotFound when no row was updated.
	UpdateSecretPhrase(ctx context.Context, id int64, secretPhrase string) error

	// ListAll returns every user, newest first.
	ListAll(ctx context.Context) ([]domain.User, error)
}
