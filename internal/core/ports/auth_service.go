package ports

import (
	"context"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
)

// UserView is a user record shaped by the access policy. Fields outside the
// caller's visibility are zeroed and omitted from the JSON encoding.
type UserView struct {
	ID           int64  `json:"id,omitempty"`
	Username     string `json:"username"`
	Roles        string `json:"roles"`
	SecretPhrase string `json:"secret_phrase,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

// AuthService covers registration, login, and the policy-gated user
// operations.
type AuthService interface {
	// Register creates a user. The role must be one of the persistable roles
	// (admin, user) and the secret phrase at least 8 characters.
	Register(ctx context.Context, username, role, secretPhrase string) (*domain.User, error)

	// Login checks the secret phrase and issues a signed credential. Unknown
	// usernames and wrong phrases both yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, secretPhrase string) (token string, role string, err error)

	// UpdateSecretPhrase changes the caller's own phrase via the REST path.
	UpdateSecretPhrase(ctx context.Context, caller domain.AccessContext, secretPhrase string) error

	// ListUsers returns all users shaped by the caller's visibility.
	ListUsers(ctx context.Context, caller domain.AccessContext) ([]UserView, error)
}

// LoginLimiter throttles repeated failed logins per username.
type LoginLimiter interface {
	// Allow reports whether another attempt is permitted right now.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure counts a failed attempt against the username.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, username string) error
}
