package service

import (
	"context"
	"fmt"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
	"github.com/hazel260802/lecole-fast-track-24/internal/core/policy"
	"github.com/hazel260802/lecole-fast-track-24/internal/core/ports"
)

// AuthService implements registration, login, and the policy-gated user
// operations. Secret phrases are stored as entered: the access policy grants
// admins and owners full read of the phrase, which rules out one-way hashing.
type AuthService struct {
	users   ports.UserRepository
	tokens  *TokenService
	limiter ports.LoginLimiter
}

// NewAuthService wires the credential store, token service, and an optional
// login limiter (nil disables throttling, used by tests).
func NewAuthService(users ports.UserRepository, tokens *TokenService, limiter ports.LoginLimiter) *AuthService {
	return &AuthService{users: users, tokens: tokens, limiter: limiter}
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Register(ctx context.Context, username, role, secretPhrase string) (*domain.User, error) {
	if username == "" || role == "" || secretPhrase == "" {
		return nil, fmt.Errorf("%w: username, roles, and secret phrase are required", domain.ErrValidation)
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, fmt.Errorf("%w: role must be %q or %q", domain.ErrValidation, domain.RoleAdmin, domain.RoleUser)
	}
	if len(secretPhrase) < domain.MinSecretPhraseLen {
		return nil, fmt.Errorf("%w: secret phrase must be at least %d characters", domain.ErrValidation, domain.MinSecretPhraseLen)
	}

	user := &domain.User{
		Username:     username,
		Roles:        role,
		SecretPhrase: secretPhrase,
		IsActive:     true,
	}
	return s.users.Create(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, username, secretPhrase string) (string, string, error) {
	if username == "" || secretPhrase == "" {
		return "", "", fmt.Errorf("%w: username and secret phrase are required", domain.ErrValidation)
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, username)
		if err == nil && !ok {
			return "", "", domain.ErrTooManyAttempts
		}
		// A limiter outage must not lock everyone out; fall through on error.
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil || user.SecretPhrase != secretPhrase {
		if s.limiter != nil {
			_ = s.limiter.RecordFailure(ctx, username)
		}
		// Unknown username and wrong phrase are indistinguishable to the
		// caller so the endpoint cannot be used to probe for accounts.
		return "", "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, user.Roles)
	if err != nil {
		return "", "", err
	}

	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, username)
	}
	return token, user.Roles, nil
}

// UpdateSecretPhrase changes the caller's own phrase. The same minimum-length
// invariant as registration applies.
func (s *AuthService) UpdateSecretPhrase(ctx context.Context, caller domain.AccessContext, secretPhrase string) error {
	if caller.IsAnonymous() || !policy.KnownRole(caller.Role) {
		return domain.ErrAccessDenied
	}
	if secretPhrase == "" {
		return fmt.Errorf("%w: secret phrase is required", domain.ErrValidation)
	}
	if len(secretPhrase) < domain.MinSecretPhraseLen {
		return fmt.Errorf("%w: secret phrase must be at least %d characters", domain.ErrValidation, domain.MinSecretPhraseLen)
	}

	user, err := s.users.FindByUsername(ctx, caller.Username)
	if err != nil {
		return err
	}
	if !policy.CanMutate(caller, user.Username) {
		return domain.ErrAccessDenied
	}

	return s.users.UpdateSecretPhrase(ctx, user.ID, secretPhrase)
}

// ListUsers returns every user shaped by the caller's visibility. Roles
// outside the enumerated set are rejected outright.
func (s *AuthService) ListUsers(ctx context.Context, caller domain.AccessContext) ([]ports.UserView, error) {
	if !policy.KnownRole(caller.Role) {
		return nil, domain.ErrAccessDenied
	}

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ports.UserView, 0, len(users))
	for _, u := range users {
		switch policy.VisibilityFor(caller, u) {
		case policy.VisibilityFull:
			active := u.IsActive
			views = append(views, ports.UserView{
				ID:           u.ID,
				Username:     u.Username,
				Roles:        u.Roles,
				SecretPhrase: u.SecretPhrase,
				IsActive:     &active,
			})
		case policy.VisibilityOwn:
			views = append(views, ports.UserView{
				Username:     u.Username,
				Roles:        u.Roles,
				SecretPhrase: u.SecretPhrase,
			})
		case policy.VisibilityPublic:
			views = append(views, ports.UserView{
				Username: u.Username,
				Roles:    u.Roles,
			})
		case policy.VisibilityNone:
			// skipped entirely
		}
	}
	return views, nil
}
