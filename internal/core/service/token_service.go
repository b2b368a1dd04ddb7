package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
)

const defaultTokenTTL = time.Hour

// TokenService issues and verifies the signed, time-limited credentials that
// assert identity and role. It is stateless: no revocation list, expiry by
// time only.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a credential for the given identity. Fails with ErrValidation
// when username or role is missing.
func (s *TokenService) Issue(username, role string) (string, error) {
	if username == "" || role == "" {
		return "", fmt.Errorf("%w: username and role are required", domain.ErrValidation)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"username": username,
		"roles":    role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a credential, returning the caller identity it
// asserts. Bad signatures, wrong algorithms, and expired tokens all yield
// ErrInvalidToken; there is no fallback to anonymous.
func (s *TokenService) Verify(raw string) (domain.AccessContext, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.AccessContext{}, domain.ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	role, _ := claims["roles"].(string)
	if username == "" || role == "" {
		return domain.AccessContext{}, domain.ErrInvalidToken
	}

	return domain.AccessContext{Username: username, Role: role}, nil
}
