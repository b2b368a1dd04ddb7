package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
	"github.com/hazel260802/lecole-fast-track-24/internal/core/service"
)

func gateContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGate_ValidToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	signed, err := tokens.Issue("alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	c, rec := gateContext(t, "Bearer "+signed)

	called := false
	handler := Gate(tokens)(func(c echo.Context) error {
		called = true
		if c.Get(CtxUsername) != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get(CtxRole) != domain.RoleAdmin {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGate_NoHeaderIsAnonymous(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	c, _ := gateContext(t, "")

	handler := Gate(tokens)(func(c echo.Context) error {
		if c.Get(CtxUsername) != domain.AnonymousUsername {
			t.Fatalf("expected anonymous username, got %v", c.Get(CtxUsername))
		}
		if c.Get(CtxRole) != domain.RoleAnonymous {
			t.Fatalf("expected anonymous role, got %v", c.Get(CtxRole))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("anonymous request must proceed, got %v", err)
	}
}

func TestGate_NonBearerSchemeIsAnonymous(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	for _, header := range []string{"Basic dXNlcjpwYXNz", "Digest abc123", "Token xyz"} {
		c, _ := gateContext(t, header)

		called := false
		err := Gate(tokens)(func(c echo.Context) error {
			called = true
			if c.Get(CtxUsername) != domain.AnonymousUsername {
				t.Fatalf("header %q: expected anonymous username, got %v", header, c.Get(CtxUsername))
			}
			if c.Get(CtxRole) != domain.RoleAnonymous {
				t.Fatalf("header %q: expected anonymous role, got %v", header, c.Get(CtxRole))
			}
			return c.NoContent(http.StatusOK)
		})(c)

		if err != nil {
			t.Fatalf("header %q: non-bearer scheme must proceed anonymously, got %v", header, err)
		}
		if !called {
			t.Fatalf("header %q: next not called", header)
		}
	}
}

func TestGate_EmptyBearerToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	for _, header := range []string{"Bearer", "Bearer ", "Bearer   "} {
		c, _ := gateContext(t, header)
		err := Gate(tokens)(func(c echo.Context) error {
			t.Fatalf("next must not be called for header %q", header)
			return nil
		})(c)
		if !errors.Is(err, domain.ErrMissingToken) {
			t.Fatalf("header %q: expected ErrMissingToken, got %v", header, err)
		}
	}
}

func TestGate_InvalidTokenNeverDowngrades(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	c, _ := gateContext(t, "Bearer not-a-real-token")
	err := Gate(tokens)(func(c echo.Context) error {
		t.Fatalf("invalid credential must be rejected, not treated as anonymous")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGate_ExpiredTokenRejected(t *testing.T) {
	issuing := service.NewTokenService("secret", time.Nanosecond)
	signed, err := issuing.Issue("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	time.Sleep(time.Second + 50*time.Millisecond)

	verifying := service.NewTokenService("secret", time.Hour)
	c, _ := gateContext(t, "Bearer "+signed)
	err = Gate(verifying)(func(c echo.Context) error {
		t.Fatalf("expired credential must be rejected")
		return nil
	})(c)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
