package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
	"github.com/hazel260802/lecole-fast-track-24/internal/core/service"
)

// Context keys under which the gate stores the resolved caller identity.
const (
	CtxUsername = "username"
	CtxRole     = "role"
)

// Gate resolves the caller identity for every request:
//
//   - no bearer credential present (no header, or another scheme such as
//     Basic) → anonymous caller, request proceeds;
//   - Bearer scheme with an empty or blank token → 400;
//   - token present but invalid or expired → 401, never anonymous.
//
// The asymmetry is deliberate: sending no bearer credential is always
// anonymous, but a bad credential cannot be silently downgraded into
// anonymous trust.
func Gate(tokens *service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
			if !strings.EqualFold(parts[0], "bearer") {
				anon := domain.Anonymous()
				c.Set(CtxUsername, anon.Username)
				c.Set(CtxRole, anon.Role)
				return next(c)
			}

			if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrMissingToken
			}

			caller, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			c.Set(CtxUsername, caller.Username)
			c.Set(CtxRole, caller.Role)

			return next(c)
		}
	}
}
