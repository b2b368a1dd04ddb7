package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hazel260802/lecole-fast-track-24/internal/api/middleware"
	"github.com/hazel260802/lecole-fast-track-24/internal/core/domain"
)

// ctxCaller rebuilds the AccessContext injected by the Gate middleware. A
// request that somehow bypassed the gate carries no identity and is treated
// as anonymous, the least privileged role.
func ctxCaller(c echo.Context) domain.AccessContext {
	username, _ := c.Get(middleware.CtxUsername).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	if username == "" || role == "" {
		return domain.Anonymous()
	}
	return domain.AccessContext{Username: username, Role: role}
}
