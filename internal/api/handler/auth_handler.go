package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hazel260802/lecole-fast-track-24/internal/api/metrics"
	"github.com/hazel260802/lecole-fast-track-24/internal/core/ports"
)

// AuthHandler handles the /api/auth endpoints.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username     string `json:"username"      validate:"required"`
	Roles        string `json:"roles"         validate:"required,oneof=admin user"`
	SecretPhrase string `json:"secret_phrase" validate:"required,min=8"`
}

type loginRequest struct {
	Username     string `json:"username"`
	SecretPhrase string `json:"secret_phrase"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	Roles   string `json:"roles,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Username, req.Roles, req.SecretPhrase); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "User created successfully"})
}

// Login authenticates a user and returns a signed credential.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, role, err := h.authService.Login(c.Request().Context(), req.Username, req.SecretPhrase)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("fail").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		Roles:   role,
	})
}

// Logout acknowledges a logout request. Credentials are stateless, so the
// token stays valid until its natural expiry; the endpoint only reports
// whether the caller presented one.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  loginResponse
// @Failure      400  {object}  loginResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if ctxCaller(c).IsAnonymous() {
		return c.JSON(http.StatusBadRequest, loginResponse{
			Success: false,
			Message: "User is not logged in",
		})
	}

	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Message: "Logout successful",
	})
}

type updateSecretPhraseRequest struct {
	SecretPhrase string `json:"secret_phrase"`
}

// UpdateSecretPhrase changes the caller's own secret phrase.
//
// @Summary      Update the caller's secret phrase
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateSecretPhraseRequest  true  "New secret phrase"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/update-secret-phrase [post]
func (h *AuthHandler) UpdateSecretPhrase(c echo.Context) error {
	var req updateSecretPhraseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.authService.UpdateSecretPhrase(c.Request().Context(), ctxCaller(c), req.SecretPhrase); err != nil {
		metrics.SecretPhraseUpdatesTotal.WithLabelValues("rest", "error").Inc()
		return err
	}

	metrics.SecretPhraseUpdatesTotal.WithLabelValues("rest", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Secret phrase updated successfully"})
}

type usersResponse struct {
	Users []ports.UserView `json:"users"`
}

// ListUsers returns every user shaped by the caller's visibility. Anonymous
// callers are allowed and receive public fields only.
//
// @Summary      List users
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  false  "Optional bearer credential"
// @Success      200  {object}  usersResponse
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	views, err := h.authService.ListUsers(c.Request().Context(), ctxCaller(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, usersResponse{Users: views})
}
