package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cosechaencope/marketplace/internal/api/metrics"
	"github.com/cosechaencope/marketplace/internal/core/domain"
	"github.com/cosechaencope/marketplace/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"nombre"   validate:"required"`
}

// jwtResponse mirrors the shape the web client consumes.
type jwtResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	UserID   int64    `json:"idUsuario"`
	Email    string   `json:"email"`
	UserType string   `json:"tipoUsuario"`
	Roles    []string `json:"roles"`
}

type registerResponse struct {
	UserID   int64  `json:"idUsuario"`
	Email    string `json:"email"`
	Name     string `json:"nombre"`
	UserType string `json:"tipoUsuario"`
}

// Login authenticates any account and returns a JWT.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  jwtResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, "generic", h.authService.Login)
}

// LoginProducer authenticates a producer account and returns a JWT.
//
// @Summary      Producer login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  jwtResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login/productores [post]
func (h *AuthHandler) LoginProducer(c echo.Context) error {
	return h.login(c, "productores", h.authService.LoginProducer)
}

func (h *AuthHandler) login(c echo.Context, audience string, exchange func(ctx context.Context, email, password string) (string, *domain.User, error)) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	token, user, err := exchange(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(audience, loginResult(err)).Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			// Do not leak which accounts exist.
			err = domain.ErrInvalidCredentials
		}
		// The central error handler maps credential errors to 401 and keeps
		// unexpected failures (storage outages) out of the response body.
		return err
	}

	metrics.LoginsTotal.WithLabelValues(audience, "ok").Inc()
	return c.JSON(http.StatusOK, jwtResponse{
		Token:    token,
		Type:     "Bearer",
		UserID:   user.ID,
		Email:    user.Email,
		UserType: user.UserType,
		Roles:    user.Roles,
	})
}

// RegisterClient creates a new client account.
//
// @Summary      Register a client account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/registro/clientes [post]
func (h *AuthHandler) RegisterClient(c echo.Context) error {
	return h.register(c, h.authService.RegisterClient)
}

// RegisterProducer creates a new producer account.
//
// @Summary      Register a producer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/registro/productores [post]
func (h *AuthHandler) RegisterProducer(c echo.Context) error {
	return h.register(c, h.authService.RegisterProducer)
}

func (h *AuthHandler) register(c echo.Context, create func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := create(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		// ErrUserExists maps to 409 centrally; anything else is a 500
		// without the underlying cause in the body.
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(user.UserType).Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		UserType: user.UserType,
	})
}

// Logout revokes the presented token server-side.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      204  "token revoked"
// @Failure      401  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("token").(string)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return err
	}

	metrics.TokenRevocationsTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrWrongAudience):
		return "wrong_audience"
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserNotFound):
		return "invalid_credentials"
	default:
		return "error"
	}
}
