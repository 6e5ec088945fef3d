package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cosechaencope/marketplace/internal/core/domain"
	"github.com/cosechaencope/marketplace/internal/core/ports"
)

type stubAuthService struct {
	loginErr      error
	producerCalls int
	registered    *ports.RegisterInput
	registerErr   error
	loggedOut     string
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return "T", &domain.User{
		ID:       7,
		Email:    email,
		UserType: domain.UserTypeClient,
		Roles:    []string{domain.RoleUser},
	}, nil
}

func (s *stubAuthService) LoginProducer(ctx context.Context, email, password string) (string, *domain.User, error) {
	s.producerCalls++
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return "T", &domain.User{
		ID:       8,
		Email:    email,
		UserType: domain.UserTypeProducer,
		Roles:    []string{domain.RoleUser, domain.RoleProducer},
	}, nil
}

func (s *stubAuthService) RegisterClient(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.registered = &in
	return &domain.User{ID: 9, Email: in.Email, Name: in.Name, UserType: domain.UserTypeClient}, nil
}

func (s *stubAuthService) RegisterProducer(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.registered = &in
	return &domain.User{ID: 10, Email: in.Email, Name: in.Name, UserType: domain.UserTypeProducer}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	s.loggedOut = token
	return nil
}

func postJSON(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, rec := postJSON(t, "/cosechaencope/auth/login", `{"email":"ana@example.com","password":"s3cret"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token    string   `json:"token"`
		Type     string   `json:"type"`
		UserID   int64    `json:"idUsuario"`
		Email    string   `json:"email"`
		UserType string   `json:"tipoUsuario"`
		Roles    []string `json:"roles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "T" || resp.Type != "Bearer" || resp.UserID != 7 ||
		resp.UserType != domain.UserTypeClient || len(resp.Roles) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, rec := postJSON(t, "/cosechaencope/auth/login", `{"email":"not-an-email","password":""}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrInvalidCredentials})
	c, _ := postJSON(t, "/cosechaencope/auth/login", `{"email":"ana@example.com","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for the error handler, got %v", err)
	}
}

func TestAuthHandler_Login_UnknownUserNotLeaked(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrUserNotFound})
	c, rec := postJSON(t, "/cosechaencope/auth/login", `{"email":"nadie@example.com","password":"x"}`)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown account must surface as invalid credentials, got %v", err)
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("error must not reveal account existence")
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected no body written by the handler, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_UnexpectedErrorNotRendered(t *testing.T) {
	// A storage outage goes to the central handler untouched; the handler
	// must not turn it into a 401 with the cause in the body.
	cause := errors.New("server selection timeout")
	h := NewAuthHandler(&stubAuthService{loginErr: cause})
	c, rec := postJSON(t, "/cosechaencope/auth/login", `{"email":"ana@example.com","password":"x"}`)

	if err := h.Login(c); !errors.Is(err, cause) {
		t.Fatalf("expected the cause propagated, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("handler must not render unexpected errors, wrote %s", rec.Body.String())
	}
}

func TestAuthHandler_LoginProducer_WrongAudience(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrWrongAudience}
	h := NewAuthHandler(svc)
	c, _ := postJSON(t, "/cosechaencope/auth/login/productores", `{"email":"ana@example.com","password":"s3cret"}`)

	if err := h.LoginProducer(c); !errors.Is(err, domain.ErrWrongAudience) {
		t.Fatalf("expected ErrWrongAudience, got %v", err)
	}
	if svc.producerCalls != 1 {
		t.Fatalf("expected producer exchange to be used")
	}
}

func TestAuthHandler_RegisterClient(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)
	c, rec := postJSON(t, "/cosechaencope/auth/registro/clientes", `{"email":"n@example.com","password":"passw0rd1","nombre":"Nieves"}`)

	if err := h.RegisterClient(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.registered == nil || svc.registered.Name != "Nieves" {
		t.Fatalf("expected registration input forwarded, got %+v", svc.registered)
	}
}

func TestAuthHandler_RegisterClient_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, rec := postJSON(t, "/cosechaencope/auth/registro/clientes", `{"email":"n@example.com","password":"corta","nombre":"Nieves"}`)

	if err := h.RegisterClient(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{registerErr: domain.ErrUserExists})
	c, _ := postJSON(t, "/cosechaencope/auth/registro/clientes", `{"email":"n@example.com","password":"passw0rd1","nombre":"Nieves"}`)

	if err := h.RegisterClient(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for the error handler, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)
	c, rec := postJSON(t, "/cosechaencope/auth/logout", "")
	c.Set("token", "T")

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if svc.loggedOut != "T" {
		t.Fatalf("expected token T revoked, got %q", svc.loggedOut)
	}
}

func TestAuthHandler_Logout_WithoutClaims(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})
	c, _ := postJSON(t, "/cosechaencope/auth/logout", "")

	err := h.Logout(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
